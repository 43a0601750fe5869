// Package bulk parses admin CSV uploads into catalog create payloads.
// A batch is accepted only when every row passes validation.
package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Column layout: name, description, price, quantity, imageUrl.
const (
	colName = iota
	colDescription
	colPrice
	colQuantity
	colImageURL

	minColumns = 4
)

// Parser converts CSV payloads to product inputs.
type Parser struct {
	priceCeiling decimal.Decimal
}

// NewParser builds a parser enforcing the given unit price ceiling.
func NewParser(priceCeiling int64) *Parser {
	return &Parser{priceCeiling: decimal.NewFromInt(priceCeiling)}
}

// Parse reads the CSV and returns one input per data row. Any invalid row
// fails the whole batch; the returned error aggregates every row problem.
func (p *Parser) Parse(r io.Reader) ([]upstream.ProductInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty")
	}

	rows := records
	if isHeader(records[0]) {
		rows = records[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv file has no data rows")
	}

	var batchErr error
	inputs := make([]upstream.ProductInput, 0, len(rows))
	for i, row := range rows {
		input, err := p.parseRow(row)
		if err != nil {
			batchErr = multierr.Append(batchErr, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		inputs = append(inputs, input)
	}
	if batchErr != nil {
		return nil, batchErr
	}
	return inputs, nil
}

func (p *Parser) parseRow(row []string) (upstream.ProductInput, error) {
	if len(row) < minColumns {
		return upstream.ProductInput{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}

	name := strings.TrimSpace(row[colName])
	if name == "" {
		return upstream.ProductInput{}, fmt.Errorf("name is required")
	}
	description := strings.TrimSpace(row[colDescription])
	if description == "" {
		return upstream.ProductInput{}, fmt.Errorf("description is required")
	}

	price := parseDecimal(row[colPrice])
	if price.LessThanOrEqual(decimal.Zero) {
		return upstream.ProductInput{}, fmt.Errorf("price must be positive")
	}
	if price.GreaterThan(p.priceCeiling) {
		return upstream.ProductInput{}, fmt.Errorf("price exceeds the %s ceiling", p.priceCeiling.String())
	}

	quantity := parseInt(row[colQuantity])
	if quantity < 0 {
		return upstream.ProductInput{}, fmt.Errorf("quantity cannot be negative")
	}

	input := upstream.ProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
	if len(row) > colImageURL {
		input.ImageURL = strings.TrimSpace(row[colImageURL])
	}
	return input, nil
}

// isHeader treats a first row whose name column is the literal token "name"
// as a header.
func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[colName]), "name")
}

// parseDecimal defaults malformed numerics to zero; validation rejects the
// zero downstream.
func parseDecimal(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}
