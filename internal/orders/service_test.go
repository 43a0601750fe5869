package orders

import (
	"context"
	"testing"

	"github.com/grocerlane/gateway/internal/upstream"
	"github.com/grocerlane/gateway/pkg/config"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *upstream.Memory {
	t.Helper()
	memory, err := upstream.NewMemory(config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	require.NoError(t, err)
	return memory
}

func placeOrder(t *testing.T, memory *upstream.Memory, userID int64) *upstream.Order {
	t.Helper()
	order, err := memory.PlaceOrder(context.Background(), upstream.OrderInput{
		UserID: userID,
		Items:  []upstream.OrderLine{{ProductID: 1, Name: "Apples", Price: decimal.NewFromFloat(3.5), Quantity: 2}},
		Total:  decimal.NewFromFloat(7),
	})
	require.NoError(t, err)
	return order
}

func TestNewServiceValidatesDeps(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestHistoryForUser(t *testing.T) {
	memory := newBackend(t)
	svc, err := NewService(memory)
	require.NoError(t, err)

	placeOrder(t, memory, 2)
	placeOrder(t, memory, 3)

	history, err := svc.HistoryForUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(2), history[0].UserID)
}

func TestHistoryRequiresUser(t *testing.T) {
	svc, err := NewService(newBackend(t))
	require.NoError(t, err)

	_, err = svc.HistoryForUser(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestAll(t *testing.T) {
	memory := newBackend(t)
	svc, err := NewService(memory)
	require.NoError(t, err)

	placeOrder(t, memory, 2)
	placeOrder(t, memory, 3)

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
