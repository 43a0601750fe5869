package upstream

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grocerlane/gateway/pkg/config"
	"github.com/grocerlane/gateway/pkg/enums"
	pkgerrors "github.com/grocerlane/gateway/pkg/errors"
	"github.com/grocerlane/gateway/pkg/security"
	"github.com/shopspring/decimal"
)

type memAccount struct {
	Account
	passwordHash string
}

// Memory is the seeded in-process backend used for dev mode and tests.
type Memory struct {
	mu sync.Mutex

	products map[int64]Product
	accounts map[int64]*memAccount
	orders   []Order

	nextProductID int64
	nextUserID    int64
	nextOrderID   int64

	passwords config.PasswordConfig
	now       func() time.Time
}

type seedUser struct {
	name          string
	email         string
	contactNumber string
	address       string
	role          string
	password      string
}

var seedUsers = []seedUser{
	{name: "Store Admin", email: "admin@grocery.dev", contactNumber: "9990001111", address: "1 Market Street", role: "admin", password: "Admin@123"},
	{name: "Demo Customer", email: "customer@grocery.dev", contactNumber: "8880002222", address: "42 Orchard Lane", role: "customer", password: "Customer@123"},
}

var seedProducts = []ProductInput{
	{Name: "Apples", Description: "Crisp red apples, sold per kilogram", Price: decimal.NewFromFloat(3.50), Quantity: 120, ImageURL: "https://img.grocery.dev/apples.jpg"},
	{Name: "Whole Milk", Description: "1L whole milk", Price: decimal.NewFromFloat(1.20), Quantity: 80, ImageURL: "https://img.grocery.dev/milk.jpg"},
	{Name: "Sourdough Bread", Description: "Fresh baked sourdough loaf", Price: decimal.NewFromFloat(4.00), Quantity: 25, ImageURL: "https://img.grocery.dev/sourdough.jpg"},
	{Name: "Eggs", Description: "Free range eggs, dozen", Price: decimal.NewFromFloat(2.80), Quantity: 60, ImageURL: "https://img.grocery.dev/eggs.jpg"},
	{Name: "Olive Oil", Description: "Extra virgin olive oil, 500ml", Price: decimal.NewFromFloat(7.90), Quantity: 40, ImageURL: "https://img.grocery.dev/olive-oil.jpg"},
	{Name: "Basmati Rice", Description: "Aged basmati rice, 1kg", Price: decimal.NewFromFloat(5.10), Quantity: 90, ImageURL: "https://img.grocery.dev/basmati.jpg"},
}

// NewMemory builds the in-memory backend with demo accounts and a small catalog.
func NewMemory(passwords config.PasswordConfig) (*Memory, error) {
	m := &Memory{
		products:  make(map[int64]Product),
		accounts:  make(map[int64]*memAccount),
		passwords: passwords,
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, input := range seedProducts {
		m.nextProductID++
		m.products[m.nextProductID] = Product{
			ID:          m.nextProductID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Quantity:    input.Quantity,
			ImageURL:    input.ImageURL,
		}
	}

	for _, user := range seedUsers {
		hash, err := security.HashPassword(user.password, passwords)
		if err != nil {
			return nil, fmt.Errorf("seeding account %s: %w", user.email, err)
		}
		role, err := enums.ParseUserRole(user.role)
		if err != nil {
			return nil, err
		}
		m.nextUserID++
		m.accounts[m.nextUserID] = &memAccount{
			Account: Account{
				ID:            m.nextUserID,
				Name:          user.name,
				Email:         user.email,
				ContactNumber: user.contactNumber,
				Address:       user.address,
				Role:          role,
				Status:        enums.AccountStatusActive,
			},
			passwordHash: hash,
		}
	}

	return m, nil
}

func (m *Memory) ListProducts(ctx context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]Product, 0, len(m.products))
	for _, product := range m.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *Memory) GetProduct(ctx context.Context, id int64) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getProductLocked(id)
}

func (m *Memory) getProductLocked(id int64) (*Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	copied := product
	return &copied, nil
}

func (m *Memory) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProductID++
	product := Product{
		ID:          m.nextProductID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
	}
	m.products[product.ID] = product
	copied := product
	return &copied, nil
}

func (m *Memory) UpdateProduct(ctx context.Context, product Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[product.ID]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	m.products[product.ID] = product
	copied := product
	return &copied, nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) BulkCreateProducts(ctx context.Context, inputs []ProductInput) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := make([]Product, 0, len(inputs))
	for _, input := range inputs {
		m.nextProductID++
		product := Product{
			ID:          m.nextProductID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Quantity:    input.Quantity,
			ImageURL:    input.ImageURL,
		}
		m.products[product.ID] = product
		created = append(created, product)
	}
	return created, nil
}

func (m *Memory) IncrementQuantity(ctx context.Context, id int64, amount int) (*Product, error) {
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product.Quantity += amount
	m.products[id] = product
	copied := product
	return &copied, nil
}

func (m *Memory) DecrementQuantity(ctx context.Context, id int64, amount int) (*Product, error) {
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.Quantity < amount {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}
	product.Quantity -= amount
	m.products[id] = product
	copied := product
	return &copied, nil
}

func (m *Memory) PlaceOrder(ctx context.Context, input OrderInput) (*Order, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires a user")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextOrderID++
	order := Order{
		ID:        m.nextOrderID,
		UserID:    input.UserID,
		Items:     append([]OrderLine(nil), input.Items...),
		Total:     input.Total,
		CreatedAt: m.now(),
	}
	m.orders = append(m.orders, order)
	copied := cloneOrder(order)
	return &copied, nil
}

func (m *Memory) OrdersByUser(ctx context.Context, userID int64) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]Order, 0)
	for _, order := range m.orders {
		if order.UserID == userID {
			orders = append(orders, cloneOrder(order))
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *Memory) AllOrders(ctx context.Context) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]Order, 0, len(m.orders))
	for _, order := range m.orders {
		orders = append(orders, cloneOrder(order))
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *Memory) Login(ctx context.Context, creds Credentials) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account := m.findByIdentifierLocked(creds.Identifier)
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	ok, err := security.VerifyPassword(creds.Password, account.passwordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	copied := account.Account
	return &copied, nil
}

func (m *Memory) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.accounts {
		if strings.EqualFold(account.Email, input.Email) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
	}

	hash, err := security.HashPassword(input.Password, m.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	m.nextUserID++
	account := &memAccount{
		Account: Account{
			ID:            m.nextUserID,
			Name:          input.Name,
			Email:         input.Email,
			ContactNumber: input.ContactNumber,
			Address:       input.Address,
			Role:          enums.UserRoleCustomer,
			Status:        enums.AccountStatusActive,
		},
		passwordHash: hash,
	}
	m.accounts[account.ID] = account
	copied := account.Account
	return &copied, nil
}

func (m *Memory) Logout(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[userID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return nil
}

func (m *Memory) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}

	if update.Email != nil {
		for id, other := range m.accounts {
			if id != userID && strings.EqualFold(other.Email, *update.Email) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
		}
		account.Email = *update.Email
	}
	if update.Address != nil {
		account.Address = *update.Address
	}
	if update.ContactNumber != nil {
		account.ContactNumber = *update.ContactNumber
	}

	copied := account.Account
	return &copied, nil
}

func (m *Memory) ChangePassword(ctx context.Context, userID int64, change PasswordChange) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}

	match, err := security.VerifyPassword(change.OldPassword, account.passwordHash)
	if err != nil || !match {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "old password is incorrect")
	}

	hash, err := security.HashPassword(change.NewPassword, m.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	account.passwordHash = hash

	copied := account.Account
	return &copied, nil
}

func (m *Memory) Deactivate(ctx context.Context, userID int64) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	account.Status = enums.AccountStatusDeactivated

	copied := account.Account
	return &copied, nil
}

func (m *Memory) Restore(ctx context.Context, userID int64, password string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[userID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}

	match, err := security.VerifyPassword(password, account.passwordHash)
	if err != nil || !match {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "incorrect password")
	}
	account.Status = enums.AccountStatusActive

	copied := account.Account
	return &copied, nil
}

func (m *Memory) findByIdentifierLocked(identifier string) *memAccount {
	needle := strings.TrimSpace(identifier)
	for _, account := range m.accounts {
		if strings.EqualFold(account.Email, needle) || account.Name == needle {
			return account
		}
	}
	return nil
}

func cloneOrder(order Order) Order {
	copied := order
	copied.Items = append([]OrderLine(nil), order.Items...)
	return copied
}

func sortOrdersNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
