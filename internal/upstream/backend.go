package upstream

import "context"

// Backend is the remote catalog/order/auth surface the gateway consumes.
// Two implementations exist: the HTTP client against the real API and the
// seeded in-memory variant used for dev mode and tests.
type Backend interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, product Product) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	BulkCreateProducts(ctx context.Context, inputs []ProductInput) ([]Product, error)

	// IncrementQuantity and DecrementQuantity adjust inventory by the given
	// amount and return the product with its server-side remaining stock.
	IncrementQuantity(ctx context.Context, id int64, amount int) (*Product, error)
	DecrementQuantity(ctx context.Context, id int64, amount int) (*Product, error)

	PlaceOrder(ctx context.Context, input OrderInput) (*Order, error)
	OrdersByUser(ctx context.Context, userID int64) ([]Order, error)
	AllOrders(ctx context.Context) ([]Order, error)

	Login(ctx context.Context, creds Credentials) (*Account, error)
	Register(ctx context.Context, input RegisterInput) (*Account, error)
	Logout(ctx context.Context, userID int64) error
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Account, error)
	ChangePassword(ctx context.Context, userID int64, change PasswordChange) (*Account, error)
	Deactivate(ctx context.Context, userID int64) (*Account, error)
	Restore(ctx context.Context, userID int64, password string) (*Account, error)
}
