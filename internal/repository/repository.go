package repository

import (
	"context"
	"errors"

	"labdash-backend/internal/entity"
)

// ErrNotFound is returned when a lookup key matches nothing. Order ids are
// opaque strings here; a malformed id is just a key that misses.
var ErrNotFound = errors.New("not found")

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *entity.Order) error
	ListOrders(ctx context.Context) ([]entity.Order, error)
	GetOrderByID(ctx context.Context, id string) (*entity.Order, error)
	// UpdateOrderStatus moves an order from one status to another and
	// reports whether a row actually changed. The guard keeps settled
	// orders settled.
	UpdateOrderStatus(ctx context.Context, id, from, to string) (bool, error)
}

type CatalogRepository interface {
	GetAllTests(ctx context.Context) ([]entity.LabTest, error)
	GetAllPackages(ctx context.Context) ([]entity.Package, error)
	GetTestByID(ctx context.Context, id int) (*entity.LabTest, error)
	GetTestByName(ctx context.Context, name string) (*entity.LabTest, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}
