package repository

import (
	"context"
	"strings"
	"sync"

	"labdash-backend/internal/entity"
)

// In-memory implementations backing tests and ENV=test mode. Same contracts
// as the Postgres ones, state scoped to the instance instead of process
// globals.

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []entity.Order
	byID   map[string]int
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{byID: make(map[string]int)}
}

func (r *MemoryOrderRepository) CreateOrder(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	cp.Tests = append([]entity.TestRef(nil), order.Tests...)
	r.orders = append(r.orders, cp)
	r.byID[cp.ID] = len(r.orders) - 1
	return nil
}

func (r *MemoryOrderRepository) ListOrders(_ context.Context) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// newest first
	out := make([]entity.Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		out = append(out, r.orders[i])
	}
	return out, nil
}

func (r *MemoryOrderRepository) GetOrderByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r.orders[i]
	return &cp, nil
}

func (r *MemoryOrderRepository) UpdateOrderStatus(_ context.Context, id, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok || r.orders[i].Status != from {
		return false, nil
	}
	r.orders[i].Status = to
	return true, nil
}

type MemoryCatalogRepository struct {
	tests    []entity.LabTest
	packages []entity.Package
}

func NewMemoryCatalogRepository(tests []entity.LabTest, packages []entity.Package) *MemoryCatalogRepository {
	return &MemoryCatalogRepository{tests: tests, packages: packages}
}

// NewSeededCatalogRepository returns a catalog with the stock LabDash
// offerings, used in test mode.
func NewSeededCatalogRepository() *MemoryCatalogRepository {
	return NewMemoryCatalogRepository(
		[]entity.LabTest{
			{ID: 1, Name: "CBC", Description: "Complete Blood Count", Price: 500, OriginalPrice: 650, Category: "Blood", Parameters: 28, ReportTime: "12 hours", Fasting: false},
			{ID: 2, Name: "Lipid Profile", Description: "Cholesterol and triglycerides panel", Price: 1000, OriginalPrice: 1200, Category: "Heart", Parameters: 9, ReportTime: "24 hours", Fasting: true},
			{ID: 3, Name: "HbA1c", Description: "Glycated haemoglobin", Price: 550, OriginalPrice: 700, Category: "Diabetes", Parameters: 1, ReportTime: "24 hours", Fasting: false},
			{ID: 4, Name: "Thyroid Profile", Description: "T3, T4, TSH", Price: 650, OriginalPrice: 850, Category: "Hormones", Parameters: 3, ReportTime: "24 hours", Fasting: false},
		},
		[]entity.Package{
			{ID: 1, Name: "Full Body Checkup", Description: "Comprehensive annual screen", Price: 2499, OriginalPrice: 4999, TestsCount: 72, Parameters: 72, ReportTime: "48 hours", Popular: true, Featured: true},
			{ID: 2, Name: "Diabetes Care", Description: "Sugar control panel", Price: 1199, OriginalPrice: 1999, TestsCount: 12, Parameters: 12, ReportTime: "24 hours", Popular: true, Featured: false},
		},
	)
}

func (r *MemoryCatalogRepository) GetAllTests(_ context.Context) ([]entity.LabTest, error) {
	return append([]entity.LabTest(nil), r.tests...), nil
}

func (r *MemoryCatalogRepository) GetAllPackages(_ context.Context) ([]entity.Package, error) {
	return append([]entity.Package(nil), r.packages...), nil
}

func (r *MemoryCatalogRepository) GetTestByID(_ context.Context, id int) (*entity.LabTest, error) {
	for i := range r.tests {
		if r.tests[i].ID == id {
			cp := r.tests[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCatalogRepository) GetTestByName(_ context.Context, name string) (*entity.LabTest, error) {
	for i := range r.tests {
		if strings.EqualFold(r.tests[i].Name, name) {
			cp := r.tests[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int
	users  map[string]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, users: make(map[string]entity.User)}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.Email] = *user
	return user, nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
