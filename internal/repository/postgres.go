package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labdash-backend/internal/entity"
)

const opTimeout = 10 * time.Second

type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// CreateOrder inserts the order and its line items in one transaction so a
// failure never leaves a half-written order behind.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, total_amount, date, status, appointment_date, appointment_time)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.TotalAmount, order.Date, order.Status, order.AppointmentDate, order.AppointmentTime,
	)
	if err != nil {
		return err
	}

	for _, t := range order.Tests {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, test_id, test_name, test_price) VALUES ($1, $2, $3, $4)`,
			order.ID, t.ID, t.Name, t.Price,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresOrderRepository) ListOrders(ctx context.Context) ([]entity.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT id, total_amount, date, status, appointment_date, appointment_time
		 FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.TotalAmount, &o.Date, &o.Status, &o.AppointmentDate, &o.AppointmentTime); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		tests, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Tests = tests
	}
	return orders, nil
}

func (r *PostgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var o entity.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, total_amount, date, status, appointment_date, appointment_time
		 FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.TotalAmount, &o.Date, &o.Status, &o.AppointmentDate, &o.AppointmentTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tests, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Tests = tests
	return &o, nil
}

func (r *PostgresOrderRepository) UpdateOrderStatus(ctx context.Context, id, from, to string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID string) ([]entity.TestRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT test_id, test_name, test_price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []entity.TestRef
	for rows.Next() {
		var t entity.TestRef
		if err := rows.Scan(&t.ID, &t.Name, &t.Price); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

type PostgresCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCatalogRepository(pool *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{pool: pool}
}

func (r *PostgresCatalogRepository) GetAllTests(ctx context.Context) ([]entity.LabTest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, price, original_price, category, parameters, report_time, fasting
		 FROM tests ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []entity.LabTest
	for rows.Next() {
		var t entity.LabTest
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.OriginalPrice,
			&t.Category, &t.Parameters, &t.ReportTime, &t.Fasting); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

func (r *PostgresCatalogRepository) GetAllPackages(ctx context.Context) ([]entity.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, price, original_price, tests_count, parameters, report_time, popular, featured
		 FROM packages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []entity.Package
	for rows.Next() {
		var p entity.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
			&p.TestsCount, &p.Parameters, &p.ReportTime, &p.Popular, &p.Featured); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, rows.Err()
}

func (r *PostgresCatalogRepository) GetTestByID(ctx context.Context, id int) (*entity.LabTest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var t entity.LabTest
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, price, original_price, category, parameters, report_time, fasting
		 FROM tests WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.OriginalPrice,
			&t.Category, &t.Parameters, &t.ReportTime, &t.Fasting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresCatalogRepository) GetTestByName(ctx context.Context, name string) (*entity.LabTest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var t entity.LabTest
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, price, original_price, category, parameters, report_time, fasting
		 FROM tests WHERE lower(name) = lower($1)`, name).
		Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.OriginalPrice,
			&t.Category, &t.Parameters, &t.ReportTime, &t.Fasting)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id`,
		user.Username, user.Email, user.Password).Scan(&user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u entity.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
