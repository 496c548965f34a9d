package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		appointment_date TEXT NOT NULL DEFAULT '',
		appointment_time TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		test_id INT NOT NULL DEFAULT 0,
		test_name TEXT NOT NULL,
		test_price DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS tests (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		parameters INT NOT NULL DEFAULT 0,
		report_time TEXT NOT NULL DEFAULT '',
		fasting BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS packages (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL,
		original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		tests_count INT NOT NULL DEFAULT 0,
		parameters INT NOT NULL DEFAULT 0,
		report_time TEXT NOT NULL DEFAULT '',
		popular BOOLEAN NOT NULL DEFAULT false,
		featured BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
}

// AutoMigrate creates the schema if it does not exist, retrying each
// statement a few times to ride out a database that is still coming up.
func AutoMigrate(ctx context.Context, pool *pgxpool.Pool, retries int) error {
	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = pool.Exec(ctx, stmt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
