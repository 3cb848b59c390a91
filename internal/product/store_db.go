package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgUndefinedTable = "42P01"

const schema = `
	CREATE TABLE IF NOT EXISTS products (
		position    INTEGER PRIMARY KEY,
		id          BIGINT  NOT NULL,
		name        TEXT    NOT NULL DEFAULT '',
		category    TEXT    NOT NULL DEFAULT '',
		description TEXT    NOT NULL DEFAULT '',
		image       TEXT    NOT NULL DEFAULT ''
	)
`

type PostgresStore struct {
	db *sql.DB
}

// OpenPostgresStore connects through the pgx stdlib driver and creates the
// products table when it is missing.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	s := &PostgresStore{db: db}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, schema)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrStorageWrite, err)
	}

	return s, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	err := withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, 16)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, category, description, image
			FROM products
			ORDER BY position ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Image); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("%w: products table missing: %v", ErrStorageRead, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return out, nil
}

func (s *PostgresStore) WriteAll(ctx context.Context, products []Product) error {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (position, id, name, category, description, image)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, p := range products {
			if _, err := stmt.ExecContext(ctx, i, p.ID, p.Name, p.Category, p.Description, p.Image); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
