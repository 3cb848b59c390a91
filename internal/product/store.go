package product

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
	ErrUpload       = errors.New("upload failed")
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Store persists the whole collection at once. ReadAll returns products in
// insertion order; WriteAll replaces everything that was there before.
type Store interface {
	ReadAll(ctx context.Context) ([]Product, error)
	WriteAll(ctx context.Context, products []Product) error
	Ping(ctx context.Context) error
	Close() error
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
