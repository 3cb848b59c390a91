package product

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var productsBucket = []byte("products")

// BoltStore keeps one product per key. Keys are big-endian positions so a
// cursor walk returns insertion order.
type BoltStore struct {
	db *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrStorageWrite, err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: pingTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorageRead, path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(productsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: init bucket: %v", ErrStorageWrite, err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) ReadAll(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	out := make([]Product, 0, 16)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(productsBucket)
		if b == nil {
			return errors.New("bucket missing")
		}
		return b.ForEach(func(k, v []byte) error {
			var p Product
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("decode key %x: %w", k, err)
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return out, nil
}

func (s *BoltStore) WriteAll(ctx context.Context, products []Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(productsBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(productsBucket)
		if err != nil {
			return err
		}

		for i, p := range products {
			v, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := b.Put(positionKey(uint64(i)), v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func (s *BoltStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.View(func(tx *bolt.Tx) error {
			if tx.Bucket(productsBucket) == nil {
				return fmt.Errorf("%w: bucket missing", ErrStorageRead)
			}
			return ctx.Err()
		})
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func positionKey(i uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, i)
	return k
}
