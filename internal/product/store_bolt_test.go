package product

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func newBoltStore(t *testing.T) *BoltStore {
	t.Helper()

	s, err := OpenBoltStore(filepath.Join(t.TempDir(), "data", "products.db"))
	if err != nil {
		t.Fatalf("OpenBoltStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStore_EmptyOnOpen(t *testing.T) {
	s := newBoltStore(t)

	got, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got=%#v", got)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestBoltStore_RoundTripKeepsOrder(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()

	want := make([]Product, 0, 300)
	for i := 300; i > 0; i-- {
		want = append(want, Product{ID: int64(i), Name: "p", Image: "uploads/x.png"})
	}

	if err := s.WriteAll(ctx, want); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order or content differs: got %d items", len(got))
	}
}

func TestBoltStore_WriteAllReplaces(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()

	if err := s.WriteAll(ctx, []Product{{ID: 1}, {ID: 2}, {ID: 3}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := s.WriteAll(ctx, []Product{{ID: 9}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("got=%#v", got)
	}
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.db")
	ctx := context.Background()

	s, err := OpenBoltStore(path)
	if err != nil {
		t.Fatalf("OpenBoltStore: %v", err)
	}
	if err := s.WriteAll(ctx, []Product{{ID: 5, Name: "kept"}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenBoltStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 1 || got[0].Name != "kept" {
		t.Fatalf("got=%#v", got)
	}
}
