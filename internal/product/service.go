package product

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"go.uber.org/zap"
)

type NewProduct struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Service runs each write as a full read-modify-write cycle against Store.
// mu serializes those cycles within one process; separate processes sharing
// a store still race.
type Service struct {
	Store       Store
	Uploads     *Uploader
	Placeholder string
	Log         *zap.Logger
	Metrics     *Metrics

	mu  sync.Mutex
	ids idClock
}

// NewService wires metrics, when given, into the service and its uploader.
func NewService(store Store, uploads *Uploader, placeholder string, log *zap.Logger, metrics *Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics != nil && uploads != nil && uploads.OnWritten == nil {
		uploads.OnWritten = func(n int64) { metrics.UploadBytes.Add(float64(n)) }
	}
	return &Service{
		Store:       store,
		Uploads:     uploads,
		Placeholder: placeholder,
		Log:         log,
		Metrics:     metrics,
		ids:         idClock{now: time.Now},
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.Store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Create stores the attached image first, then appends the product. A
// failed append leaves the image on disk.
func (s *Service) Create(ctx context.Context, in NewProduct, form *multipart.Form) (Product, error) {
	var image string
	if s.Uploads != nil {
		var err error
		if image, err = s.Uploads.Save(form); err != nil {
			return Product{}, err
		}
	}
	if image == "" {
		image = s.Placeholder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.Store.ReadAll(ctx)
	if err != nil {
		return Product{}, err
	}

	p := Product{
		ID:          s.ids.next(maxID(products)),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Image:       image,
	}

	if err := s.Store.WriteAll(ctx, append(products, p)); err != nil {
		return Product{}, err
	}

	if s.Metrics != nil {
		s.Metrics.Created.Inc()
	}
	s.Log.Info("product created", zap.Int64("id", p.ID), zap.String("image", p.Image))
	return p, nil
}

// Delete drops every product whose id matches rawID and rewrites the
// collection even when nothing matched. rawID is read like an integer prefix
// ("42abc" is 42); without leading digits it matches nothing. Image files are
// left on disk.
func (s *Service) Delete(ctx context.Context, rawID string) (int, error) {
	id, ok := parseIDPrefix(rawID)

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.Store.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if !ok || p.ID != id {
			kept = append(kept, p)
		}
	}

	if err := s.Store.WriteAll(ctx, kept); err != nil {
		return 0, err
	}

	removed := len(products) - len(kept)
	if s.Metrics != nil {
		s.Metrics.Deleted.Add(float64(removed))
	}
	s.Log.Info("products deleted", zap.String("id", rawID), zap.Int("removed", removed))
	return removed, nil
}

func maxID(products []Product) int64 {
	var m int64
	for _, p := range products {
		if p.ID > m {
			m = p.ID
		}
	}
	return m
}

// idClock hands out millisecond timestamps that never repeat or go backwards.
// Callers hold Service.mu.
type idClock struct {
	last int64
	now  func() time.Time
}

// next returns the current millisecond, bumped past both the last issued id
// and floor.
func (c *idClock) next(floor int64) int64 {
	now := time.Now
	if c.now != nil {
		now = c.now
	}

	id := now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	if id <= floor {
		id = floor + 1
	}
	c.last = id
	return id
}
