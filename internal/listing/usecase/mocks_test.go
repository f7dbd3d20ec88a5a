package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

// memRepo is an in-memory ListingRepository that counts store calls.
type memRepo struct {
	mu        sync.Mutex
	seq       int
	rows      map[domain.Category][]*domain.Listing
	calls     int
	searchErr map[domain.Category]error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[domain.Category][]*domain.Listing{}, searchErr: map[domain.Category]error{}}
}

func (r *memRepo) Create(_ context.Context, l *domain.Listing) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.seq++
	cp := *l
	cp.ID = fmt.Sprintf("id-%d", r.seq)
	r.rows[l.Category] = append(r.rows[l.Category], &cp)
	return cp.ID, nil
}

func (r *memRepo) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for i, row := range r.rows[l.Category] {
		if row.ID == l.ID {
			cp := *l
			r.rows[l.Category][i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, c domain.Category, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	rows := r.rows[c][:0]
	for _, row := range r.rows[c] {
		if row.ID != id {
			rows = append(rows, row)
		}
	}
	r.rows[c] = rows
	return nil
}

func (r *memRepo) FindByID(_ context.Context, c domain.Category, id string) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, row := range r.rows[c] {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) FindAll(_ context.Context, c domain.Category) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return append([]*domain.Listing{}, r.rows[c]...), nil
}

func (r *memRepo) Search(_ context.Context, c domain.Category, term string, fields []string) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if err := r.searchErr[c]; err != nil {
		return nil, err
	}
	var out []*domain.Listing
	for _, row := range r.rows[c] {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(row.Text(f)), strings.ToLower(term)) {
				out = append(out, row)
				break
			}
		}
	}
	return out, nil
}

func (r *memRepo) storeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, u Upload) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) GetListing(ctx context.Context, c domain.Category, id string) (*domain.Listing, error) {
	args := m.Called(ctx, c, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockCache) SetListing(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockCache) DeleteListing(ctx context.Context, c domain.Category, id string) error {
	args := m.Called(ctx, c, id)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyListingCreated(ctx context.Context, l *domain.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
