// Package repotest provides in-memory repository implementations for tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/repository"
)

// Store is an in-memory stand-in for the Postgres schema. Its repositories follow the
// same error contract: pgx.ErrNoRows for missing rows and repository.ErrDuplicate for
// unique violations.
type Store struct {
	mu         sync.Mutex
	users      map[string]domain.User
	products   map[string]domain.Product
	categories map[string]domain.Category
	orders     []domain.Order

	err error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:      map[string]domain.User{},
		products:   map[string]domain.Product{},
		categories: map[string]domain.Category{},
	}
}

func (s *Store) Users() repository.UserRepository          { return userRepo{s} }
func (s *Store) Products() repository.ProductRepository    { return productRepo{s} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }
func (s *Store) Orders() repository.OrderRepository        { return orderRepo{s} }

// SetErr makes every subsequent call fail with err, or succeed again when err is nil.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// DeleteUser removes a user, as an administrator would directly in the database.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// SetAdmin changes a user's privilege flag.
func (s *Store) SetAdmin(id string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.IsAdmin = admin
		s.users[id] = u
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) upsertCategory(name string) domain.Category {
	if c, ok := s.categories[name]; ok {
		return c
	}
	c := domain.Category{ID: uuid.NewString(), Name: name}
	s.categories[name] = c
	return c
}

type productRepo struct{ s *Store }

func (r productRepo) List(_ context.Context) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r productRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r productRepo) Create(_ context.Context, product *domain.Product, category string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	c := r.s.upsertCategory(category)
	product.CategoryID, product.Category = c.ID, &c
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	r.s.products[product.ID] = *product
	return nil
}

func (r productRepo) Update(_ context.Context, product *domain.Product, category string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	existing, ok := r.s.products[product.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	c := r.s.upsertCategory(category)
	product.CategoryID, product.Category = c.ID, &c
	product.CreatedAt, product.UpdatedAt = existing.CreatedAt, time.Now()
	r.s.products[product.ID] = *product
	return nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	order.CreatedAt = time.Now()
	r.s.orders = append(r.s.orders, *order)
	return nil
}

func (r orderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]domain.Order, 0)
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		if r.s.orders[i].UserID == userID {
			out = append(out, r.s.orders[i])
		}
	}
	return out, nil
}
