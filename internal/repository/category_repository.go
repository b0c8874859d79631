package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// CategoryRepository encapsulates category persistence.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// upsertCategory returns the category called name, creating it if needed.
func upsertCategory(ctx context.Context, db DBTX, name string) (*domain.Category, error) {
	const query = `
        INSERT INTO categories (id, name) VALUES ($1, $2)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, name`

	var c domain.Category
	if err := db.QueryRow(ctx, query, uuid.NewString(), name).Scan(&c.ID, &c.Name); err != nil {
		return nil, err
	}
	return &c, nil
}
