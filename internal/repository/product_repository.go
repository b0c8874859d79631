package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// ProductRepository encapsulates product persistence. Create and Update resolve the
// category by name in the same transaction, creating it on first use.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product, category string) error
	Update(ctx context.Context, product *domain.Product, category string) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository instantiates repository.
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
        p.id, p.title, p.price, p.description, p.image, p.rating, p.count, p.created_at, p.updated_at,
        c.id, c.name`

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p JOIN categories c ON c.id = p.category_id
        ORDER BY p.created_at`
	return r.fetchMany(ctx, query)
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p JOIN categories c ON c.id = p.category_id
        WHERE p.id = ANY($1)`
	return r.fetchMany(ctx, query, ids)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
        FROM products p JOIN categories c ON c.id = p.category_id
        WHERE p.id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product, category string) error {
	const query = `
        INSERT INTO products (id, title, price, description, image, category_id, rating, count)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		cat, err := upsertCategory(ctx, tx, category)
		if err != nil {
			return err
		}
		product.CategoryID = cat.ID
		product.Category = cat
		return tx.QueryRow(ctx, query,
			product.ID,
			product.Title,
			product.Price,
			product.Description,
			product.Image,
			product.CategoryID,
			product.Rating,
			product.Count,
		).Scan(&product.CreatedAt, &product.UpdatedAt)
	})
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product, category string) error {
	const query = `
        UPDATE products SET title=$1, price=$2, description=$3, image=$4, category_id=$5,
            rating=$6, count=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING created_at, updated_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		cat, err := upsertCategory(ctx, tx, category)
		if err != nil {
			return err
		}
		product.CategoryID = cat.ID
		product.Category = cat
		return tx.QueryRow(ctx, query,
			product.Title,
			product.Price,
			product.Description,
			product.Image,
			product.CategoryID,
			product.Rating,
			product.Count,
			product.ID,
		).Scan(&product.CreatedAt, &product.UpdatedAt)
	})
}

func (r *productRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p   domain.Product
		cat domain.Category
	)
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&p.Description,
		&p.Image,
		&p.Rating,
		&p.Count,
		&p.CreatedAt,
		&p.UpdatedAt,
		&cat.ID,
		&cat.Name,
	); err != nil {
		return nil, err
	}
	p.CategoryID = cat.ID
	p.Category = &cat
	return &p, nil
}
