package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const insertOrder = `
        INSERT INTO orders (id, user_id, price) VALUES ($1, $2, $3)
        RETURNING created_at`
	const linkProduct = `
        INSERT INTO order_products (order_id, product_id) VALUES ($1, $2)
        ON CONFLICT DO NOTHING`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertOrder, order.ID, order.UserID, order.Price).Scan(&order.CreatedAt); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for _, p := range order.Products {
			batch.Queue(linkProduct, order.ID, p.ID)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const ordersQuery = `
        SELECT id, user_id, price, created_at FROM orders
        WHERE user_id=$1 ORDER BY created_at DESC`
	const productsQuery = `
        SELECT op.order_id,` + productColumns + `
        FROM order_products op
        JOIN products p ON p.id = op.product_id
        JOIN categories c ON c.id = p.category_id
        WHERE op.order_id = ANY($1)
        ORDER BY p.title`

	rows, err := r.db.Query(ctx, ordersQuery, userID)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0)
	index := map[string]int{}
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Price, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		o.Products = make([]domain.Product, 0)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	productRows, err := r.db.Query(ctx, productsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer productRows.Close()

	for productRows.Next() {
		var (
			orderID string
			p       domain.Product
			cat     domain.Category
		)
		if err := productRows.Scan(
			&orderID,
			&p.ID, &p.Title, &p.Price, &p.Description, &p.Image, &p.Rating, &p.Count, &p.CreatedAt, &p.UpdatedAt,
			&cat.ID, &cat.Name,
		); err != nil {
			return nil, err
		}
		p.CategoryID = cat.ID
		p.Category = &cat
		i := index[orderID]
		orders[i].Products = append(orders[i].Products, p)
	}
	return orders, productRows.Err()
}
