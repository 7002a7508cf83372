package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-admin/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter narrows a product listing. A nil CategoryID matches every product.
type ProductFilter struct {
	CategoryID *int64
}

// ProductRepository defines the interface for product data access.
// Every product it returns carries its category.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, changes domain.ProductChanges) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	List(ctx context.Context, filter ProductFilter, offset, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const selectProductWithCategory = `
	SELECT p.id, p.name, p.description, p.image, p.created_at, p.category_id, c.id, c.name
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{Category: &domain.Category{}}
	var image sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&image,
		&product.CreatedAt,
		&product.CategoryID,
		&product.Category.ID,
		&product.Category.Name,
	)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		product.Image = &image.String
	}

	return product, nil
}

// Create inserts a new product and returns it joined with its category
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, image, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Image,
		product.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return r.FindByID(ctx, id)
}

// Update replaces name, description and category. The image column is only
// overwritten when changes carries a new path.
func (r *productRepository) Update(ctx context.Context, id int64, changes domain.ProductChanges) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, image = COALESCE($5, image)
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		changes.Name,
		changes.Description,
		changes.CategoryID,
		changes.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a product. Deleting a missing id is not an error.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// FindByID retrieves a product with its category
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := selectProductWithCategory + `WHERE p.id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

func (f ProductFilter) where() (string, []interface{}) {
	if f.CategoryID == nil {
		return "", nil
	}
	return "WHERE p.category_id = $1", []interface{}{*f.CategoryID}
}

// Count returns the number of products matching filter
func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int, error) {
	whereClause, args := filter.where()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// List retrieves one window of matching products ordered by id descending
func (r *productRepository) List(ctx context.Context, filter ProductFilter, offset, limit int) ([]*domain.Product, error) {
	whereClause, args := filter.where()
	argIndex := len(args) + 1

	query := fmt.Sprintf(`%s
		%s
		ORDER BY p.id DESC
		LIMIT $%d OFFSET $%d
	`, selectProductWithCategory, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
