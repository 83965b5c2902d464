package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"freshmind/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access. The
// catalog is read-only at runtime; rows are loaded once into the in-memory
// catalog snapshot at boot.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	product_id, name, COALESCE(description, ''), COALESCE(category, ''),
	COALESCE(sub_category, ''), price, original_price, COALESCE(image_url, ''),
	rating, review_count, COALESCE(target_gender, 'all'),
	COALESCE(target_age_groups, '[]'), COALESCE(used_in, '[]'),
	COALESCE(tags, '[]'), stock, COALESCE(badge, '')
`

// List retrieves the full catalog in catalog order (ascending product ID).
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		ORDER BY product_id ASC
	`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE product_id = $1
	`, productColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct reads one product row, decoding the JSON-encoded array columns
// (target_age_groups, used_in, tags) the schema stores as text.
func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product       domain.Product
		originalPrice sql.NullInt64
		targetAge     string
		usedIn        string
		tags          string
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.SubCategory,
		&product.Price,
		&originalPrice,
		&product.ImageURL,
		&product.Rating,
		&product.Reviews,
		&product.TargetGender,
		&targetAge,
		&usedIn,
		&tags,
		&product.Stock,
		&product.Badge,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if originalPrice.Valid {
		v := int(originalPrice.Int64)
		product.OriginalPrice = &v
	}

	if err := json.Unmarshal([]byte(targetAge), &product.TargetAge); err != nil {
		return nil, fmt.Errorf("failed to decode target_age_groups for product %d: %w", product.ID, err)
	}
	if err := json.Unmarshal([]byte(usedIn), &product.UsedIn); err != nil {
		return nil, fmt.Errorf("failed to decode used_in for product %d: %w", product.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for product %d: %w", product.ID, err)
	}

	return &product, nil
}
