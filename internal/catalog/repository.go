package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/velostore/storefront/internal/domain"
)

var ErrVariantNotFound = errors.New("variant not found")

// Repository reads product variants and their related product, brand,
// category and inventory records from the catalog database.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Variant returns the fully resolved projection for one variant ID,
// joining product, brand and category and summing inventory levels.
func (r *Repository) Variant(ctx context.Context, variantID string) (*domain.ResolvedVariant, error) {
	query := `
		SELECT v.id, p.name, b.name, c.name, v.price
		FROM variants v
		JOIN products p ON p.id = v.product_id
		JOIN brands b ON b.id = p.brand_id
		JOIN categories c ON c.id = p.category_id
		WHERE v.id = $1
	`

	rv := &domain.ResolvedVariant{}
	err := r.db.QueryRowContext(ctx, query, variantID).Scan(
		&rv.VariantID,
		&rv.ProductName,
		&rv.BrandName,
		&rv.CategoryName,
		&rv.Price,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}

	levels, err := r.inventoryLevels(ctx, variantID)
	if err != nil {
		return nil, err
	}
	rv.TotalStock = domain.AvailableStock(levels)

	return rv, nil
}

func (r *Repository) inventoryLevels(ctx context.Context, variantID string) ([]domain.InventoryLevel, error) {
	query := `
		SELECT variant_id, location, stock, reserved
		FROM inventory_levels
		WHERE variant_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.InventoryLevel
	for rows.Next() {
		var l domain.InventoryLevel
		if err := rows.Scan(&l.VariantID, &l.Location, &l.Stock, &l.Reserved); err != nil {
			return nil, fmt.Errorf("failed to scan inventory level: %w", err)
		}
		levels = append(levels, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return levels, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
