package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bartoszk747-code/trend/internal/models"
)

// Archive persists scraped listings to PostgreSQL and answers the
// historical-average lookup used by the trend analytics engine. It is an
// optional collaborator: the core pipeline works without it.
type Archive struct {
	Pool *pgxpool.Pool
}

// New creates an archive backed by a pgx connection pool.
func New(ctx context.Context, databaseURL string) (*Archive, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Write volume is modest (a batch per rule evaluation).
	config.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Archive{Pool: pool}, nil
}

// Close closes the connection pool.
func (a *Archive) Close() {
	a.Pool.Close()
}

// Migrate creates the listings table if it does not exist.
func (a *Archive) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS listings (
			id BIGSERIAL PRIMARY KEY,
			site TEXT NOT NULL,
			listing_id TEXT,
			title TEXT NOT NULL,
			price DOUBLE PRECISION,
			currency TEXT,
			url TEXT,
			brand TEXT,
			size TEXT,
			condition TEXT,
			image_url TEXT,
			created_at TIMESTAMPTZ,
			scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,

		`CREATE INDEX IF NOT EXISTS idx_listings_title ON listings (title);`,
		`CREATE INDEX IF NOT EXISTS idx_listings_site_scraped ON listings (site, scraped_at DESC);`,
	}

	for _, migration := range migrations {
		if _, err := a.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Record appends a batch of scraped listings to the archive.
func (a *Archive) Record(ctx context.Context, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range listings {
		batch.Queue(`
			INSERT INTO listings (site, listing_id, title, price, currency, url, brand, size, condition, image_url, created_at, scraped_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, l.Site, l.ListingID, l.Title, l.Price, l.Currency, l.URL, l.Brand, l.Size, l.Condition, l.ImageURL, l.CreatedAt, l.ScrapedAt)
	}

	results := a.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range listings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to record listing: %w", err)
		}
	}
	return nil
}

// AveragePriceForQuery returns the mean archived price for listings whose
// title contains the query, or nil when nothing matches.
func (a *Archive) AveragePriceForQuery(ctx context.Context, query string) (*float64, error) {
	var avg *float64
	err := a.Pool.QueryRow(ctx, `
		SELECT AVG(price) AS avg_price
		FROM listings
		WHERE title ILIKE $1
	`, "%"+query+"%").Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average price lookup: %w", err)
	}
	return avg, nil
}
