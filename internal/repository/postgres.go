package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
)

// Repository reads reference data from PostgreSQL, for deployments that keep
// the Code-Point table in a database instead of flat files. The engine only
// ever reads; the importer owns writes.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// PostcodeCentroids loads the full postcode centroid layer.
func (r *Repository) PostcodeCentroids(ctx context.Context) ([]refdata.PostcodeCentroid, error) {
	sql := `
		SELECT postcode, easting, northing
		FROM postcodes
		ORDER BY postcode
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query postcodes: %w", err)
	}
	defer rows.Close()

	var centroids []refdata.PostcodeCentroid
	for rows.Next() {
		var c refdata.PostcodeCentroid
		if err := rows.Scan(&c.Postcode, &c.Easting, &c.Northing); err != nil {
			return nil, fmt.Errorf("repository: failed to scan postcode: %w", err)
		}
		centroids = append(centroids, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return centroids, nil
}
