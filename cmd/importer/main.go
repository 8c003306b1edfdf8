package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/config"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
)

func main() {
	file := flag.String("file", "", "Path to the Code-Point CSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	centroids, err := refdata.LoadCodePoint(*file)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d centroids\n", len(centroids))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	// Ensure table exists
	err = createTableIfNotExists(conn)
	if err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	// Insert centroids
	err = insertCentroids(conn, centroids)
	if err != nil {
		fmt.Printf("Error inserting centroids: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	err = verifyImport(conn, len(centroids))
	if err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d centroids\n", len(centroids))
}

func createTableIfNotExists(conn *pgx.Conn) error {
	query := `
	CREATE TABLE IF NOT EXISTS postcodes (
		postcode VARCHAR(8) PRIMARY KEY,
		easting DOUBLE PRECISION NOT NULL,
		northing DOUBLE PRECISION NOT NULL
	);
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func insertCentroids(conn *pgx.Conn, centroids []refdata.PostcodeCentroid) error {
	// Replace the previous import wholesale so re-runs stay consistent
	_, err := conn.Exec(context.Background(), "TRUNCATE postcodes")
	if err != nil {
		return fmt.Errorf("failed to truncate postcodes: %w", err)
	}

	// Use CopyFrom for bulk insert
	_, err = conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"postcodes"},
		[]string{"postcode", "easting", "northing"},
		pgx.CopyFromSlice(len(centroids), func(i int) ([]interface{}, error) {
			c := centroids[i]
			return []interface{}{c.Postcode, c.Easting, c.Northing}, nil
		}),
	)
	return err
}

func verifyImport(conn *pgx.Conn, expectedCount int) error {
	var count int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM postcodes").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count centroids: %w", err)
	}

	if count != expectedCount {
		return fmt.Errorf("centroid count mismatch: expected %d, got %d", expectedCount, count)
	}

	// Check a sample row
	var postcode string
	var easting, northing float64
	err = conn.QueryRow(context.Background(), "SELECT postcode, easting, northing FROM postcodes LIMIT 1").
		Scan(&postcode, &easting, &northing)
	if err != nil {
		return fmt.Errorf("failed to check sample row: %w", err)
	}

	fmt.Printf("Sample centroid: %s (%.0f, %.0f)\n", postcode, easting, northing)
	return nil
}
