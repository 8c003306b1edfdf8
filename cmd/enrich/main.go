package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/address"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/config"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/enrich"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/export"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/external"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/ingest"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/repository"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/resolver"
)

func main() {
	accessPoints := flag.String("access-points", "", "Path to the access point CSV")
	rendezvous := flag.String("rendezvous", "", "Path to the rendezvous point CSV")
	team := flag.String("team", "", "Path to the team member address CSV")
	outDir := flag.String("out", ".", "Directory to write enriched outputs to")
	configDir := flag.String("config", "./configs", "Directory holding app.env")
	flag.Parse()

	if *accessPoints == "" && *rendezvous == "" && *team == "" {
		log.Fatal().Msg("nothing to do: pass --access-points, --rendezvous or --team")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	centroids := loadCentroids(cfg)
	proximity := buildResolver(cfg, centroids)

	var words enrich.WordsClient
	if cfg.What3WordsAPIKey != "" {
		words = external.NewWhat3WordsClient(cfg.What3WordsAPIKey, cfg.What3WordsRPS)
	} else {
		log.Warn().Msg("no what3words api key configured, field will be empty")
	}

	orchestrator := enrich.New(proximity, words, external.GoogleMapsURL, cfg.EnrichWorkers, log.Logger)

	ctx := context.Background()
	if *accessPoints != "" {
		runBatch(ctx, orchestrator, *accessPoints, *outDir, "access_points", models.KindAccessPoint, cfg.APGPXSymbol)
	}
	if *rendezvous != "" {
		runBatch(ctx, orchestrator, *rendezvous, *outDir, "rendezvous", models.KindRendezvous, cfg.RVGPXSymbol)
	}
	if *team != "" {
		geolocateTeam(*team, *outDir, centroids)
	}
}

// runBatch enriches one input sheet and writes its CSV and GPX outputs.
func runBatch(ctx context.Context, o *enrich.Orchestrator, inPath, outDir, name string, kind models.Kind, symbol string) {
	in, err := os.Open(inPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", inPath).Msg("cannot open input sheet")
	}
	defer in.Close()

	records, err := ingest.ReadLocationRecords(in, kind)
	if err != nil {
		log.Fatal().Err(err).Str("file", inPath).Msg("cannot parse input sheet")
	}

	enriched, summary := o.Run(ctx, records)
	for _, warning := range summary.Warnings {
		log.Warn().Str("batch", name).Msg(warning)
	}
	log.Info().
		Str("batch", name).
		Int("processed", summary.Processed).
		Int("finalized", summary.Finalized).
		Int("failed", summary.Failed).
		Int("unmatched_road", summary.UnmatchedRoad).
		Int("unmatched_postcode", summary.UnmatchedPostcode).
		Int("unmatched_coverage", summary.UnmatchedCoverage).
		Msg("batch complete")

	writeOutput(filepath.Join(outDir, name+".csv"), func(f *os.File) error {
		return export.WriteCSV(f, enriched)
	})
	writeOutput(filepath.Join(outDir, name+".gpx"), func(f *os.File) error {
		return export.WriteGPX(f, enriched, symbol)
	})
}

// geolocateTeam resolves team-member addresses to approximate coordinates and
// writes the augmented sheet.
func geolocateTeam(inPath, outDir string, centroids []refdata.PostcodeCentroid) {
	in, err := os.Open(inPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", inPath).Msg("cannot open team sheet")
	}
	defer in.Close()

	records, err := ingest.ReadAddressRecords(in)
	if err != nil {
		log.Fatal().Err(err).Str("file", inPath).Msg("cannot parse team sheet")
	}

	located := address.NewResolver(centroids).GeolocateAll(records)
	resolved := 0
	for _, rec := range located {
		if rec.Location.Resolved {
			resolved++
		} else {
			log.Warn().Str("name", rec.Source.Name).Msg("address not resolved")
		}
	}
	log.Info().Int("records", len(located)).Int("resolved", resolved).Msg("team geolocation complete")

	writeOutput(filepath.Join(outDir, "team.csv"), func(f *os.File) error {
		return export.WriteAddressCSV(f, located)
	})
}

func writeOutput(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("cannot create output file")
	}
	defer f.Close()
	if err := write(f); err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("cannot write output file")
	}
	log.Info().Str("file", path).Msg("wrote output")
}

// loadCentroids reads the postcode layer from the database when configured,
// otherwise from the Code-Point file. A missing layer degrades the run:
// postcode and coverage fields report unmatched, addresses stay unresolved.
func loadCentroids(cfg config.Config) []refdata.PostcodeCentroid {
	var centroids []refdata.PostcodeCentroid
	var err error

	switch {
	case cfg.DBSource != "":
		err = refdata.Retry(3, 2*time.Second, func() error {
			conn, connErr := pgxpool.New(context.Background(), cfg.DBSource)
			if connErr != nil {
				return connErr
			}
			defer conn.Close()
			centroids, connErr = repository.NewRepository(conn).PostcodeCentroids(context.Background())
			return connErr
		})
	case cfg.CodePointPath != "":
		err = refdata.Retry(3, 2*time.Second, func() error {
			centroids, err = refdata.LoadCodePoint(cfg.CodePointPath)
			return err
		})
	default:
		log.Warn().Msg("no postcode source configured, postcode and coverage fields will be unmatched")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("postcode layer unavailable, continuing without it")
		return nil
	}
	return centroids
}

func buildResolver(cfg config.Config, centroids []refdata.PostcodeCentroid) *resolver.Resolver {
	var roads []refdata.RoadSegment
	if cfg.RoadsPath != "" {
		var err error
		err = refdata.Retry(3, 2*time.Second, func() error {
			roads, err = refdata.LoadRoads(cfg.RoadsPath)
			return err
		})
		if err != nil {
			log.Warn().Err(err).Msg("road layer unavailable, continuing without it")
		}
	}

	var areas []refdata.CoverageArea
	if cfg.CoveragePath != "" {
		var err error
		err = refdata.Retry(3, 2*time.Second, func() error {
			areas, err = refdata.LoadCoverage(cfg.CoveragePath)
			return err
		})
		if err != nil {
			log.Warn().Err(err).Msg("coverage layer unavailable, continuing without it")
		}
	}

	proximity, err := resolver.New(resolver.Config{
		RoadDistance:     cfg.RoadDistanceMeters,
		PostcodeDistance: cfg.PostcodeDistanceMeters,
	}, roads, centroids, areas)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build spatial indices")
	}
	return proximity
}
