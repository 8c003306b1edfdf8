package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/address"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/config"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/handler"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/refdata"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/repository"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/resolver"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/service"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	centroids := loadCentroids(cfg)

	// Road and coverage layers are optional for the API; without them the
	// corresponding enrichment fields simply report nothing.
	var roads []refdata.RoadSegment
	if cfg.RoadsPath != "" {
		roads, err = refdata.LoadRoads(cfg.RoadsPath)
		if err != nil {
			log.Warn().Err(err).Msg("road layer unavailable")
		}
	}
	var areas []refdata.CoverageArea
	if cfg.CoveragePath != "" {
		areas, err = refdata.LoadCoverage(cfg.CoveragePath)
		if err != nil {
			log.Warn().Err(err).Msg("coverage layer unavailable")
		}
	}

	proximity, err := resolver.New(resolver.Config{
		RoadDistance:     cfg.RoadDistanceMeters,
		PostcodeDistance: cfg.PostcodeDistanceMeters,
	}, roads, centroids, areas)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build spatial indices")
	}

	addressService := service.NewAddressService(address.NewResolver(centroids))
	enrichService := service.NewEnrichService(proximity)

	addressHandler := handler.NewAddressHandler(addressService)
	enrichHandler := handler.NewEnrichHandler(enrichService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/geocode-address", addressHandler.Geocode)
	r.GET("/enrich-point", enrichHandler.EnrichPoint)

	r.Run(cfg.ServerAddress)
}

// loadCentroids reads the postcode layer from the database when configured,
// otherwise from the Code-Point file. The API cannot serve without it.
func loadCentroids(cfg config.Config) []refdata.PostcodeCentroid {
	var centroids []refdata.PostcodeCentroid

	if cfg.DBSource != "" {
		conn, err := pgxpool.New(context.Background(), cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewRepository(conn)
		err = refdata.Retry(3, 2*time.Second, func() error {
			centroids, err = repo.PostcodeCentroids(context.Background())
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load postcode layer from db")
		}
		return centroids
	}

	if cfg.CodePointPath == "" {
		log.Fatal().Msg("no postcode source configured: set DB_SOURCE or CODEPOINT_PATH")
	}
	centroids, err := refdata.LoadCodePoint(cfg.CodePointPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load postcode layer from file")
	}
	return centroids
}
