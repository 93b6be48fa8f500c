package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/tidegauge/internal/cache"
	"github.com/bbernstein/tidegauge/internal/config"
	"github.com/bbernstein/tidegauge/internal/handler"
	"github.com/bbernstein/tidegauge/internal/station"
	"github.com/bbernstein/tidegauge/internal/tide"
	"github.com/rs/zerolog/log"
)

var (
	analysisHandler *handler.AnalysisHandler
	tableCache      *cache.TableCache
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Int("workers", cfg.Workers).Msg("Environment")
		log.Debug().Msg("Debug logs enabled")

		var serviceCache tide.TableCache
		cacheConfig := config.GetCacheConfig()
		if cacheConfig.EnableTableCache {
			c, err := cache.NewTableCache(cacheConfig)
			if err != nil {
				log.Error().Err(err).Msg("Table cache disabled")
			} else {
				tableCache = c
				serviceCache = c
			}
		}

		factory := &station.DefaultFactory{Pattern: cfg.FilePattern}
		h, err := handler.NewAnalysisHandler(tide.NewService(cfg, factory, serviceCache))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create analysis handler")
		}
		analysisHandler = h
	})
}

func handleRequest(ctx context.Context, event handler.AnalysisEvent) (interface{}, error) {
	log.Info().Str("source", event.Source).Msg("Handling batch analysis")
	resp, err := analysisHandler.HandleRequest(ctx, event)
	logCacheStats()
	return resp, err
}

func logCacheStats() {
	if tableCache == nil {
		return
	}
	stats := tableCache.GetCacheStats()
	log.Info().
		Uint64("table_hits", stats["table_hits"]).
		Uint64("table_misses", stats["table_misses"]).
		Uint64("table_entries", stats["table_entries"]).
		Msg("Table cache stats")
}

func main() {
	lambda.Start(handleRequest)
}
