// Command enricher consumes parsed deals from the Redis streams, runs the
// Gemini title classifier over them one by one with a fixed delay, and
// republishes the enriched records to a separate stream.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"dealradar/dealworker/config"
	"dealradar/dealworker/internal/ai"
	"dealradar/dealworker/internal/parser"
	"dealradar/dealworker/logger"
)

const enrichAttempts = 3

func main() {
	godotenv.Load()
	logger.Init()
	log := logger.ForEnricher()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY is required for the enricher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	aiClient, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gemini client")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer rdb.Close()

	log.Info().
		Str("stream", cfg.RedisStream).
		Str("enrich_stream", cfg.EnrichStream).
		Msg("Starting enricher")

	if err := run(ctx, rdb, aiClient, &cfg, log); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("Enricher exited with error")
	}
}

// run tails every deal stream shard serially. The fixed inter-call delay
// is the rate limiter for the model API.
func run(ctx context.Context, rdb *redis.Client, aiClient *ai.Client, cfg *config.Config, log *logger.Logger) error {
	lastIDs := make(map[string]string, cfg.RedisStreamCount)
	streams := make([]string, 0, cfg.RedisStreamCount)
	for i := 0; i < cfg.RedisStreamCount; i++ {
		stream := cfg.RedisStream + ":" + strconv.Itoa(i)
		streams = append(streams, stream)
		lastIDs[stream] = "0"
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		for _, stream := range streams {
			entries, err := rdb.XRange(ctx, stream, incrementID(lastIDs[stream]), "+").Result()
			if err != nil {
				log.Error().Err(err).Str("stream", stream).Msg("stream read failed")
				continue
			}

			for _, entry := range entries {
				lastIDs[stream] = entry.ID
				if err := enrichEntry(ctx, rdb, aiClient, cfg, entry, log); err != nil {
					log.Error().Err(err).Str("stream", stream).Str("id", entry.ID).Msg("enrich failed")
				}

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(cfg.EnrichDelay):
				}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

// enrichEntry decodes a published deal, classifies it and appends the
// enriched record to the enrich stream.
func enrichEntry(ctx context.Context, rdb *redis.Client, aiClient *ai.Client, cfg *config.Config, entry redis.XMessage, log *logger.Logger) error {
	for key, value := range entry.Values {
		encoded, ok := value.(string)
		if !ok {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("payload decode: %w", err)
		}

		var deal parser.ParsedDeal
		if err := json.Unmarshal(data, &deal); err != nil {
			return fmt.Errorf("deal decode: %w", err)
		}

		description := ""
		if deal.Description != nil {
			description = *deal.Description
		}

		// Retry by looping; the model call is flaky under load.
		var result ai.Result
		for attempt := 1; attempt <= enrichAttempts; attempt++ {
			result, err = aiClient.ClassifyTitle(ctx, deal.Title, description)
			if err == nil {
				break
			}
			log.Warn().Err(err).Int("attempt", attempt).Str("post_id", deal.SourcePostID).Msg("classification attempt failed")
		}
		if err != nil {
			return err
		}

		if result.CleanTitle != "" {
			deal.Title = result.CleanTitle
		}
		if result.CategorySlug != "" {
			deal.CategorySlug = result.CategorySlug
		}

		enriched, err := json.Marshal(&deal)
		if err != nil {
			return fmt.Errorf("deal encode: %w", err)
		}

		return rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: cfg.EnrichStream,
			Values: map[string]interface{}{
				key: base64.StdEncoding.EncodeToString(enriched),
			},
		}).Err()
	}

	return nil
}

// incrementID returns the exclusive-start ID following a stream entry ID.
func incrementID(id string) string {
	if id == "0" {
		return "-"
	}
	return "(" + id
}
