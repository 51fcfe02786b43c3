package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"dealradar/dealworker/internal/batch"
	"dealradar/dealworker/internal/feed"
	"dealradar/dealworker/logger"
	"dealradar/dealworker/pkg/errors"
	"dealradar/dealworker/services/cache"
	"dealradar/dealworker/services/publisher"
)

// Cache key prefixes: seen-post dedup and per-subreddit rate limit blocks.
const (
	seenKeyPrefix      = "seen:"
	rateLimitKeyPrefix = "rate_limited:"
)

// FeedClient is the upstream collaborator supplying raw posts and, on
// demand, their comments.
type FeedClient interface {
	FetchPosts(ctx context.Context, subreddit string, limit int) ([]feed.RawPost, error)
	FetchComments(ctx context.Context, permalink string) ([]string, error)
}

// Worker drives the fetch-parse-publish cycle
type Worker struct {
	feed       FeedClient
	driver     *batch.Driver
	publisher  publisher.Publisher
	cache      cache.CacheService
	subreddits []string
	postLimit  int
	interval   time.Duration
	seenTTL    time.Duration
	blockTime  time.Duration
	log        *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	feedClient FeedClient,
	driver *batch.Driver,
	pub publisher.Publisher,
	cacheSvc cache.CacheService,
	subreddits []string,
	postLimit int,
	interval time.Duration,
	seenTTL time.Duration,
	blockTime time.Duration,
) *Worker {
	return &Worker{
		feed:       feedClient,
		driver:     driver,
		publisher:  pub,
		cache:      cacheSvc,
		subreddits: subreddits,
		postLimit:  postLimit,
		interval:   interval,
		seenTTL:    seenTTL,
		blockTime:  blockTime,
		log:        logger.ForWorker(),
	}
}

// Start runs the worker loop until the context is cancelled
func (w *Worker) Start(ctx context.Context) error {
	for {
		start := time.Now()
		w.runCycle(ctx)
		w.log.Info().Dur("elapsed", time.Since(start)).Msg("cycle complete")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// runCycle processes all subreddits in parallel and then trims the
// streams
func (w *Worker) runCycle(ctx context.Context) {
	var wg sync.WaitGroup
	for _, subreddit := range w.subreddits {
		wg.Add(1)
		go func(subreddit string) {
			defer wg.Done()
			w.processSubreddit(ctx, subreddit)
		}(subreddit)
	}
	wg.Wait()

	if err := w.publisher.TrimStreams(ctx); err != nil {
		w.log.Error().Err(err).Msg("stream trimming failed")
	}
}

// processSubreddit fetches a listing, parses the unseen posts and
// publishes the resulting deals
func (w *Worker) processSubreddit(ctx context.Context, subreddit string) {
	log := logger.ForFeed(subreddit)

	if _, err := w.cache.Get(rateLimitKeyPrefix + subreddit); err == nil {
		log.Warn().Msg("rate limit block active, skipping cycle")
		return
	}

	posts, err := w.feed.FetchPosts(ctx, subreddit, w.postLimit)
	if err != nil {
		if errors.IsRateLimit(err) {
			w.blockSubreddit(subreddit, err)
			return
		}
		log.Error().Err(err).Msg("listing fetch failed")
		return
	}

	fresh := w.filterSeen(posts)
	if len(fresh) == 0 {
		log.Debug().Int("total", len(posts)).Msg("no unseen posts")
		return
	}

	outcomes := w.driver.Run(ctx, fresh, func(ctx context.Context, post feed.RawPost) ([]string, error) {
		return w.feed.FetchComments(ctx, post.Permalink)
	})

	published := 0
	for _, outcome := range outcomes {
		switch outcome.Status {
		case batch.StatusParsed:
			data, err := json.Marshal(outcome.Deal)
			if err != nil {
				log.Error().Err(err).Str("post_id", outcome.Post.ID).Msg("deal marshal failed")
				continue
			}
			if err := w.publisher.Publish(ctx, subreddit, data); err != nil {
				log.Error().Err(err).Str("post_id", outcome.Post.ID).Msg("publish failed")
				continue
			}
			published++
			w.markSeen(outcome.Post.ID)
		case batch.StatusSkipped:
			// Skips are stable decisions; remember them so the post is
			// not re-parsed every cycle.
			w.markSeen(outcome.Post.ID)
		case batch.StatusFailed:
			// Retryable failures stay unmarked so the post is retried
			// next cycle; anything else would fail the same way again.
			if werr, ok := errors.As(outcome.Err); ok && !werr.IsRetryable() {
				w.markSeen(outcome.Post.ID)
			}
		}
	}

	log.Info().
		Int("posts", len(posts)).
		Int("fresh", len(fresh)).
		Int("published", published).
		Msg("subreddit processed")
}

// filterSeen drops posts already recorded in the cache
func (w *Worker) filterSeen(posts []feed.RawPost) []feed.RawPost {
	var fresh []feed.RawPost
	for _, post := range posts {
		if _, err := w.cache.Get(seenKeyPrefix + post.ID); err == nil {
			continue
		}
		fresh = append(fresh, post)
	}
	return fresh
}

// blockSubreddit records a rate limit block so the next cycles leave the
// subreddit alone. The server's Retry-After wins over the configured
// block time when it is longer.
func (w *Worker) blockSubreddit(subreddit string, err error) {
	ttl := w.blockTime
	if werr, ok := errors.As(err); ok && werr.RetryAfter > ttl {
		ttl = werr.RetryAfter
	}

	logger.ForFeed(subreddit).Warn().Dur("block", ttl).Msg("listing rate limited, blocking subreddit")
	if err := w.cache.Set(rateLimitKeyPrefix+subreddit, []byte("1"), ttl); err != nil {
		w.log.Debug().Err(err).Str("subreddit", subreddit).Msg("rate limit cache set failed")
	}
}

func (w *Worker) markSeen(postID string) {
	if err := w.cache.Set(seenKeyPrefix+postID, []byte("1"), w.seenTTL); err != nil {
		w.log.Debug().Err(err).Str("post_id", postID).Msg("seen cache set failed")
	}
}
