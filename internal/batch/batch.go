package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"dealradar/dealworker/internal/feed"
	"dealradar/dealworker/internal/parser"
	"dealradar/dealworker/logger"
)

// Status tells what happened to one post.
type Status string

const (
	// StatusParsed means the post produced a deal record
	StatusParsed Status = "parsed"
	// StatusSkipped means the post carried no deal (expected, not an error)
	StatusSkipped Status = "skipped"
	// StatusFailed means parsing this post errored; siblings are unaffected
	StatusFailed Status = "failed"
)

// Outcome is the per-post result. Failures carry their error instead of
// relying on ambient logging, so the driver's contract stays testable.
type Outcome struct {
	Post   feed.RawPost
	Deal   *parser.ParsedDeal
	Status Status
	Err    error
}

// CommentsFetcher retrieves the comment bodies of a post. It performs
// real network I/O and may fail.
type CommentsFetcher func(ctx context.Context, post feed.RawPost) ([]string, error)

// Parser turns one raw post into a deal record, or (nil, nil) for a skip.
type Parser interface {
	Parse(ctx context.Context, post *feed.RawPost, comments parser.CommentProvider) (*parser.ParsedDeal, error)
}

// Driver applies the post parser across many posts with bounded
// concurrency, isolating per-post failures.
type Driver struct {
	parser      Parser
	concurrency int
	log         *logger.Logger
}

// NewDriver creates a batch driver. concurrency bounds the number of
// posts parsed at once.
func NewDriver(p Parser, concurrency int) *Driver {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Driver{
		parser:      p,
		concurrency: concurrency,
		log:         logger.ForWorker(),
	}
}

// Run parses every post independently. Tasks share no mutable state; each
// writes only its own outcome slot. One post's failure or panic never
// aborts its siblings, so the group never sees an error.
func (d *Driver) Run(ctx context.Context, posts []feed.RawPost, fetchComments CommentsFetcher) []Outcome {
	outcomes := make([]Outcome, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i := range posts {
		g.Go(func() error {
			outcomes[i] = d.parseOne(ctx, posts[i], fetchComments)
			return nil
		})
	}

	// Tasks never return errors; Wait only synchronizes.
	_ = g.Wait()

	for _, outcome := range outcomes {
		if outcome.Status == StatusFailed {
			d.log.Error().
				Err(outcome.Err).
				Str("post_id", outcome.Post.ID).
				Str("title", outcome.Post.Title).
				Msg("post parse failed")
		}
	}

	return outcomes
}

// parseOne runs the parser for a single post behind its own error
// boundary.
func (d *Driver) parseOne(ctx context.Context, post feed.RawPost, fetchComments CommentsFetcher) (outcome Outcome) {
	outcome.Post = post

	defer func() {
		if r := recover(); r != nil {
			outcome.Status = StatusFailed
			outcome.Err = fmt.Errorf("panic while parsing post %s: %v", post.ID, r)
		}
	}()

	var comments parser.CommentProvider
	if fetchComments != nil {
		comments = func() []string {
			bodies, err := fetchComments(ctx, post)
			if err != nil {
				// Missing comments only narrow the URL sources; the
				// parse itself proceeds.
				d.log.Warn().Err(err).Str("post_id", post.ID).Msg("comment fetch failed")
				return nil
			}
			return bodies
		}
	}

	deal, err := d.parser.Parse(ctx, &post, comments)
	switch {
	case err != nil:
		outcome.Status = StatusFailed
		outcome.Err = err
	case deal == nil:
		outcome.Status = StatusSkipped
	default:
		outcome.Status = StatusParsed
		outcome.Deal = deal
	}

	return outcome
}

// Deals filters the parsed records out of a batch of outcomes.
func Deals(outcomes []Outcome) []parser.ParsedDeal {
	var deals []parser.ParsedDeal
	for _, outcome := range outcomes {
		if outcome.Status == StatusParsed && outcome.Deal != nil {
			deals = append(deals, *outcome.Deal)
		}
	}
	return deals
}
