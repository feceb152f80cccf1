package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agentready/internal/extractor"
	"agentready/internal/fetch"
	"agentready/internal/log"
	"agentready/internal/model"
	"agentready/internal/report"
	"agentready/internal/scoring"
)

var (
	ErrNoURLs             = errors.New("no URLs to check")
	ErrEmptyURL           = errors.New("URL must not be empty")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrNilFetcher         = errors.New("fetcher must not be nil")
)

// Checker runs the fetch, extract, score pipeline for pages.
type Checker struct {
	fetcher     fetch.Fetcher
	scorer      *scoring.Scorer
	concurrency int
	now         func() time.Time
}

type Option func(*Checker)

// WithConcurrency bounds how many pages a batch checks at once.
func WithConcurrency(n int) Option {
	return func(c *Checker) { c.concurrency = n }
}

// WithClock replaces time.Now for timestamps and latency.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

func NewChecker(fetcher fetch.Fetcher, policy scoring.Policy, opts ...Option) (*Checker, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	scorer, err := scoring.NewScorer(policy)
	if err != nil {
		return nil, err
	}

	c := &Checker{
		fetcher:     fetcher,
		scorer:      scorer,
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.concurrency < 1 {
		return nil, ErrInvalidConcurrency
	}
	return c, nil
}

// CheckURL fetches and scores one page. Unreachable pages produce a failed result,
// not an error; the error return is reserved for misuse.
func (c *Checker) CheckURL(ctx context.Context, targetURL string) (model.ComplianceResult, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return model.ComplianceResult{}, ErrEmptyURL
	}
	return c.check(ctx, targetURL), nil
}

func (c *Checker) check(ctx context.Context, targetURL string) model.ComplianceResult {
	start := c.now()
	resp, err := c.fetcher.Fetch(ctx, targetURL)
	latency := c.now().Sub(start)
	if err != nil {
		log.Logger.Warn("page unreachable",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return model.Failed(targetURL, start, latency, failureReason(targetURL, err))
	}

	if resp.Latency > 0 {
		latency = resp.Latency
	}

	result := c.score(targetURL, resp.Body, start, latency)
	log.Logger.Info("page checked",
		zap.String("url", targetURL),
		zap.Float64("score", result.OverallScore),
		zap.Bool("passed", result.Passed),
		zap.Duration("latency", latency),
	)
	return result
}

// CheckHTML scores markup already in hand.
func (c *Checker) CheckHTML(targetURL, rawHTML string) model.ComplianceResult {
	return c.score(targetURL, rawHTML, c.now(), 0)
}

func (c *Checker) score(targetURL, rawHTML string, at time.Time, latency time.Duration) model.ComplianceResult {
	facts := extractor.Extract(rawHTML)
	eval := c.scorer.Evaluate(facts)

	return model.ComplianceResult{
		URL:              targetURL,
		Timestamp:        at,
		FetchLatencyMs:   latency.Milliseconds(),
		DocumentFacts:    facts,
		CriterionResults: eval.ByName(),
		OverallScore:     eval.OverallScore,
		Grade:            eval.Grade,
		Passed:           eval.Passed,
		Issues:           eval.Issues,
		Warnings:         eval.Warnings,
		Recommendations:  eval.Recommendations,
	}
}

// RunBatch checks every URL and returns results index-aligned with urls. Pages
// may be checked concurrently; one failure never stops the others.
func (c *Checker) RunBatch(ctx context.Context, urls []string) ([]model.ComplianceResult, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return nil, fmt.Errorf("url %d: %w", i, ErrEmptyURL)
		}
	}

	results := make([]model.ComplianceResult, len(urls))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.check(ctx, strings.TrimSpace(u))
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// CheckBatch runs a batch and summarizes it.
func (c *Checker) CheckBatch(ctx context.Context, urls []string) ([]model.ComplianceResult, model.BatchSummary, error) {
	results, err := c.RunBatch(ctx, urls)
	if err != nil {
		return nil, model.BatchSummary{}, err
	}
	summary := report.Summarize(results,
		report.WithGeneratedAt(c.now()),
		report.WithThreshold(c.scorer.Policy().PassThreshold),
	)
	log.Logger.Info("batch checked",
		zap.String("batch_id", summary.BatchID),
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.FailedCount),
		zap.Float64("average_score", summary.AverageScore),
	)
	return results, summary, nil
}

// failureReason is the single issue recorded for an unreachable page.
func failureReason(targetURL string, err error) string {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Error()
	}
	return fmt.Sprintf("failed to fetch %s: %v", targetURL, err)
}
