package service

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/domain/models"
	"go.uber.org/zap"
)

// BatchError reports where an import pass stopped. Records before Index are
// already remote; nothing is rolled back.
type BatchError struct {
	Index   int
	Key     string
	Summary models.BatchSummary
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s at record %d (%s) after %d processed: %v",
		derr.ErrBatchHalted, e.Index, e.Key, e.Summary.Processed, e.Err)
}

func (e *BatchError) Unwrap() []error {
	return []error{derr.ErrBatchHalted, e.Err}
}

type batchItem struct {
	key  string
	skip bool
	run  func(ctx context.Context) error
}

// runBatch executes items in order, pausing between remote calls and halting on the first failure.
func (s *SyncService) runBatch(ctx context.Context, logger *zap.Logger, items []batchItem) (models.BatchSummary, error) {
	summary := models.BatchSummary{Total: len(items)}
	called := false

	for i, item := range items {
		if item.skip {
			summary.Skipped++
			logger.Debug("record skipped", zap.String("key", item.key))
			continue
		}

		if called {
			if err := s.pause(ctx); err != nil {
				return summary, &BatchError{Index: i, Key: item.key, Summary: summary, Err: err}
			}
		}
		called = true

		if err := item.run(ctx); err != nil {
			s.report(item.key, err)
			logger.Error("batch halted",
				zap.Int("index", i),
				zap.String("key", item.key),
				zap.Int("processed", summary.Processed),
				zap.Error(err),
			)
			return summary, &BatchError{Index: i, Key: item.key, Summary: summary, Err: err}
		}

		s.report(item.key, nil)
		summary.Processed++
	}

	logger.Info("batch finished",
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *SyncService) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.delay):
		return nil
	}
}

// report prints the operator progress line, e.g. "Benfica...200".
func (s *SyncService) report(key string, err error) {
	if s.progress == nil {
		return
	}

	if err == nil {
		_, _ = color.New(color.FgGreen).Fprintf(s.progress, "%s...200\n", key)
		return
	}

	status := "error"
	if code := derr.StatusCode(err); code != 0 {
		status = fmt.Sprint(code)
	}
	_, _ = color.New(color.FgRed).Fprintf(s.progress, "%s...%s\n", key, status)
}
