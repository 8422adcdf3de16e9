package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	forms "google.golang.org/api/forms/v1"

	"quiz-forms/internal/config"
	"quiz-forms/internal/domain"
	"quiz-forms/internal/util"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BatchUploader inserts items into a form under the service's write quota.
// Items are cut into sets of GroupSize and each set into batches of
// BatchSize. One insert call is made per batch; batches of a set run
// concurrently, bounded by a limiter shared by every upload of this
// uploader. A slot is held for BatchDelay after its call returns, and
// consecutive sets are separated by GroupDelay.
type BatchUploader struct {
	forms   domain.FormsService
	cfg     config.UploadConfig
	limiter *semaphore.Weighted
	sleep   SleepFunc
	logger  *zap.Logger
}

// NewBatchUploader creates a new instance of BatchUploader.
func NewBatchUploader(formsSvc domain.FormsService, cfg config.UploadConfig, logger *zap.Logger) *BatchUploader {
	return &BatchUploader{
		forms:   formsSvc,
		cfg:     cfg,
		limiter: semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		sleep:   sleepContext,
		logger:  logger,
	}
}

// WithSleep replaces the delay function, mainly for tests.
func (u *BatchUploader) WithSleep(fn SleepFunc) *BatchUploader {
	u.sleep = fn
	return u
}

// Partition cuts items into sets and batches. Concatenating every batch in
// order yields items again.
func Partition[T any](items []T, groupSize, batchSize int) [][][]T {
	sets := util.Chunk(items, groupSize)
	out := make([][][]T, 0, len(sets))
	for _, set := range sets {
		out = append(out, util.Chunk(set, batchSize))
	}
	return out
}

// Upload inserts items into formID. The first failing batch aborts the
// remaining batches and sets; items already inserted stay in the form.
func (u *BatchUploader) Upload(ctx context.Context, quizTitle, formID string, items []*forms.Item) error {
	sets := Partition(items, u.cfg.GroupSize, u.cfg.BatchSize)
	inserted := 0

	for setIdx, batches := range sets {
		u.logger.Debug("Processing question set",
			zap.String("quiz", quizTitle),
			zap.Int("set", setIdx),
			zap.Int("batches", len(batches)),
		)

		var err error
		if u.cfg.OrderedInserts {
			err = u.uploadSetInOrder(ctx, quizTitle, formID, setIdx, batches, inserted)
		} else {
			err = u.uploadSetConcurrently(ctx, quizTitle, formID, setIdx, batches)
		}
		if err != nil {
			return err
		}

		for _, batch := range batches {
			inserted += len(batch)
		}

		if setIdx < len(sets)-1 {
			u.logger.Debug("Waiting before next question set",
				zap.String("quiz", quizTitle),
				zap.Duration("delay", u.cfg.GroupDelay),
			)
			if err := u.sleep(ctx, u.cfg.GroupDelay); err != nil {
				return err
			}
		}
	}

	u.logger.Info("Questions added into quiz", zap.String("quiz", quizTitle), zap.Int("items", inserted))
	return nil
}

// uploadSetConcurrently places every batch at the head of the form, item i
// of a batch at index i. The service applies one call's requests in order,
// so these indices are always valid regardless of which batch lands first.
func (u *BatchUploader) uploadSetConcurrently(ctx context.Context, quizTitle, formID string, setIdx int, batches [][]*forms.Item) error {
	g, gctx := errgroup.WithContext(ctx)
	for batchIdx, batch := range batches {
		batchIdx, batch := batchIdx, batch
		indices := make([]int64, len(batch))
		for i := range indices {
			indices[i] = int64(i)
		}
		g.Go(func() error {
			return u.submit(gctx, quizTitle, formID, setIdx, batchIdx, batch, indices)
		})
	}
	return g.Wait()
}

// uploadSetInOrder appends batches one after another at absolute positions.
func (u *BatchUploader) uploadSetInOrder(ctx context.Context, quizTitle, formID string, setIdx int, batches [][]*forms.Item, offset int) error {
	for batchIdx, batch := range batches {
		indices := make([]int64, len(batch))
		for i := range indices {
			indices[i] = int64(offset + i)
		}
		if err := u.submit(ctx, quizTitle, formID, setIdx, batchIdx, batch, indices); err != nil {
			return err
		}
		offset += len(batch)
	}
	return nil
}

func (u *BatchUploader) submit(ctx context.Context, quizTitle, formID string, setIdx, batchIdx int, batch []*forms.Item, indices []int64) error {
	if err := u.limiter.Acquire(ctx, 1); err != nil {
		return err
	}
	defer u.limiter.Release(1)

	if err := u.forms.InsertItems(ctx, formID, batch, indices); err != nil {
		u.logger.Error("Failed to insert question batch",
			zap.String("quiz", quizTitle),
			zap.String("form_id", formID),
			zap.Int("set", setIdx),
			zap.Int("batch", batchIdx),
			zap.Error(err),
		)
		return domain.NewRemoteAPIError(
			fmt.Sprintf("insert items %s-Set-%d-Batch-%d", quizTitle, setIdx, batchIdx), err)
	}

	u.logger.Info("Processed batch",
		zap.String("quiz", quizTitle),
		zap.Int("set", setIdx),
		zap.Int("batch", batchIdx),
		zap.Int("items", len(batch)),
	)

	return u.sleep(ctx, u.cfg.BatchDelay)
}
