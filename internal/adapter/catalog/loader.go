package catalog

import (
	"context"
	"fmt"

	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"
	"surgame/internal/domain/treasure"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source reads the static tables.
type Source interface {
	LoadTreasures(ctx context.Context) ([]treasure.Entry, error)
	LoadChapters(ctx context.Context) ([]journey.Chapter, error)
	LoadChapterRewards(ctx context.Context) ([]journey.RewardDefinition, error)
	LoadStarRewards(ctx context.Context) ([]challenge.RewardDefinition, error)
}

// snapshotLoader is implemented by sources that read every table in one
// pass, such as a single catalog file.
type snapshotLoader interface {
	LoadSnapshot(ctx context.Context) (Snapshot, error)
}

// Load reads every table of src, concurrently unless src can return the
// whole snapshot at once.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	if sl, ok := src.(snapshotLoader); ok {
		s, err := sl.LoadSnapshot(ctx)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load catalog: %w", err)
		}
		return s, nil
	}
	var s Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := src.LoadTreasures(gctx)
		if err != nil {
			return fmt.Errorf("load treasures: %w", err)
		}
		s.Treasures = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.LoadChapters(gctx)
		if err != nil {
			return fmt.Errorf("load chapters: %w", err)
		}
		s.Chapters = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.LoadChapterRewards(gctx)
		if err != nil {
			return fmt.Errorf("load chapter rewards: %w", err)
		}
		s.ChapterRewards = rows
		return nil
	})
	g.Go(func() error {
		rows, err := src.LoadStarRewards(gctx)
		if err != nil {
			return fmt.Errorf("load star rewards: %w", err)
		}
		s.StarRewards = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Refresh reloads src into h. On error the previous catalog stays in place.
func Refresh(ctx context.Context, h *Holder, src Source) error {
	s, err := Load(ctx, src)
	if err != nil {
		return err
	}
	h.Replace(s)
	return nil
}

// StartRefresher reloads the catalog on the given cron schedule until the
// returned stop function is called. after, when set, runs after each
// successful reload.
func StartRefresher(spec string, h *Holder, src Source, logger *zap.Logger, after func()) (stop func(), err error) {
	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		if err := Refresh(context.Background(), h, src); err != nil {
			logger.Error("catalog refresh failed", zap.Error(err))
			return
		}
		if after != nil {
			after()
		}
		logger.Debug("catalog refreshed", zap.Int("treasures", h.Treasures().Len()))
	})
	if err != nil {
		return nil, fmt.Errorf("schedule catalog refresh %q: %w", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
