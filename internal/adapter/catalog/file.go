package catalog

import (
	"context"
	"fmt"
	"os"

	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"
	"surgame/internal/domain/treasure"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile decodes a TOML catalog file.
func LoadFile(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	var s Snapshot
	if err := toml.NewDecoder(file).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return s, nil
}

// FileSource re-reads a TOML catalog file on every load. Load decodes the
// file once through LoadSnapshot; the per-table methods exist for callers
// that want a single table.
type FileSource struct {
	Path string
}

func (f FileSource) LoadSnapshot(context.Context) (Snapshot, error) {
	return LoadFile(f.Path)
}

func (f FileSource) LoadTreasures(ctx context.Context) ([]treasure.Entry, error) {
	s, err := f.LoadSnapshot(ctx)
	return s.Treasures, err
}

func (f FileSource) LoadChapters(ctx context.Context) ([]journey.Chapter, error) {
	s, err := f.LoadSnapshot(ctx)
	return s.Chapters, err
}

func (f FileSource) LoadChapterRewards(ctx context.Context) ([]journey.RewardDefinition, error) {
	s, err := f.LoadSnapshot(ctx)
	return s.ChapterRewards, err
}

func (f FileSource) LoadStarRewards(ctx context.Context) ([]challenge.RewardDefinition, error) {
	s, err := f.LoadSnapshot(ctx)
	return s.StarRewards, err
}
