package catalog

import (
	"sync/atomic"

	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"
	"surgame/internal/domain/treasure"
)

// Snapshot is the raw content of the static game tables.
type Snapshot struct {
	Treasures      []treasure.Entry             `toml:"treasures"`
	Items          []treasure.ItemMeta          `toml:"items"`
	Chapters       []journey.Chapter            `toml:"chapters"`
	ChapterRewards []journey.RewardDefinition   `toml:"chapter_rewards"`
	StarRewards    []challenge.RewardDefinition `toml:"star_rewards"`
}

type indexed struct {
	treasures   *treasure.Catalog
	journeys    *journey.Catalog
	starRewards []challenge.RewardDefinition
}

func index(s Snapshot) *indexed {
	return &indexed{
		treasures:   treasure.NewCatalog(s.Treasures),
		journeys:    journey.NewCatalog(s.Chapters, s.ChapterRewards),
		starRewards: append([]challenge.RewardDefinition(nil), s.StarRewards...),
	}
}

// Holder serves the current catalog. Replace swaps the whole index so readers
// never observe a half-loaded catalog.
type Holder struct {
	current atomic.Pointer[indexed]
}

func NewHolder(s Snapshot) *Holder {
	h := &Holder{}
	h.Replace(s)
	return h
}

func (h *Holder) Replace(s Snapshot) {
	h.current.Store(index(s))
}

func (h *Holder) Treasures() *treasure.Catalog {
	return h.current.Load().treasures
}

func (h *Holder) Journeys() *journey.Catalog {
	return h.current.Load().journeys
}

func (h *Holder) StarRewards() []challenge.RewardDefinition {
	return h.current.Load().starRewards
}
