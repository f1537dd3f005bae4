package journey

import (
	"sort"

	"surgame/internal/domain/item"
)

const DefaultChapterID = 1

type Chapter struct {
	ID       int64 `toml:"id"`
	UniqueID int64 `toml:"unique_id"`
}

type RewardDefinition struct {
	ID        int64  `toml:"id"`
	JourneyID int64  `toml:"journey_id"`
	Wave      int    `toml:"wave"`
	Rewards   string `toml:"rewards"`
}

type Progress struct {
	UID              int64
	CurrentJourneyID int64
	CurrentWave      int
	TotalStars       int
}

// NewProgress is the record seeded the first time a user reports progress.
func NewProgress(uid int64) Progress {
	return Progress{UID: uid, CurrentJourneyID: DefaultChapterID}
}

// Advance overwrites the position unconditionally; a lower wave or chapter
// than the stored one is accepted.
func (p *Progress) Advance(chapter Chapter, wave int) {
	p.CurrentJourneyID = chapter.UniqueID
	if wave < 0 {
		wave = 0
	}
	p.CurrentWave = wave
}

// Claim is the stored state of one (uid, reward) pair. A missing entry in a
// claim map means the reward was never attempted.
type Claim struct {
	RewardID   int64
	IsReceived bool
}

type RewardStatus struct {
	ChapterID  int64
	Wave       int
	IsUnlocked bool
	IsClaimed  bool
	CanClaim   bool
	Rewards    []item.Amount
}

// Catalog indexes chapters and their reward definitions.
type Catalog struct {
	chapters []Chapter
	byID     map[int64]Chapter
	rewards  []RewardDefinition
}

func NewCatalog(chapters []Chapter, rewards []RewardDefinition) *Catalog {
	c := &Catalog{
		chapters: append([]Chapter(nil), chapters...),
		byID:     make(map[int64]Chapter, len(chapters)),
		rewards:  append([]RewardDefinition(nil), rewards...),
	}
	sort.SliceStable(c.chapters, func(i, j int) bool { return c.chapters[i].ID < c.chapters[j].ID })
	for _, ch := range c.chapters {
		c.byID[ch.ID] = ch
	}
	sort.SliceStable(c.rewards, func(i, j int) bool {
		if c.rewards[i].JourneyID != c.rewards[j].JourneyID {
			return c.rewards[i].JourneyID < c.rewards[j].JourneyID
		}
		return c.rewards[i].Wave < c.rewards[j].Wave
	})
	return c
}

// FindChapter resolves identifier against the external unique id or the
// internal id, taking the first chapter by internal id that matches either.
func (c *Catalog) FindChapter(identifier int64) (Chapter, bool) {
	for _, ch := range c.chapters {
		if ch.UniqueID == identifier || ch.ID == identifier {
			return ch, true
		}
	}
	return Chapter{}, false
}

func (c *Catalog) ChapterByID(id int64) (Chapter, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Rewards returns the definitions of one chapter (by internal id), or of all
// chapters when journeyID is zero, ordered by chapter then wave.
func (c *Catalog) Rewards(journeyID int64) []RewardDefinition {
	out := make([]RewardDefinition, 0, len(c.rewards))
	for _, r := range c.rewards {
		if journeyID != 0 && r.JourneyID != journeyID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (c *Catalog) Reward(id int64) (RewardDefinition, bool) {
	for _, r := range c.rewards {
		if r.ID == id {
			return r, true
		}
	}
	return RewardDefinition{}, false
}

// RewardAt finds the definition for a wave of the given chapter.
func (c *Catalog) RewardAt(chapter Chapter, wave int) (RewardDefinition, bool) {
	for _, r := range c.rewards {
		if r.JourneyID == chapter.ID && r.Wave == wave {
			return r, true
		}
	}
	return RewardDefinition{}, false
}

// IsUnlocked compares the reward's chapter against the user's position.
func IsUnlocked(chapterUniqueID int64, wave int, p Progress) bool {
	switch {
	case chapterUniqueID < p.CurrentJourneyID:
		return true
	case chapterUniqueID == p.CurrentJourneyID:
		return p.CurrentWave >= wave
	default:
		return false
	}
}

// Statuses computes the flags for each definition. Any stored claim,
// received or not, blocks CanClaim.
func (c *Catalog) Statuses(defs []RewardDefinition, p Progress, claims map[int64]Claim) []RewardStatus {
	out := make([]RewardStatus, 0, len(defs))
	for _, def := range defs {
		var chapterUID int64
		if ch, ok := c.ChapterByID(def.JourneyID); ok {
			chapterUID = ch.UniqueID
		}
		claim, attempted := claims[def.ID]
		st := RewardStatus{
			ChapterID:  chapterUID,
			Wave:       def.Wave,
			IsUnlocked: IsUnlocked(chapterUID, def.Wave, p),
			IsClaimed:  attempted && claim.IsReceived,
			Rewards:    DecodeRewards(def.Rewards),
		}
		st.CanClaim = st.IsUnlocked && !st.IsClaimed && !attempted
		out = append(out, st)
	}
	return out
}

// ClaimCandidates returns the definitions of chapter a claim may cover: every
// wave of a passed chapter, or waves up to the current one in the current
// chapter. ok is false when the user has not reached the chapter.
func (c *Catalog) ClaimCandidates(chapter Chapter, p Progress) ([]RewardDefinition, bool) {
	if p.CurrentJourneyID < chapter.UniqueID {
		return nil, false
	}
	current := p.CurrentJourneyID == chapter.UniqueID
	var out []RewardDefinition
	for _, r := range c.Rewards(chapter.ID) {
		if current && r.Wave > p.CurrentWave {
			continue
		}
		out = append(out, r)
	}
	return out, true
}

// Claimable drops candidates already received.
func Claimable(candidates []RewardDefinition, claims map[int64]Claim) []RewardDefinition {
	var out []RewardDefinition
	for _, r := range candidates {
		if claim, ok := claims[r.ID]; ok && claim.IsReceived {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Aggregate sums the decoded payloads of defs per item id and returns the
// sorted distinct waves they cover.
func Aggregate(defs []RewardDefinition) ([]item.Amount, []int) {
	var all []item.Amount
	waveSet := map[int]struct{}{}
	for _, r := range defs {
		waveSet[r.Wave] = struct{}{}
		all = append(all, DecodeRewards(r.Rewards)...)
	}
	waves := make([]int, 0, len(waveSet))
	for w := range waveSet {
		waves = append(waves, w)
	}
	sort.Ints(waves)
	return item.Merge(all), waves
}
