package challenge

const MaxStarsPerStage = 3

// Record holds the best stars a user earned on each stage of one chapter.
type Record struct {
	UID       int64
	ChapterID int64
	Stars     []int
}

func (r Record) Total() int {
	total := 0
	for _, s := range r.Stars {
		total += s
	}
	return total
}

type RewardDefinition struct {
	UniqueID      int64  `toml:"unique_id"`
	RequiredStars int    `toml:"required_stars"`
	Rewards       string `toml:"rewards"`
}

// ClampStars bounds every stage result to 0..MaxStarsPerStage.
func ClampStars(earned []int) []int {
	out := make([]int, len(earned))
	for i, s := range earned {
		switch {
		case s < 0:
			out[i] = 0
		case s > MaxStarsPerStage:
			out[i] = MaxStarsPerStage
		default:
			out[i] = s
		}
	}
	return out
}

// MergeBest keeps the higher star count per stage. The result is as long as
// the longer input.
func MergeBest(stored, earned []int) []int {
	earned = ClampStars(earned)
	n := len(stored)
	if len(earned) > n {
		n = len(earned)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(stored) {
			a = stored[i]
		}
		if i < len(earned) {
			b = earned[i]
		}
		if b > a {
			a = b
		}
		out[i] = a
	}
	return out
}

// SumTotals adds up the totals of every chapter record.
func SumTotals(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.Total()
	}
	return total
}

type RewardStatus struct {
	RewardID      int64
	RequiredStars int
	IsUnlocked    bool
	IsClaimed     bool
	CanClaim      bool
}

func Status(def RewardDefinition, totalStars int, claimed bool) RewardStatus {
	unlocked := totalStars >= def.RequiredStars
	return RewardStatus{
		RewardID:      def.UniqueID,
		RequiredStars: def.RequiredStars,
		IsUnlocked:    unlocked,
		IsClaimed:     claimed,
		CanClaim:      unlocked && !claimed,
	}
}
