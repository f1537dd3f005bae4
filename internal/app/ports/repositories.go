package ports

import (
	"context"

	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"
	"surgame/internal/domain/treasure"
)

type User struct {
	ID  int64
	UID int64
}

type UserRepository interface {
	GetByUID(ctx context.Context, uid int64) (User, error)
}

type ItemMetaRepository interface {
	// GetMany returns the metas it knows; unknown ids are absent from the map.
	GetMany(ctx context.Context, itemIDs []int64) (map[int64]treasure.ItemMeta, error)
}

// Catalogs exposes the current read-only snapshot of the static game tables.
type Catalogs interface {
	Treasures() *treasure.Catalog
	Journeys() *journey.Catalog
	StarRewards() []challenge.RewardDefinition
}

type ProgressRepository interface {
	Get(ctx context.Context, uid int64) (journey.Progress, error)
	GetForUpdate(ctx context.Context, uid int64) (journey.Progress, error)
	Save(ctx context.Context, progress journey.Progress) error
	Delete(ctx context.Context, uid int64) error
}

type ClaimRepository interface {
	ListByRewardIDs(ctx context.Context, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error)
	ListByRewardIDsForUpdate(ctx context.Context, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error)
	MarkReceived(ctx context.Context, uid, rewardID int64) error
	DeleteByUID(ctx context.Context, uid int64) error
}

type ChallengeRepository interface {
	GetForUpdate(ctx context.Context, uid, chapterID int64) (challenge.Record, error)
	Save(ctx context.Context, record challenge.Record) error
	ListByUID(ctx context.Context, uid int64) ([]challenge.Record, error)
	ClaimedRewards(ctx context.Context, uid int64) (map[int64]bool, error)
	// CreateClaim returns ErrConflict when the reward was already claimed.
	CreateClaim(ctx context.Context, uid, rewardID int64) error
	DeleteByUID(ctx context.Context, uid int64) error
}

type StaminaLedger interface {
	Deduct(ctx context.Context, uid, amount int64, memo string) (remaining int64, err error)
	Current(ctx context.Context, uid int64) (int64, error)
}
