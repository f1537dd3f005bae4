package journey

import (
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
)

type UpdateProgressRequest struct {
	UID       int64
	ChapterID int64
	Wave      int
}

type ProgressView struct {
	ChapterID int64 `json:"chapter_id"`
	Wave      int   `json:"wave"`
}

type ChapterRewardsRequest struct {
	UID int64
	// ChapterID is optional; zero lists every chapter.
	ChapterID int64
}

// RewardStatusView keeps the integer flags game clients already parse.
type RewardStatusView struct {
	ChapterID  int64         `json:"chapter_id"`
	Wave       int           `json:"wave"`
	IsUnlocked int           `json:"is_unlocked"`
	IsClaimed  int           `json:"is_claimed"`
	CanClaim   int           `json:"can_claim"`
	Rewards    []item.Amount `json:"rewards"`
}

type ClaimChapterRewardRequest struct {
	UID       int64
	ChapterID int64
}

type ClaimChapterRewardResponse struct {
	ChapterID    int64         `json:"chapter_id"`
	RewardStatus int           `json:"reward_status"`
	ClaimedWaves []int         `json:"claimed_wave"`
	Rewards      []item.Amount `json:"rewards"`
}

type ClaimDropsRequest struct {
	User  ports.User
	Items []item.Amount
}
