package challenge

import (
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
)

type UpdateRequest struct {
	User        ports.User
	ChapterID   int64
	EarnedStars []int
	Drops       []item.Amount
}

type ChapterStars struct {
	ChapterID int64 `json:"chapter_id"`
	Stars     []int `json:"stars"`
	Total     int   `json:"chapter_stars"`
}

type UpdateResponse struct {
	ChapterStars
	TotalStars int           `json:"total_stars"`
	Rewards    []item.Amount `json:"rewards"`
}

type ProgressResponse struct {
	Chapters   []ChapterStars `json:"chapters"`
	TotalStars int            `json:"total_stars"`
}

type RewardView struct {
	RewardID      int64         `json:"reward_id"`
	RequiredStars int           `json:"required_stars"`
	IsUnlocked    bool          `json:"is_unlocked"`
	IsClaimed     bool          `json:"is_claimed"`
	CanClaim      bool          `json:"can_claim"`
	Rewards       []item.Amount `json:"rewards"`
}

type RewardsResponse struct {
	TotalStars int          `json:"total_stars"`
	Rewards    []RewardView `json:"rewards"`
}

type ClaimRequest struct {
	UID      int64
	RewardID int64
}

type ClaimResponse struct {
	RewardID int64         `json:"reward_id"`
	Rewards  []item.Amount `json:"rewards"`
}
