// Package apperr carries the CATEGORY:NNNN codes returned to game clients.
package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeUIDRequired  = "AUTH:0005"
	CodeUserNotFound = "AUTH:0006"

	CodeJourneyInvalidChapter = "JOURNEY:0001"
	CodeJourneyInvalidWave    = "JOURNEY:0002"

	CodeRewardChapterNotFound = "JourneyReward:0001"
	CodeRewardNotReached      = "JourneyReward:0002"
	CodeRewardNoProgress      = "JourneyReward:0003"
	CodeRewardNothingToClaim  = "JourneyReward:0004"

	CodeItemInsufficient = "UserItem:0001"
	CodeItemGrantFailed  = "UserItem:0002"

	CodeTreasureNoUpgrade       = "TREASURE:0001"
	CodeTreasureNoDowngrade     = "TREASURE:0002"
	CodeTreasureNoRefund        = "TREASURE:0003"
	CodeTreasureNotTreasure     = "TREASURE:0004"
	CodeTreasureAutoFuseFailed  = "TREASURE:0006"
	CodeTreasureInvalidMaterial = "TREASURE:0013"
	CodeTreasureMaterialCount   = "TREASURE:0015"
	CodeEquipmentNotTreasure    = "EQUIPMENT:0005"

	CodeStaminaInsufficient = "STAMINA:0001"

	CodeChallengeInvalidChapter = "Journey:0001"
	CodeChallengeNoStars        = "StarChallenge:0001"
	CodeChallengeInvalid        = "StarChallenge:0002"
	CodeStarRewardNotFound      = "StarReward:0001"
	CodeStarRewardLocked        = "StarReward:0002"
	CodeStarRewardClaimed       = "StarReward:0003"
	CodeStarRewardInvalidID     = "StarReward:0005"

	CodeSystem = "SYSTEM:0003"
)

var messages = map[string]string{
	CodeUIDRequired:             "player uid is required",
	CodeUserNotFound:            "player not found",
	CodeJourneyInvalidChapter:   "chapter does not exist",
	CodeJourneyInvalidWave:      "wave must be a non-negative number",
	CodeRewardChapterNotFound:   "chapter does not exist",
	CodeRewardNotReached:        "chapter not reached yet",
	CodeRewardNoProgress:        "no journey progress recorded",
	CodeRewardNothingToClaim:    "no reward left to claim",
	CodeItemInsufficient:        "not enough items",
	CodeItemGrantFailed:         "failed to grant items",
	CodeTreasureNoUpgrade:       "treasure cannot be upgraded further",
	CodeTreasureNoDowngrade:     "treasure cannot be downgraded",
	CodeTreasureNoRefund:        "no refund material configured",
	CodeTreasureNotTreasure:     "items are not treasures",
	CodeTreasureAutoFuseFailed:  "auto fuse failed",
	CodeTreasureInvalidMaterial: "material not allowed for this treasure",
	CodeTreasureMaterialCount:   "wrong number of materials",
	CodeEquipmentNotTreasure:    "item is not a treasure",
	CodeStaminaInsufficient:     "not enough stamina",
	CodeChallengeInvalidChapter: "chapter does not exist",
	CodeChallengeNoStars:        "earned stars are required",
	CodeChallengeInvalid:        "invalid star challenge update",
	CodeStarRewardNotFound:      "star reward does not exist",
	CodeStarRewardLocked:        "not enough stars",
	CodeStarRewardClaimed:       "star reward already claimed",
	CodeStarRewardInvalidID:     "reward id must be a positive number",
	CodeSystem:                  "system error",
}

// Message resolves a code to its client message, or the code itself when the
// catalog has no entry.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

type Error struct {
	Code       string
	ItemID     int64
	NeedItemID int64
	Err        error
}

func New(code string) *Error {
	return &Error{Code: code}
}

func Wrap(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) WithItem(itemID int64) *Error {
	cp := *e
	cp.ItemID = itemID
	return &cp
}

func (e *Error) WithNeedItem(itemID int64) *Error {
	cp := *e
	cp.NeedItemID = itemID
	return &cp
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code so errors.Is works with sentinels built
// from New.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Code extracts the first coded error in err's chain.
func Code(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// HasCode reports whether err carries code.
func HasCode(err error, code string) bool {
	c, ok := Code(err)
	return ok && c == code
}

// Or returns err when it is already coded, otherwise wraps it with fallback.
func Or(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if _, ok := Code(err); ok {
		return err
	}
	return Wrap(fallback, err)
}
