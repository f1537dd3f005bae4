package gormrepo

import (
	"context"
	"errors"
	"time"

	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/app/ports"
	"surgame/internal/domain/journey"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepo {
	return ProgressRepo{db: db}
}

func (r ProgressRepo) Get(ctx context.Context, uid int64) (journey.Progress, error) {
	return r.get(getDBFromCtx(ctx, r.db), uid)
}

func (r ProgressRepo) GetForUpdate(ctx context.Context, uid int64) (journey.Progress, error) {
	return r.get(getDBFromCtx(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), uid)
}

func (r ProgressRepo) get(db *gorm.DB, uid int64) (journey.Progress, error) {
	var m model.UserJourneyProgress
	if err := db.Where("uid = ?", uid).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journey.Progress{}, ports.ErrNotFound
		}
		return journey.Progress{}, err
	}
	return journey.Progress{
		UID:              m.UID,
		CurrentJourneyID: m.CurrentJourneyID,
		CurrentWave:      int(m.CurrentWave),
		TotalStars:       int(m.TotalStars),
	}, nil
}

func (r ProgressRepo) Save(ctx context.Context, p journey.Progress) error {
	row := model.UserJourneyProgress{
		UID:              p.UID,
		CurrentJourneyID: p.CurrentJourneyID,
		CurrentWave:      int32(p.CurrentWave),
		TotalStars:       int32(p.TotalStars),
		UpdatedAt:        time.Now(),
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_journey_id", "current_wave", "total_stars", "updated_at"}),
	}).Create(&row).Error
}

func (r ProgressRepo) Delete(ctx context.Context, uid int64) error {
	return getDBFromCtx(ctx, r.db).Where("uid = ?", uid).Delete(&model.UserJourneyProgress{}).Error
}

type ClaimRepo struct {
	db *gorm.DB
}

func NewClaimRepo(db *gorm.DB) ClaimRepo {
	return ClaimRepo{db: db}
}

func (r ClaimRepo) ListByRewardIDs(ctx context.Context, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error) {
	return r.list(getDBFromCtx(ctx, r.db), uid, rewardIDs)
}

func (r ClaimRepo) ListByRewardIDsForUpdate(ctx context.Context, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error) {
	return r.list(getDBFromCtx(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), uid, rewardIDs)
}

func (r ClaimRepo) list(db *gorm.DB, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error) {
	out := make(map[int64]journey.Claim, len(rewardIDs))
	if len(rewardIDs) == 0 {
		return out, nil
	}
	var rows []model.UserJourneyReward
	if err := db.Where("uid = ? AND reward_id IN ?", uid, rewardIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.RewardID] = journey.Claim{RewardID: m.RewardID, IsReceived: m.IsReceived == 1}
	}
	return out, nil
}

// MarkReceived creates the claim row or flips an existing one to received.
func (r ClaimRepo) MarkReceived(ctx context.Context, uid, rewardID int64) error {
	row := model.UserJourneyReward{UID: uid, RewardID: rewardID, IsReceived: 1, CreatedAt: time.Now()}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "reward_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_received"}),
	}).Create(&row).Error
}

func (r ClaimRepo) DeleteByUID(ctx context.Context, uid int64) error {
	return getDBFromCtx(ctx, r.db).Where("uid = ?", uid).Delete(&model.UserJourneyReward{}).Error
}
