package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/app/ports"
	"surgame/internal/domain/challenge"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepo struct {
	db *gorm.DB
}

func NewChallengeRepo(db *gorm.DB) ChallengeRepo {
	return ChallengeRepo{db: db}
}

func (r ChallengeRepo) GetForUpdate(ctx context.Context, uid, chapterID int64) (challenge.Record, error) {
	var m model.UserStarChallenge
	err := getDBFromCtx(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("uid = ? AND chapter_id = ?", uid, chapterID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return challenge.Record{}, ports.ErrNotFound
		}
		return challenge.Record{}, err
	}
	return toRecord(m)
}

func (r ChallengeRepo) Save(ctx context.Context, rec challenge.Record) error {
	stars, err := json.Marshal(rec.Stars)
	if err != nil {
		return fmt.Errorf("encode stars: %w", err)
	}
	row := model.UserStarChallenge{
		UID:       rec.UID,
		ChapterID: rec.ChapterID,
		Stars:     string(stars),
		Total:     int32(rec.Total()),
		UpdatedAt: time.Now(),
	}
	return getDBFromCtx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "chapter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stars", "total", "updated_at"}),
	}).Create(&row).Error
}

func (r ChallengeRepo) ListByUID(ctx context.Context, uid int64) ([]challenge.Record, error) {
	var rows []model.UserStarChallenge
	if err := getDBFromCtx(ctx, r.db).Where("uid = ?", uid).Order("chapter_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]challenge.Record, 0, len(rows))
	for _, m := range rows {
		rec, err := toRecord(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRecord(m model.UserStarChallenge) (challenge.Record, error) {
	rec := challenge.Record{UID: m.UID, ChapterID: m.ChapterID}
	if m.Stars != "" {
		if err := json.Unmarshal([]byte(m.Stars), &rec.Stars); err != nil {
			return challenge.Record{}, fmt.Errorf("decode stars of chapter %d: %w", m.ChapterID, err)
		}
	}
	return rec, nil
}

func (r ChallengeRepo) ClaimedRewards(ctx context.Context, uid int64) (map[int64]bool, error) {
	var rows []model.UserStarReward
	if err := getDBFromCtx(ctx, r.db).Where("uid = ?", uid).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]bool, len(rows))
	for _, m := range rows {
		out[m.RewardID] = true
	}
	return out, nil
}

// CreateClaim relies on the (uid, reward_id) primary key; a second claim
// inserts nothing and reports ErrConflict.
func (r ChallengeRepo) CreateClaim(ctx context.Context, uid, rewardID int64) error {
	res := getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserStarReward{UID: uid, RewardID: rewardID, CreatedAt: time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r ChallengeRepo) DeleteByUID(ctx context.Context, uid int64) error {
	db := getDBFromCtx(ctx, r.db)
	if err := db.Where("uid = ?", uid).Delete(&model.UserStarChallenge{}).Error; err != nil {
		return err
	}
	return db.Where("uid = ?", uid).Delete(&model.UserStarReward{}).Error
}
