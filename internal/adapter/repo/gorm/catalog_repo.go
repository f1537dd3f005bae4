package gormrepo

import (
	"context"

	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"
	"surgame/internal/domain/treasure"

	"gorm.io/gorm"
)

// CatalogRepo reads the static game tables for the catalog loader.
type CatalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepo {
	return CatalogRepo{db: db}
}

func (r CatalogRepo) LoadTreasures(ctx context.Context) ([]treasure.Entry, error) {
	var rows []model.Treasure
	if err := r.db.WithContext(ctx).Order("item_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]treasure.Entry, 0, len(rows))
	for _, m := range rows {
		out = append(out, treasure.Entry{
			ItemID:                   m.ItemID,
			UniqueID:                 m.UniqueID,
			Name:                     m.Name,
			Element:                  m.Element,
			TargetHero:               m.TargetHero,
			QualityLevel:             int(m.QualityLevel),
			NeedTwoMaterial:          m.NeedTwoMaterial,
			MaterialItemID:           m.MaterialItemID,
			FuseMaterialItemID:       m.FuseMaterialItemID,
			FuseCommonMaterialItemID: m.FuseCommonMaterialItemID,
			AtkBonus:                 m.AtkBonus,
			HPBonus:                  m.HpBonus,
			DefBonus:                 m.DefBonus,
			AtkAddP:                  m.AtkAddP,
			HPAddP:                   m.HpAddP,
		})
	}
	return out, nil
}

func (r CatalogRepo) LoadChapters(ctx context.Context) ([]journey.Chapter, error) {
	var rows []model.Journey
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]journey.Chapter, 0, len(rows))
	for _, m := range rows {
		out = append(out, journey.Chapter{ID: m.ID, UniqueID: m.UniqueID})
	}
	return out, nil
}

func (r CatalogRepo) LoadChapterRewards(ctx context.Context) ([]journey.RewardDefinition, error) {
	var rows []model.JourneyReward
	if err := r.db.WithContext(ctx).Order("journey_id, wave, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]journey.RewardDefinition, 0, len(rows))
	for _, m := range rows {
		out = append(out, journey.RewardDefinition{ID: m.ID, JourneyID: m.JourneyID, Wave: int(m.Wave), Rewards: m.Rewards})
	}
	return out, nil
}

func (r CatalogRepo) LoadStarRewards(ctx context.Context) ([]challenge.RewardDefinition, error) {
	var rows []model.StarReward
	if err := r.db.WithContext(ctx).Order("required_stars, unique_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]challenge.RewardDefinition, 0, len(rows))
	for _, m := range rows {
		out = append(out, challenge.RewardDefinition{UniqueID: m.UniqueID, RequiredStars: int(m.RequiredStars), Rewards: m.Rewards})
	}
	return out, nil
}
