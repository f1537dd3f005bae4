package gormrepo

import (
	"context"
	"errors"

	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/app/ports"
	"surgame/internal/domain/treasure"

	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return UserRepo{db: db}
}

func (r UserRepo) GetByUID(ctx context.Context, uid int64) (ports.User, error) {
	var m model.User
	if err := getDBFromCtx(ctx, r.db).Where("uid = ?", uid).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, ports.ErrNotFound
		}
		return ports.User{}, err
	}
	return ports.User{ID: m.ID, UID: m.UID}, nil
}

// ItemMetaRepo reads the shared items table.
type ItemMetaRepo struct {
	db *gorm.DB
}

func NewItemMetaRepo(db *gorm.DB) ItemMetaRepo {
	return ItemMetaRepo{db: db}
}

func (r ItemMetaRepo) GetMany(ctx context.Context, itemIDs []int64) (map[int64]treasure.ItemMeta, error) {
	out := make(map[int64]treasure.ItemMeta, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var rows []model.Item
	if err := getDBFromCtx(ctx, r.db).Where("item_id IN ?", itemIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ItemID] = treasure.ItemMeta{
			ItemID:       m.ItemID,
			Type:         m.Type,
			Rarity:       m.Rarity,
			Category:     m.Category,
			ManagerID:    m.ManagerID,
			UseNecessary: int(m.UseNecessary),
		}
	}
	return out, nil
}
