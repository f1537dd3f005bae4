package gormrepo

import (
	"context"
	"errors"
	"time"

	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/app/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultStaminaMax = 100

// StaminaLedger seeds a user at Max the first time stamina is touched.
type StaminaLedger struct {
	db  *gorm.DB
	tx  TxManager
	Max int64
}

func NewStaminaLedger(db *gorm.DB) StaminaLedger {
	return StaminaLedger{db: db, tx: NewTxManager(db), Max: DefaultStaminaMax}
}

func (l StaminaLedger) Current(ctx context.Context, uid int64) (int64, error) {
	var m model.UserStamina
	err := getDBFromCtx(ctx, l.db).Where("uid = ?", uid).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l.Max, nil
	}
	if err != nil {
		return 0, err
	}
	return m.Stamina, nil
}

func (l StaminaLedger) Deduct(ctx context.Context, uid, amount int64, memo string) (int64, error) {
	var remaining int64
	err := l.tx.RunInTx(ctx, func(txCtx context.Context) error {
		db := getDBFromCtx(txCtx, l.db)
		now := time.Now()
		seed := model.UserStamina{UID: uid, Stamina: l.Max, UpdatedAt: now}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		var row model.UserStamina
		upd := db.Model(&row).
			Clauses(clause.Returning{Columns: []clause.Column{{Name: "stamina"}}}).
			Where("uid = ? AND stamina >= ?", uid, amount).
			Updates(map[string]any{
				"stamina":    gorm.Expr("stamina - ?", amount),
				"updated_at": now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return apperr.New(apperr.CodeStaminaInsufficient)
		}
		remaining = row.Stamina
		return db.Create(&model.StaminaLog{
			UID:          uid,
			Delta:        -amount,
			StaminaAfter: remaining,
			Memo:         memo,
			CreatedAt:    now,
		}).Error
	})
	return remaining, err
}
