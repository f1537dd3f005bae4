package gormrepo

import (
	"context"
	"fmt"
	"time"

	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemLedger keeps user_items balances and writes one item_logs row per
// mutation. Each call runs in its own transaction unless ctx already carries
// one.
type ItemLedger struct {
	db  *gorm.DB
	tx  TxManager
	now func() time.Time
}

func NewItemLedger(db *gorm.DB) ItemLedger {
	return ItemLedger{db: db, tx: NewTxManager(db), now: time.Now}
}

func (l ItemLedger) AddItem(ctx context.Context, op ports.LedgerOp) (ports.LedgerResult, error) {
	if op.Amount <= 0 || op.ItemID <= 0 {
		return ports.LedgerResult{}, apperr.Wrap(apperr.CodeItemGrantFailed, fmt.Errorf("invalid add of %d x %d", op.Amount, op.ItemID))
	}
	var res ports.LedgerResult
	err := l.tx.RunInTx(ctx, func(txCtx context.Context) error {
		db := getDBFromCtx(txCtx, l.db)
		now := l.now()
		row := model.UserItem{UserID: op.UserID, ItemID: op.ItemID, Qty: op.Amount, UpdatedAt: now}
		err := db.Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"qty":        gorm.Expr("user_items.qty + ?", op.Amount),
					"updated_at": now,
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "qty"}}},
		).Create(&row).Error
		if err != nil {
			return err
		}
		res = ports.LedgerResult{ItemID: op.ItemID, Qty: row.Qty}
		return l.log(db, op, op.Amount, row.Qty, now)
	})
	if err != nil {
		return ports.LedgerResult{}, apperr.Or(err, apperr.CodeItemGrantFailed)
	}
	return res, nil
}

// RemoveItem decrements only when the balance covers the amount, so the
// stored quantity never goes negative.
func (l ItemLedger) RemoveItem(ctx context.Context, op ports.LedgerOp) (ports.LedgerResult, error) {
	if op.Amount <= 0 || op.ItemID <= 0 {
		return ports.LedgerResult{}, apperr.New(apperr.CodeItemInsufficient).WithNeedItem(op.ItemID)
	}
	var res ports.LedgerResult
	err := l.tx.RunInTx(ctx, func(txCtx context.Context) error {
		db := getDBFromCtx(txCtx, l.db)
		now := l.now()
		var row model.UserItem
		upd := db.Model(&row).
			Clauses(clause.Returning{Columns: []clause.Column{{Name: "qty"}}}).
			Where("user_id = ? AND item_id = ? AND qty >= ?", op.UserID, op.ItemID, op.Amount).
			Updates(map[string]any{
				"qty":        gorm.Expr("qty - ?", op.Amount),
				"updated_at": now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return apperr.New(apperr.CodeItemInsufficient).WithNeedItem(op.ItemID)
		}
		res = ports.LedgerResult{ItemID: op.ItemID, Qty: row.Qty}
		return l.log(db, op, -op.Amount, row.Qty, now)
	})
	if err != nil {
		return ports.LedgerResult{}, err
	}
	return res, nil
}

func (l ItemLedger) log(db *gorm.DB, op ports.LedgerOp, delta, after int64, at time.Time) error {
	return db.Create(&model.ItemLog{
		ActionType: string(op.Action),
		UserID:     op.UserID,
		UID:        op.UID,
		ItemID:     op.ItemID,
		Delta:      delta,
		QtyAfter:   after,
		Source:     int32(op.Source),
		Memo:       op.Memo,
		CreatedAt:  at,
	}).Error
}

func (l ItemLedger) Balances(ctx context.Context, userID int64, itemIDs []int64) (map[int64]int64, error) {
	return l.balances(getDBFromCtx(ctx, l.db), userID, itemIDs)
}

// LockBalances reads the rows FOR UPDATE; it only holds the locks when ctx
// carries a transaction.
func (l ItemLedger) LockBalances(ctx context.Context, userID int64, itemIDs []int64) (map[int64]int64, error) {
	return l.balances(getDBFromCtx(ctx, l.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID, itemIDs)
}

func (l ItemLedger) balances(db *gorm.DB, userID int64, itemIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var rows []model.UserItem
	if err := db.Where("user_id = ? AND item_id IN ?", userID, itemIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ItemID] = r.Qty
	}
	return out, nil
}

func (l ItemLedger) ListBalances(ctx context.Context, userID int64) ([]item.Balance, error) {
	var rows []model.UserItem
	err := getDBFromCtx(ctx, l.db).
		Where("user_id = ? AND qty > 0", userID).
		Order("item_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]item.Balance, 0, len(rows))
	for _, r := range rows {
		out = append(out, item.Balance{ItemID: r.ItemID, Qty: r.Qty})
	}
	return out, nil
}
