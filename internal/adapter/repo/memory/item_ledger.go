package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
	"surgame/internal/domain/treasure"
)

type ItemLedger struct {
	store *Store
	now   func() time.Time
}

func NewItemLedger(store *Store) ItemLedger {
	return ItemLedger{store: store, now: time.Now}
}

func (l ItemLedger) AddItem(ctx context.Context, op ports.LedgerOp) (ports.LedgerResult, error) {
	if op.Amount <= 0 || op.ItemID <= 0 {
		return ports.LedgerResult{}, apperr.Wrap(apperr.CodeItemGrantFailed, fmt.Errorf("invalid add of %d x %d", op.Amount, op.ItemID))
	}
	var res ports.LedgerResult
	err := l.store.write(ctx, func() error {
		res = l.apply(op, op.Amount)
		return nil
	})
	return res, err
}

func (l ItemLedger) RemoveItem(ctx context.Context, op ports.LedgerOp) (ports.LedgerResult, error) {
	if op.Amount <= 0 || op.ItemID <= 0 {
		return ports.LedgerResult{}, apperr.New(apperr.CodeItemInsufficient).WithNeedItem(op.ItemID)
	}
	var res ports.LedgerResult
	err := l.store.write(ctx, func() error {
		if l.store.balances[balanceKey{userID: op.UserID, itemID: op.ItemID}] < op.Amount {
			return apperr.New(apperr.CodeItemInsufficient).WithNeedItem(op.ItemID)
		}
		res = l.apply(op, -op.Amount)
		return nil
	})
	return res, err
}

func (l ItemLedger) apply(op ports.LedgerOp, delta int64) ports.LedgerResult {
	k := balanceKey{userID: op.UserID, itemID: op.ItemID}
	l.store.balances[k] += delta
	l.store.itemLogs = append(l.store.itemLogs, ItemLog{
		Action:    op.Action,
		UserID:    op.UserID,
		UID:       op.UID,
		ItemID:    op.ItemID,
		Delta:     delta,
		Memo:      op.Memo,
		CreatedAt: l.now(),
	})
	return ports.LedgerResult{ItemID: op.ItemID, Qty: l.store.balances[k]}
}

func (l ItemLedger) Balances(ctx context.Context, userID int64, itemIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(itemIDs))
	l.store.read(ctx, func() {
		for _, id := range itemIDs {
			if qty, ok := l.store.balances[balanceKey{userID: userID, itemID: id}]; ok {
				out[id] = qty
			}
		}
	})
	return out, nil
}

// LockBalances is Balances; the transaction already holds the store lock.
func (l ItemLedger) LockBalances(ctx context.Context, userID int64, itemIDs []int64) (map[int64]int64, error) {
	return l.Balances(ctx, userID, itemIDs)
}

func (l ItemLedger) ListBalances(ctx context.Context, userID int64) ([]item.Balance, error) {
	var out []item.Balance
	l.store.read(ctx, func() {
		for k, qty := range l.store.balances {
			if k.userID == userID && qty > 0 {
				out = append(out, item.Balance{ItemID: k.itemID, Qty: qty})
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

type ItemMetaRepo struct {
	store *Store
}

func NewItemMetaRepo(store *Store) ItemMetaRepo {
	return ItemMetaRepo{store: store}
}

func (r ItemMetaRepo) GetMany(ctx context.Context, itemIDs []int64) (map[int64]treasure.ItemMeta, error) {
	out := make(map[int64]treasure.ItemMeta, len(itemIDs))
	r.store.read(ctx, func() {
		for _, id := range itemIDs {
			if m, ok := r.store.metas[id]; ok {
				out[id] = m
			}
		}
	})
	return out, nil
}

type UserRepo struct {
	store *Store
}

func NewUserRepo(store *Store) UserRepo {
	return UserRepo{store: store}
}

func (r UserRepo) GetByUID(ctx context.Context, uid int64) (ports.User, error) {
	var (
		user ports.User
		ok   bool
	)
	r.store.read(ctx, func() {
		user, ok = r.store.users[uid]
	})
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return user, nil
}
