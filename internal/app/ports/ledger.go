package ports

import (
	"context"

	"surgame/internal/domain/item"
)

type LedgerAction string

const (
	ActionObtain LedgerAction = "90"
	ActionFuse   LedgerAction = "91"
	ActionRefund LedgerAction = "92"
	ActionSystem LedgerAction = "system"
)

type LedgerOp struct {
	Action LedgerAction
	UserID int64
	UID    int64
	ItemID int64
	Amount int64
	Source int
	Memo   string
}

type LedgerResult struct {
	ItemID int64
	Qty    int64
}

// ItemLedger is the only writer of user item balances. AddItem and RemoveItem
// are atomic per call, join the transaction carried by ctx, and fail with a
// coded error (UserItem:0001 when a removal would go negative).
type ItemLedger interface {
	AddItem(ctx context.Context, op LedgerOp) (LedgerResult, error)
	RemoveItem(ctx context.Context, op LedgerOp) (LedgerResult, error)
	Balances(ctx context.Context, userID int64, itemIDs []int64) (map[int64]int64, error)
	LockBalances(ctx context.Context, userID int64, itemIDs []int64) (map[int64]int64, error)
	ListBalances(ctx context.Context, userID int64) ([]item.Balance, error)
}
