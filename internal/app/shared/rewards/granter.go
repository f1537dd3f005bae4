// Package rewards hands out item payloads through the item ledger.
package rewards

import (
	"context"
	"errors"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
)

type Granter struct {
	Users  ports.UserRepository
	Ledger ports.ItemLedger
}

// Grant resolves uid to a user and adds every positive amount as a system
// grant. It joins the transaction carried by ctx and returns what was added.
func (g Granter) Grant(ctx context.Context, uid int64, amounts []item.Amount, memo string) ([]item.Amount, error) {
	user, err := g.Users.GetByUID(ctx, uid)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, apperr.New(apperr.CodeUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	granted := make([]item.Amount, 0, len(amounts))
	for _, a := range amounts {
		if a.ItemID <= 0 || a.Amount <= 0 {
			continue
		}
		if _, err := g.Ledger.AddItem(ctx, systemOp(user, a, memo)); err != nil {
			return nil, apperr.Or(err, apperr.CodeItemGrantFailed)
		}
		granted = append(granted, a)
	}
	return granted, nil
}

// GrantDrops adds stage drops for an already resolved user. Any ledger
// failure is reported as UserItem:0002.
func (g Granter) GrantDrops(ctx context.Context, user ports.User, amounts []item.Amount, memo string) error {
	for _, a := range amounts {
		if _, err := g.Ledger.AddItem(ctx, systemOp(user, a, memo)); err != nil {
			return apperr.Wrap(apperr.CodeItemGrantFailed, err)
		}
	}
	return nil
}

func systemOp(user ports.User, a item.Amount, memo string) ports.LedgerOp {
	return ports.LedgerOp{
		Action: ports.ActionSystem,
		UserID: user.ID,
		UID:    user.UID,
		ItemID: a.ItemID,
		Amount: a.Amount,
		Source: 1,
		Memo:   memo,
	}
}
