package inventory

import (
	"context"
	"errors"

	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
)

const categoryEquipment = "Equipment"

var ErrInvalidRequest = errors.New("invalid inventory request")

type UseCase struct {
	Ledger ports.ItemLedger
	Metas  ports.ItemMetaRepository
}

// ListPackage splits the user's non-equipment balances into whole items and
// shards. An item is a shard when more than one copy is needed to use it.
func (u UseCase) ListPackage(ctx context.Context, req Request) (Response, error) {
	if req.User.ID == 0 {
		return Response{}, ErrInvalidRequest
	}
	balances, err := u.Ledger.ListBalances(ctx, req.User.ID)
	if err != nil {
		return Response{}, err
	}
	ids := make([]int64, 0, len(balances))
	for _, b := range balances {
		ids = append(ids, b.ItemID)
	}
	metas, err := u.Metas.GetMany(ctx, item.UniqueIDs(ids))
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Items:      Items{Item: []Entry{}, Shard: []Entry{}},
		Equipments: []any{},
		Runes:      map[string]any{},
	}
	for _, b := range balances {
		meta := metas[b.ItemID]
		if meta.Category == categoryEquipment {
			continue
		}
		e := Entry{ItemID: b.ItemID, ManagerID: meta.ManagerID, Qty: b.Qty}
		if meta.UseNecessary > 1 {
			resp.Items.Shard = append(resp.Items.Shard, e)
			continue
		}
		resp.Items.Item = append(resp.Items.Item, e)
	}
	return resp, nil
}
