package treasure

import (
	"context"
	"errors"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/app/shared/telemetry"
	"surgame/internal/domain/item"
	domain "surgame/internal/domain/treasure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	autoFuseAttempts = 3

	DefaultGoldItemID = 100
	DefaultGoldAmount = 1000

	memoFuse          = "treasure fuse"
	memoReset         = "treasure reset refund"
	memoAutoFuseSpend = "treasure auto fuse consume"
	memoAutoFuseGain  = "treasure auto fuse obtain"
	memoObtain        = "treasure obtain"
)

var errInvalidUser = errors.New("treasure: user is required")

var tracer = otel.Tracer("surgame/internal/app/treasure")

// UseCase runs treasure fusion, refund and auto fusion against the item
// ledger.
type UseCase struct {
	TxManager ports.TxManager
	Ledger    ports.ItemLedger
	Catalogs  ports.Catalogs
	Metas     ports.ItemMetaRepository
	Metrics   ports.OperationMetrics
	Logger    *zap.Logger

	// GoldItemID and GoldAmount are the balance a reset requires.
	GoldItemID int64
	GoldAmount int64
	// KeyedDowngrade resolves reset targets within the same element and hero
	// instead of by quality level alone.
	KeyedDowngrade bool
}

func (u UseCase) Fuse(ctx context.Context, req FuseRequest) (resp FuseResponse, err error) {
	ctx, span := tracer.Start(ctx, "treasure.Fuse", trace.WithAttributes(attribute.Int64("uid", req.User.UID)))
	defer func() { telemetry.Finish(span, u.Metrics, "fuse", err) }()

	if req.User.ID == 0 {
		return FuseResponse{}, errInvalidUser
	}
	catalog := u.Catalogs.Treasures()
	all := append([]int64{req.MainMaterialID}, req.MaterialIDs...)

	metas, err := u.Metas.GetMany(ctx, item.UniqueIDs(all))
	if err != nil {
		return FuseResponse{}, err
	}
	if req.MainMaterialID <= 0 || !catalog.IsTreasure(all, metas) {
		return FuseResponse{}, apperr.New(apperr.CodeTreasureNotTreasure)
	}
	if invalid := catalog.CheckInvalidItems(req.MainMaterialID, metas[req.MainMaterialID].Rarity, req.MaterialIDs); len(invalid) > 0 {
		return FuseResponse{}, apperr.New(apperr.CodeTreasureInvalidMaterial).WithItem(invalid[0])
	}
	if !catalog.ValidateMaterialCount(req.MainMaterialID, req.MaterialIDs) {
		return FuseResponse{}, apperr.New(apperr.CodeTreasureMaterialCount)
	}
	if err := u.requireAmounts(ctx, req.User.ID, item.Group(all)); err != nil {
		return FuseResponse{}, err
	}
	target, ok := catalog.UpgradeItemID(req.MainMaterialID)
	if !ok {
		return FuseResponse{}, apperr.New(apperr.CodeTreasureNoUpgrade)
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.fuse(txCtx, req.User, target, all)
	})
	if err != nil {
		return FuseResponse{}, err
	}

	touched := item.UniqueIDs(append([]int64{target, req.MainMaterialID}, req.MaterialIDs...))
	balances, err := u.Ledger.Balances(ctx, req.User.ID, touched)
	if err != nil {
		return FuseResponse{}, err
	}
	items := make([]item.Balance, 0, len(touched))
	for _, id := range touched {
		items = append(items, item.Balance{ItemID: id, Qty: balances[id]})
	}
	return FuseResponse{Success: true, Items: items}, nil
}

// fuse removes one unit of every material id, then grants one target. It
// must run inside a transaction.
func (u UseCase) fuse(ctx context.Context, user ports.User, target int64, materialIDs []int64) error {
	for _, id := range materialIDs {
		if _, err := u.Ledger.RemoveItem(ctx, u.op(user, ports.ActionFuse, id, 1, memoFuse)); err != nil {
			return err
		}
	}
	_, err := u.Ledger.AddItem(ctx, u.op(user, ports.ActionFuse, target, 1, memoFuse))
	return err
}

func (u UseCase) Reset(ctx context.Context, req ResetRequest) (resp ResetResponse, err error) {
	ctx, span := tracer.Start(ctx, "treasure.Reset", trace.WithAttributes(attribute.Int64("item_id", req.ItemID)))
	defer func() { telemetry.Finish(span, u.Metrics, "reset", err) }()

	if req.User.ID == 0 {
		return ResetResponse{}, errInvalidUser
	}
	if req.ItemID <= 0 {
		return ResetResponse{}, apperr.New(apperr.CodeTreasureNotTreasure)
	}
	goldID, goldAmount := u.goldCost()
	if err := u.requireAmounts(ctx, req.User.ID, []item.Amount{
		{ItemID: req.ItemID, Amount: 1},
		{ItemID: goldID, Amount: goldAmount},
	}); err != nil {
		return ResetResponse{}, err
	}

	catalog := u.Catalogs.Treasures()
	downgrade, ok := u.downgrade(catalog, req.ItemID)
	if !ok {
		return ResetResponse{}, apperr.New(apperr.CodeTreasureNoDowngrade)
	}
	refundID, ok := catalog.RefundItemID(downgrade)
	if !ok {
		return ResetResponse{}, apperr.New(apperr.CodeTreasureNoRefund)
	}
	var refundCount int64 = 1
	if catalog.NeedTwoMaterial(downgrade) {
		refundCount = 2
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := u.Ledger.RemoveItem(txCtx, u.op(req.User, ports.ActionRefund, req.ItemID, 1, memoReset)); err != nil {
			return err
		}
		for i := int64(0); i < refundCount; i++ {
			if _, err := u.Ledger.AddItem(txCtx, u.op(req.User, ports.ActionRefund, refundID, 1, memoReset)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ResetResponse{}, err
	}
	return ResetResponse{Success: true, RefundItemID: refundID, RefundAmount: refundCount}, nil
}

func (u UseCase) downgrade(catalog *domain.Catalog, itemID int64) (int64, bool) {
	if u.KeyedDowngrade {
		return catalog.DowngradeItemIDKeyed(itemID)
	}
	return catalog.DowngradeItemID(itemID)
}

// AutoFuse fuses every low tier treasure the user holds enough copies of.
// The sweep is one transaction, retried on transient storage failures.
func (u UseCase) AutoFuse(ctx context.Context, req AutoFuseRequest) (resp AutoFuseResponse, err error) {
	ctx, span := tracer.Start(ctx, "treasure.AutoFuse", trace.WithAttributes(attribute.Int64("uid", req.User.UID)))
	defer func() { telemetry.Finish(span, u.Metrics, "auto_fuse", err) }()

	if req.User.ID == 0 {
		return AutoFuseResponse{}, errInvalidUser
	}
	catalog := u.Catalogs.Treasures()
	candidates := catalog.AutoFuseCandidates()
	if len(candidates) == 0 {
		return unavailable(), nil
	}

	for attempt := 1; ; attempt++ {
		resp, err = u.autoFuseOnce(ctx, req.User, catalog, candidates)
		if err == nil || !errors.Is(err, ports.ErrTransient) || attempt >= autoFuseAttempts {
			break
		}
		if u.Metrics != nil {
			u.Metrics.RecordRetry("auto_fuse")
		}
		telemetry.Logger(u.Logger).Warn("auto fuse retry", zap.Int64("uid", req.User.UID), zap.Int("attempt", attempt), zap.Error(err))
	}
	if err != nil {
		return AutoFuseResponse{}, apperr.Or(err, apperr.CodeTreasureAutoFuseFailed)
	}
	return resp, nil
}

func (u UseCase) autoFuseOnce(ctx context.Context, user ports.User, catalog *domain.Catalog, candidates []int64) (AutoFuseResponse, error) {
	resp := unavailable()
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		balances, err := u.Ledger.LockBalances(txCtx, user.ID, candidates)
		if err != nil {
			return err
		}
		plan := catalog.PlanAutoFuse(balances)
		if plan.Empty() {
			return nil
		}
		for _, id := range item.SortedKeys(plan.Consumed) {
			if _, err := u.Ledger.RemoveItem(txCtx, u.op(user, ports.ActionFuse, id, plan.Consumed[id], memoAutoFuseSpend)); err != nil {
				return err
			}
		}
		for _, id := range item.SortedKeys(plan.Obtained) {
			if _, err := u.Ledger.AddItem(txCtx, u.op(user, ports.ActionFuse, id, plan.Obtained[id], memoAutoFuseGain)); err != nil {
				return err
			}
		}
		resp = AutoFuseResponse{
			Available: true,
			Details:   plan.Details,
			Consumed:  plan.Consumed,
			Obtained:  plan.Obtained,
		}
		return nil
	})
	if err != nil {
		return AutoFuseResponse{}, err
	}
	return resp, nil
}

func unavailable() AutoFuseResponse {
	msg := "auto fuse is not available"
	return AutoFuseResponse{
		Message:  &msg,
		Details:  []domain.FuseDetail{},
		Consumed: map[int64]int64{},
		Obtained: map[int64]int64{},
	}
}

// Obtain grants one copy of a treasure or core item.
func (u UseCase) Obtain(ctx context.Context, req ObtainRequest) (resp ObtainResponse, err error) {
	ctx, span := tracer.Start(ctx, "treasure.Obtain", trace.WithAttributes(attribute.Int64("item_id", req.ItemID)))
	defer func() { telemetry.Finish(span, u.Metrics, "obtain", err) }()

	if req.User.ID == 0 {
		return ObtainResponse{}, errInvalidUser
	}
	if req.ItemID <= 0 {
		return ObtainResponse{}, apperr.New(apperr.CodeEquipmentNotTreasure)
	}
	catalog := u.Catalogs.Treasures()
	metas, err := u.Metas.GetMany(ctx, []int64{req.ItemID})
	if err != nil {
		return ObtainResponse{}, err
	}
	if !catalog.IsTreasure([]int64{req.ItemID}, metas) {
		return ObtainResponse{}, apperr.New(apperr.CodeEquipmentNotTreasure)
	}
	var res ports.LedgerResult
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		res, err = u.Ledger.AddItem(txCtx, u.op(req.User, ports.ActionObtain, req.ItemID, 1, memoObtain))
		return err
	})
	if err != nil {
		return ObtainResponse{}, err
	}
	resp = ObtainResponse{Qty: res.Qty}
	if entry, ok := catalog.Entry(req.ItemID); ok {
		resp.Entry = &entry
	}
	return resp, nil
}

// requireAmounts checks balances up front so the caller learns which item is
// short before anything is written.
func (u UseCase) requireAmounts(ctx context.Context, userID int64, need []item.Amount) error {
	ids := make([]int64, 0, len(need))
	for _, n := range need {
		ids = append(ids, n.ItemID)
	}
	balances, err := u.Ledger.Balances(ctx, userID, ids)
	if err != nil {
		return err
	}
	for _, n := range need {
		if balances[n.ItemID] < n.Amount {
			return apperr.New(apperr.CodeItemInsufficient).WithNeedItem(n.ItemID)
		}
	}
	return nil
}

func (u UseCase) goldCost() (int64, int64) {
	id, amount := u.GoldItemID, u.GoldAmount
	if id == 0 {
		id = DefaultGoldItemID
	}
	if amount == 0 {
		amount = DefaultGoldAmount
	}
	return id, amount
}

func (u UseCase) op(user ports.User, action ports.LedgerAction, itemID, amount int64, memo string) ports.LedgerOp {
	return ports.LedgerOp{
		Action: action,
		UserID: user.ID,
		UID:    user.UID,
		ItemID: itemID,
		Amount: amount,
		Source: 1,
		Memo:   memo,
	}
}
