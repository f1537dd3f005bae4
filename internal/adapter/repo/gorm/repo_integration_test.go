package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"

	"surgame/db/migrations"
	"surgame/internal/adapter/repo/gorm/model"
	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"

	"gorm.io/gorm"
)

const (
	itUserID = 990001
	itUID    = 880001
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("SURGAME_DB_DSN")
	if dsn == "" {
		t.Skip("SURGAME_DB_DSN is required for integration test")
	}
	db, err := OpenPostgres(dsn, PoolConfig{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cleanup := func() {
		_ = db.Exec("DELETE FROM user_items WHERE user_id = ?", itUserID).Error
		_ = db.Exec("DELETE FROM item_logs WHERE user_id = ?", itUserID).Error
		for _, table := range []string{"user_journey_progress", "user_journey_rewards", "user_star_challenges", "user_star_rewards", "user_stamina", "stamina_logs"} {
			_ = db.Exec("DELETE FROM "+table+" WHERE uid = ?", itUID).Error
		}
	}
	cleanup()
	t.Cleanup(cleanup)
	return db
}

func ledgerOp(itemID, amount int64) ports.LedgerOp {
	return ports.LedgerOp{Action: ports.ActionSystem, UserID: itUserID, UID: itUID, ItemID: itemID, Amount: amount, Memo: "integration"}
}

func TestItemLedger_AddRemoveAndLog(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	ledger := NewItemLedger(db)

	if _, err := ledger.AddItem(ctx, ledgerOp(11, 2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	res, err := ledger.AddItem(ctx, ledgerOp(11, 3))
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if res.Qty != 5 {
		t.Fatalf("qty mismatch after add: got=%d want=5", res.Qty)
	}
	res, err = ledger.RemoveItem(ctx, ledgerOp(11, 4))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if res.Qty != 1 {
		t.Fatalf("qty mismatch after remove: got=%d want=1", res.Qty)
	}

	_, err = ledger.RemoveItem(ctx, ledgerOp(11, 2))
	var coded *apperr.Error
	if !errors.As(err, &coded) || coded.Code != apperr.CodeItemInsufficient || coded.NeedItemID != 11 {
		t.Fatalf("expected insufficient error naming item 11, got %v", err)
	}
	balances, err := ledger.Balances(ctx, itUserID, []int64{11, 12})
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if balances[11] != 1 {
		t.Fatalf("failed removal changed balance: got=%d", balances[11])
	}
	if _, ok := balances[12]; ok {
		t.Fatalf("unexpected balance for item 12")
	}

	var logs int64
	if err := db.Model(&model.ItemLog{}).Where("user_id = ?", itUserID).Count(&logs).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs != 3 {
		t.Fatalf("log count mismatch: got=%d want=3", logs)
	}
}

func TestTxManager_RollsBackAndJoins(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	ledger := NewItemLedger(db)
	tx := NewTxManager(db)
	boom := errors.New("boom")

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := ledger.AddItem(txCtx, ledgerOp(21, 5)); err != nil {
			return err
		}
		return tx.RunInTx(txCtx, func(inner context.Context) error {
			if _, err := ledger.AddItem(inner, ledgerOp(22, 1)); err != nil {
				return err
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	balances, err := ledger.Balances(ctx, itUserID, []int64{21, 22})
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if len(balances) != 0 {
		t.Fatalf("rollback left balances behind: %v", balances)
	}
}

func TestProgressAndClaimRepos(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	progress := NewProgressRepo(db)
	claims := NewClaimRepo(db)

	if _, err := progress.Get(ctx, itUID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	want := journey.Progress{UID: itUID, CurrentJourneyID: 101, CurrentWave: 4, TotalStars: 9}
	if err := progress.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	want.CurrentWave = 2
	if err := progress.Save(ctx, want); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := progress.Get(ctx, itUID)
	if err != nil || got != want {
		t.Fatalf("progress mismatch: got=%+v want=%+v err=%v", got, want, err)
	}

	for i := 0; i < 2; i++ {
		if err := claims.MarkReceived(ctx, itUID, 11); err != nil {
			t.Fatalf("mark received: %v", err)
		}
	}
	if err := db.Exec("INSERT INTO user_journey_rewards (uid, reward_id, is_received) VALUES (?, ?, 0)", itUID, 12).Error; err != nil {
		t.Fatalf("seed pending claim: %v", err)
	}
	got2, err := claims.ListByRewardIDs(ctx, itUID, []int64{11, 12, 13})
	if err != nil {
		t.Fatalf("list claims: %v", err)
	}
	if !got2[11].IsReceived || got2[12].IsReceived || len(got2) != 2 {
		t.Fatalf("claims mismatch: %+v", got2)
	}

	if err := progress.Delete(ctx, itUID); err != nil {
		t.Fatalf("delete progress: %v", err)
	}
	if err := claims.DeleteByUID(ctx, itUID); err != nil {
		t.Fatalf("delete claims: %v", err)
	}
	if left, _ := claims.ListByRewardIDs(ctx, itUID, []int64{11, 12}); len(left) != 0 {
		t.Fatalf("claims left after reset: %+v", left)
	}
}

func TestChallengeRepo_StarsAndClaims(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := NewChallengeRepo(db)

	if err := repo.Save(ctx, challenge.Record{UID: itUID, ChapterID: 101, Stars: []int{3, 1, 2}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, err := repo.GetForUpdate(ctx, itUID, 101)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Total() != 6 || len(rec.Stars) != 3 {
		t.Fatalf("record mismatch: %+v", rec)
	}

	if err := repo.CreateClaim(ctx, itUID, 1); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := repo.CreateClaim(ctx, itUID, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	claimed, err := repo.ClaimedRewards(ctx, itUID)
	if err != nil || !claimed[1] {
		t.Fatalf("claimed mismatch: %v err=%v", claimed, err)
	}
}

func TestStaminaLedger_SeedsAndDeducts(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	ledger := NewStaminaLedger(db)
	ledger.Max = 12

	left, err := ledger.Deduct(ctx, itUID, 5, "entry")
	if err != nil || left != 7 {
		t.Fatalf("first deduct: left=%d err=%v", left, err)
	}
	if _, err := ledger.Deduct(ctx, itUID, 8, "entry"); !apperr.HasCode(err, apperr.CodeStaminaInsufficient) {
		t.Fatalf("expected %s, got %v", apperr.CodeStaminaInsufficient, err)
	}
	cur, err := ledger.Current(ctx, itUID)
	if err != nil || cur != 7 {
		t.Fatalf("current mismatch: got=%d err=%v", cur, err)
	}
}
