package challenge

import (
	"context"
	"reflect"
	"testing"

	"surgame/internal/adapter/catalog"
	"surgame/internal/adapter/repo/memory"
	"surgame/internal/app/apperr"
	journeyapp "surgame/internal/app/journey"
	"surgame/internal/app/ports"
	domain "surgame/internal/domain/challenge"
	"surgame/internal/domain/item"
	"surgame/internal/domain/journey"
)

var player = ports.User{ID: 3, UID: 3003}

type fixture struct {
	store   *memory.Store
	ledger  memory.ItemLedger
	journey journeyapp.UseCase
	uc      UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedUser(player)
	holder := catalog.NewHolder(catalog.Snapshot{
		Chapters: []journey.Chapter{{ID: 1, UniqueID: 101}, {ID: 2, UniqueID: 102}},
		StarRewards: []domain.RewardDefinition{
			{UniqueID: 2, RequiredStars: 6, Rewards: "50:1"},
			{UniqueID: 1, RequiredStars: 3, Rewards: `[{"item_id":40,"amount":2}]`},
		},
	})
	tx := memory.NewTxManager(store)
	ledger := memory.NewItemLedger(store)
	users := memory.NewUserRepo(store)
	journeys := journeyapp.UseCase{
		TxManager: tx,
		Progress:  memory.NewProgressRepo(store),
		Claims:    memory.NewClaimRepo(store),
		Users:     users,
		Ledger:    ledger,
		Catalogs:  holder,
	}
	return &fixture{
		store:   store,
		ledger:  ledger,
		journey: journeys,
		uc: UseCase{
			TxManager: tx,
			Records:   memory.NewChallengeRepo(store),
			Stars:     journeys,
			Users:     users,
			Ledger:    ledger,
			Catalogs:  holder,
		},
	}
}

func mustUpdate(t *testing.T, f *fixture, req UpdateRequest) UpdateResponse {
	t.Helper()
	resp, err := f.uc.Update(context.Background(), req)
	if err != nil {
		t.Fatalf("update chapter %d: %v", req.ChapterID, err)
	}
	return resp
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperr.HasCode(err, code) {
		t.Fatalf("error code mismatch: got=%v want=%s", err, code)
	}
}

func (f *fixture) balance(t *testing.T, itemID int64) int64 {
	t.Helper()
	got, err := f.ledger.Balances(context.Background(), player.ID, []int64{itemID})
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	return got[itemID]
}

func TestUpdate_KeepsBestStarsAndSyncsTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustUpdate(t, f, UpdateRequest{User: player, ChapterID: 101, EarnedStars: []int{3, 1}})
	mustUpdate(t, f, UpdateRequest{User: player, ChapterID: 2, EarnedStars: []int{2}})
	resp := mustUpdate(t, f, UpdateRequest{
		User:        player,
		ChapterID:   101,
		EarnedStars: []int{1, 9, 2},
		Drops:       []item.Amount{{ItemID: 60, Amount: 4}},
	})

	if want := (ChapterStars{ChapterID: 101, Stars: []int{3, 3, 2}, Total: 8}); !reflect.DeepEqual(resp.ChapterStars, want) {
		t.Fatalf("chapter stars mismatch: got=%+v want=%+v", resp.ChapterStars, want)
	}
	if resp.TotalStars != 10 {
		t.Fatalf("total stars mismatch: got=%d want=10", resp.TotalStars)
	}
	if want := []item.Amount{{ItemID: 60, Amount: 4}}; !reflect.DeepEqual(resp.Rewards, want) {
		t.Fatalf("rewards mismatch: got=%v want=%v", resp.Rewards, want)
	}

	stars, err := f.journey.TotalStars(ctx, player.UID)
	if err != nil {
		t.Fatalf("journey total stars: %v", err)
	}
	if stars != 10 {
		t.Fatalf("synced stars mismatch: got=%d want=10", stars)
	}
	if got := f.balance(t, 60); got != 4 {
		t.Fatalf("drop balance mismatch: got=%d want=4", got)
	}

	progress, err := f.uc.Progress(ctx, player.UID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress.TotalStars != 10 {
		t.Fatalf("progress total mismatch: got=%d want=10", progress.TotalStars)
	}
	if len(progress.Chapters) != 2 || progress.Chapters[1].ChapterID != 102 {
		t.Fatalf("chapters mismatch: got=%+v", progress.Chapters)
	}
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, UpdateRequest{User: player, ChapterID: 0, EarnedStars: []int{1}})
	wantCode(t, err, apperr.CodeChallengeInvalidChapter)
	_, err = f.uc.Update(ctx, UpdateRequest{User: player, ChapterID: 777, EarnedStars: []int{1}})
	wantCode(t, err, apperr.CodeChallengeInvalidChapter)
	_, err = f.uc.Update(ctx, UpdateRequest{User: player, ChapterID: 101})
	wantCode(t, err, apperr.CodeChallengeNoStars)
}

func TestClaimReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mustUpdate(t, f, UpdateRequest{User: player, ChapterID: 101, EarnedStars: []int{3, 1}})

	list, err := f.uc.Rewards(ctx, player.UID)
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	if len(list.Rewards) != 2 {
		t.Fatalf("rewards mismatch: got=%d want=2", len(list.Rewards))
	}
	if list.Rewards[0].RewardID != 1 || !list.Rewards[0].CanClaim {
		t.Fatalf("first reward mismatch: got=%+v", list.Rewards[0])
	}
	if list.Rewards[1].IsUnlocked {
		t.Fatalf("second reward unlocked early: got=%+v", list.Rewards[1])
	}

	resp, err := f.uc.ClaimReward(ctx, ClaimRequest{UID: player.UID, RewardID: 1})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if want := []item.Amount{{ItemID: 40, Amount: 2}}; !reflect.DeepEqual(resp.Rewards, want) {
		t.Fatalf("rewards mismatch: got=%v want=%v", resp.Rewards, want)
	}

	_, err = f.uc.ClaimReward(ctx, ClaimRequest{UID: player.UID, RewardID: 1})
	wantCode(t, err, apperr.CodeStarRewardClaimed)
	_, err = f.uc.ClaimReward(ctx, ClaimRequest{UID: player.UID, RewardID: 2})
	wantCode(t, err, apperr.CodeStarRewardLocked)
	_, err = f.uc.ClaimReward(ctx, ClaimRequest{UID: player.UID, RewardID: 99})
	wantCode(t, err, apperr.CodeStarRewardNotFound)
	_, err = f.uc.ClaimReward(ctx, ClaimRequest{UID: player.UID, RewardID: -1})
	wantCode(t, err, apperr.CodeStarRewardInvalidID)

	if got := f.balance(t, 40); got != 2 {
		t.Fatalf("reward balance mismatch: got=%d want=2", got)
	}

	list, err = f.uc.Rewards(ctx, player.UID)
	if err != nil {
		t.Fatalf("rewards after claim: %v", err)
	}
	if !list.Rewards[0].IsClaimed || list.Rewards[0].CanClaim {
		t.Fatalf("claimed reward flags mismatch: got=%+v", list.Rewards[0])
	}
}

func TestClaimReward_UnknownUserLeavesNoClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ghost := ports.User{ID: 0, UID: 404}
	mustUpdate(t, f, UpdateRequest{User: ghost, ChapterID: 101, EarnedStars: []int{3}})

	_, err := f.uc.ClaimReward(ctx, ClaimRequest{UID: ghost.UID, RewardID: 1})
	wantCode(t, err, apperr.CodeUserNotFound)

	list, err := f.uc.Rewards(ctx, ghost.UID)
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	if list.Rewards[0].IsClaimed {
		t.Fatalf("claim survived rollback: got=%+v", list.Rewards[0])
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mustUpdate(t, f, UpdateRequest{User: player, ChapterID: 101, EarnedStars: []int{3}})
	if _, err := f.uc.ClaimReward(ctx, ClaimRequest{UID: player.UID, RewardID: 1}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if err := f.uc.Reset(ctx, player.UID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	progress, err := f.uc.Progress(ctx, player.UID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(progress.Chapters) != 0 {
		t.Fatalf("chapters survived reset: got=%+v", progress.Chapters)
	}
	list, err := f.uc.Rewards(ctx, player.UID)
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	if list.Rewards[0].IsClaimed {
		t.Fatalf("claim survived reset: got=%+v", list.Rewards[0])
	}
	stars, err := f.journey.TotalStars(ctx, player.UID)
	if err != nil {
		t.Fatalf("total stars: %v", err)
	}
	if stars != 0 {
		t.Fatalf("stars mismatch: got=%d want=0", stars)
	}
}
