package journey

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"surgame/internal/adapter/catalog"
	"surgame/internal/adapter/repo/memory"
	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
	domain "surgame/internal/domain/journey"
)

var player = ports.User{ID: 7, UID: 7007}

type fixture struct {
	store  *memory.Store
	ledger memory.ItemLedger
	claims memory.ClaimRepo
	uc     UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedUser(player)
	holder := catalog.NewHolder(catalog.Snapshot{
		Chapters: []domain.Chapter{{ID: 1, UniqueID: 101}, {ID: 2, UniqueID: 102}},
		ChapterRewards: []domain.RewardDefinition{
			{ID: 12, JourneyID: 1, Wave: 5, Rewards: `[{"item_id":10,"amount":1},{"item_id":20,"amount":3}]`},
			{ID: 11, JourneyID: 1, Wave: 1, Rewards: "10:2"},
			{ID: 13, JourneyID: 1, Wave: 9, Rewards: "30:1"},
			{ID: 21, JourneyID: 2, Wave: 1, Rewards: "10:5"},
		},
	})
	ledger := memory.NewItemLedger(store)
	claims := memory.NewClaimRepo(store)
	return &fixture{
		store:  store,
		ledger: ledger,
		claims: claims,
		uc: UseCase{
			TxManager: memory.NewTxManager(store),
			Progress:  memory.NewProgressRepo(store),
			Claims:    claims,
			Users:     memory.NewUserRepo(store),
			Ledger:    ledger,
			Catalogs:  holder,
		},
	}
}

func (f *fixture) at(t *testing.T, chapterID int64, wave int) {
	t.Helper()
	_, err := f.uc.UpdateProgress(context.Background(), UpdateProgressRequest{UID: player.UID, ChapterID: chapterID, Wave: wave})
	if err != nil {
		t.Fatalf("update progress to %d/%d: %v", chapterID, wave, err)
	}
}

func (f *fixture) balances(t *testing.T, ids ...int64) map[int64]int64 {
	t.Helper()
	got, err := f.ledger.Balances(context.Background(), player.ID, ids)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	return got
}

func (f *fixture) current(t *testing.T) *ProgressView {
	t.Helper()
	cur, err := f.uc.CurrentProgress(context.Background(), player.UID)
	if err != nil {
		t.Fatalf("current progress: %v", err)
	}
	return cur
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperr.HasCode(err, code) {
		t.Fatalf("error code mismatch: got=%v want=%s", err, code)
	}
}

func TestUpdateProgress_IdempotentOverwrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 102, Wave: 4})
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if want := (ProgressView{ChapterID: 102, Wave: 4}); got != want {
			t.Fatalf("progress mismatch: got=%+v want=%+v", got, want)
		}
	}

	// Internal chapter ids resolve, and moving back is allowed.
	got, err := f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 1, Wave: 2})
	if err != nil {
		t.Fatalf("update back: %v", err)
	}
	if want := (ProgressView{ChapterID: 101, Wave: 2}); got != want {
		t.Fatalf("progress mismatch: got=%+v want=%+v", got, want)
	}
	if cur := f.current(t); cur == nil || *cur != (ProgressView{ChapterID: 101, Wave: 2}) {
		t.Fatalf("current progress mismatch: got=%+v", cur)
	}
}

func TestUpdateProgress_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 999, Wave: 1})
	wantCode(t, err, apperr.CodeJourneyInvalidChapter)
	_, err = f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 0})
	wantCode(t, err, apperr.CodeJourneyInvalidChapter)
	_, err = f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 101, Wave: -1})
	wantCode(t, err, apperr.CodeJourneyInvalidWave)

	if cur := f.current(t); cur != nil {
		t.Fatalf("expected no progress, got=%+v", cur)
	}
}

func TestUpdateProgress_RejectsWaveBeyondStoredRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(t, 101, 3)

	_, err := f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 101, Wave: math.MaxInt32 + 1})
	wantCode(t, err, apperr.CodeJourneyInvalidWave)
	if cur := f.current(t); cur == nil || *cur != (ProgressView{ChapterID: 101, Wave: 3}) {
		t.Fatalf("progress changed: got=%+v want=101/3", cur)
	}

	got, err := f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: player.UID, ChapterID: 101, Wave: math.MaxInt32})
	if err != nil {
		t.Fatalf("update at max wave: %v", err)
	}
	if got.Wave != math.MaxInt32 {
		t.Fatalf("wave mismatch: got=%d want=%d", got.Wave, math.MaxInt32)
	}
}

func TestChapterRewards_Flags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.uc.ChapterRewards(ctx, ChapterRewardsRequest{UID: player.UID})
	if err != nil {
		t.Fatalf("chapter rewards: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil listing without progress, got=%#v", got)
	}

	got, err = f.uc.ChapterRewards(ctx, ChapterRewardsRequest{UID: player.UID, ChapterID: 101})
	if err != nil {
		t.Fatalf("chapter rewards 101: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("statuses mismatch: got=%d want=3", len(got))
	}
	for _, st := range got {
		if st.IsUnlocked != 0 {
			t.Fatalf("wave %d unlocked without progress", st.Wave)
		}
	}

	f.at(t, 101, 5)
	f.claims.SeedClaim(player.UID, domain.Claim{RewardID: 12})

	got, err = f.uc.ChapterRewards(ctx, ChapterRewardsRequest{UID: player.UID})
	if err != nil {
		t.Fatalf("chapter rewards all: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("statuses mismatch: got=%d want=4", len(got))
	}
	want0 := RewardStatusView{ChapterID: 101, Wave: 1, IsUnlocked: 1, CanClaim: 1, Rewards: []item.Amount{{ItemID: 10, Amount: 2}}}
	if !reflect.DeepEqual(got[0], want0) {
		t.Fatalf("wave 1 mismatch: got=%+v want=%+v", got[0], want0)
	}
	// An unreceived claim row still blocks the listing.
	if got[1].IsUnlocked != 1 || got[1].IsClaimed != 0 || got[1].CanClaim != 0 {
		t.Fatalf("wave 5 flags mismatch: got=%+v", got[1])
	}
	if got[2].IsUnlocked != 0 {
		t.Fatalf("wave 9 unlocked early: got=%+v", got[2])
	}
	if got[3].ChapterID != 102 || got[3].IsUnlocked != 0 {
		t.Fatalf("chapter 102 mismatch: got=%+v", got[3])
	}

	got, err = f.uc.ChapterRewards(ctx, ChapterRewardsRequest{UID: player.UID, ChapterID: 555})
	if err != nil {
		t.Fatalf("chapter rewards 555: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty listing for unknown chapter, got=%+v", got)
	}
}

func TestClaimChapterReward_SecondClaimFindsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(t, 101, 5)

	resp, err := f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: player.UID, ChapterID: 101})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if resp.ChapterID != 101 || resp.RewardStatus != 1 {
		t.Fatalf("response mismatch: got=%+v", resp)
	}
	if want := []int{1, 5}; !reflect.DeepEqual(resp.ClaimedWaves, want) {
		t.Fatalf("claimed waves mismatch: got=%v want=%v", resp.ClaimedWaves, want)
	}
	if want := []item.Amount{{ItemID: 10, Amount: 3}, {ItemID: 20, Amount: 3}}; !reflect.DeepEqual(resp.Rewards, want) {
		t.Fatalf("rewards mismatch: got=%v want=%v", resp.Rewards, want)
	}
	want := map[int64]int64{10: 3, 20: 3}
	if got := f.balances(t, 10, 20); !reflect.DeepEqual(got, want) {
		t.Fatalf("balances mismatch: got=%v want=%v", got, want)
	}

	_, err = f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: player.UID, ChapterID: 101})
	wantCode(t, err, apperr.CodeRewardNothingToClaim)
	if got := f.balances(t, 10, 20); !reflect.DeepEqual(got, want) {
		t.Fatalf("balances after second claim mismatch: got=%v want=%v", got, want)
	}
}

func TestClaimChapterReward_PassedChapterPaysEveryWave(t *testing.T) {
	f := newFixture(t)
	f.at(t, 102, 0)

	resp, err := f.uc.ClaimChapterReward(context.Background(), ClaimChapterRewardRequest{UID: player.UID, ChapterID: 101})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if want := []int{1, 5, 9}; !reflect.DeepEqual(resp.ClaimedWaves, want) {
		t.Fatalf("claimed waves mismatch: got=%v want=%v", resp.ClaimedWaves, want)
	}
	if got := f.balances(t, 30)[30]; got != 1 {
		t.Fatalf("item 30 mismatch: got=%d want=1", got)
	}
}

func TestClaimChapterReward_UnreceivedClaimIsPaid(t *testing.T) {
	f := newFixture(t)
	f.at(t, 101, 1)
	f.claims.SeedClaim(player.UID, domain.Claim{RewardID: 11})

	resp, err := f.uc.ClaimChapterReward(context.Background(), ClaimChapterRewardRequest{UID: player.UID, ChapterID: 101})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if want := []int{1}; !reflect.DeepEqual(resp.ClaimedWaves, want) {
		t.Fatalf("claimed waves mismatch: got=%v want=%v", resp.ClaimedWaves, want)
	}
}

func TestClaimChapterReward_Errors(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	_, err := f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: player.UID, ChapterID: 404})
	wantCode(t, err, apperr.CodeRewardChapterNotFound)

	_, err = f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: player.UID, ChapterID: 101})
	wantCode(t, err, apperr.CodeRewardNoProgress)

	f.at(t, 101, 9)
	_, err = f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: player.UID, ChapterID: 102})
	wantCode(t, err, apperr.CodeRewardNotReached)

	// Entering chapter 102 reaches no wave yet.
	f.at(t, 102, 0)
	_, err = f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: player.UID, ChapterID: 102})
	wantCode(t, err, apperr.CodeRewardNotReached)
}

func TestClaimChapterReward_UnknownUserRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ghost := int64(9999)
	if _, err := f.uc.UpdateProgress(ctx, UpdateProgressRequest{UID: ghost, ChapterID: 101, Wave: 5}); err != nil {
		t.Fatalf("update ghost: %v", err)
	}

	_, err := f.uc.ClaimChapterReward(ctx, ClaimChapterRewardRequest{UID: ghost, ChapterID: 101})
	wantCode(t, err, apperr.CodeUserNotFound)

	claims, err := f.claims.ListByRewardIDs(ctx, ghost, []int64{11, 12})
	if err != nil {
		t.Fatalf("list claims: %v", err)
	}
	if len(claims) != 0 {
		t.Fatalf("claims survived rollback: got=%+v", claims)
	}
}

type brokenLedger struct {
	ports.ItemLedger
}

func (brokenLedger) AddItem(context.Context, ports.LedgerOp) (ports.LedgerResult, error) {
	return ports.LedgerResult{}, errors.New("ledger offline")
}

func TestClaimDrops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.uc.ClaimDrops(ctx, ClaimDropsRequest{User: player, Items: []item.Amount{{ItemID: 40, Amount: 2}, {ItemID: 41, Amount: 1}}}); err != nil {
		t.Fatalf("claim drops: %v", err)
	}
	if got, want := f.balances(t, 40, 41), map[int64]int64{40: 2, 41: 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("balances mismatch: got=%v want=%v", got, want)
	}
	if err := f.uc.ClaimDrops(ctx, ClaimDropsRequest{User: player}); err != nil {
		t.Fatalf("claim empty drops: %v", err)
	}

	f.uc.Ledger = brokenLedger{f.ledger}
	err := f.uc.ClaimDrops(ctx, ClaimDropsRequest{User: player, Items: []item.Amount{{ItemID: 40, Amount: 1}}})
	wantCode(t, err, apperr.CodeItemGrantFailed)
}

func TestSyncTotalStarsAndReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.uc.SyncTotalStars(ctx, player.UID, 14); err != nil {
		t.Fatalf("sync stars: %v", err)
	}
	if cur := f.current(t); cur == nil || *cur != (ProgressView{}) {
		t.Fatalf("expected chapter zero progress, got=%+v", cur)
	}
	stars, err := f.uc.TotalStars(ctx, player.UID)
	if err != nil {
		t.Fatalf("total stars: %v", err)
	}
	if stars != 14 {
		t.Fatalf("stars mismatch: got=%d want=14", stars)
	}

	f.at(t, 101, 5)
	ok, err := f.uc.MarkRewardClaimed(ctx, player.UID, 13)
	if err != nil || !ok {
		t.Fatalf("mark reward 13: ok=%v err=%v", ok, err)
	}
	ok, err = f.uc.MarkRewardClaimed(ctx, player.UID, 404)
	if err != nil || ok {
		t.Fatalf("mark unknown reward: ok=%v err=%v", ok, err)
	}

	if err := f.uc.Reset(ctx, player.UID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if cur := f.current(t); cur != nil {
		t.Fatalf("expected no progress after reset, got=%+v", cur)
	}
	claims, err := f.claims.ListByRewardIDs(ctx, player.UID, []int64{13})
	if err != nil {
		t.Fatalf("list claims: %v", err)
	}
	if len(claims) != 0 {
		t.Fatalf("claims survived reset: got=%+v", claims)
	}
}

func TestSyncTotalStars_ClampsToStoredRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		total int
		want  int
	}{
		{total: math.MaxInt32 + 1, want: math.MaxInt32},
		{total: -3, want: 0},
	} {
		if err := f.uc.SyncTotalStars(ctx, player.UID, tc.total); err != nil {
			t.Fatalf("sync %d: %v", tc.total, err)
		}
		got, err := f.uc.TotalStars(ctx, player.UID)
		if err != nil {
			t.Fatalf("total stars: %v", err)
		}
		if got != tc.want {
			t.Fatalf("stars mismatch for %d: got=%d want=%d", tc.total, got, tc.want)
		}
	}
}

func TestRewardIDByChapterAndWave(t *testing.T) {
	f := newFixture(t)

	id, ok := f.uc.RewardIDByChapterAndWave(101, 5)
	if !ok || id != 12 {
		t.Fatalf("reward id mismatch: got=%d,%v want=12,true", id, ok)
	}
	if _, ok := f.uc.RewardIDByChapterAndWave(101, 6); ok {
		t.Fatalf("expected no reward at wave 6")
	}
}
