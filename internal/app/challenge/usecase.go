package challenge

import (
	"context"
	"errors"
	"sort"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/app/shared/rewards"
	"surgame/internal/app/shared/telemetry"
	domain "surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	memoStarReward = "star challenge reward"
	memoStageDrops = "star challenge drops"
)

var tracer = otel.Tracer("surgame/internal/app/challenge")

// StarSyncer receives the user's star total after every change.
type StarSyncer interface {
	SyncTotalStars(ctx context.Context, uid int64, total int) error
}

type UseCase struct {
	TxManager ports.TxManager
	Records   ports.ChallengeRepository
	Stars     StarSyncer
	Users     ports.UserRepository
	Ledger    ports.ItemLedger
	Catalogs  ports.Catalogs
	Metrics   ports.OperationMetrics
	Logger    *zap.Logger
}

func (u UseCase) granter() rewards.Granter {
	return rewards.Granter{Users: u.Users, Ledger: u.Ledger}
}

// Update keeps the best result per stage of a chapter and grants the stage
// drops in the same transaction.
func (u UseCase) Update(ctx context.Context, req UpdateRequest) (resp UpdateResponse, err error) {
	ctx, span := tracer.Start(ctx, "challenge.Update", trace.WithAttributes(
		attribute.Int64("uid", req.User.UID),
		attribute.Int64("chapter_id", req.ChapterID),
	))
	defer func() { telemetry.Finish(span, u.Metrics, "challenge_update", err) }()

	if req.ChapterID <= 0 {
		return UpdateResponse{}, apperr.New(apperr.CodeChallengeInvalidChapter)
	}
	if len(req.EarnedStars) == 0 {
		return UpdateResponse{}, apperr.New(apperr.CodeChallengeNoStars)
	}
	chapter, ok := u.Catalogs.Journeys().FindChapter(req.ChapterID)
	if !ok {
		return UpdateResponse{}, apperr.New(apperr.CodeChallengeInvalidChapter)
	}
	uid := req.User.UID

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := u.Records.GetForUpdate(txCtx, uid, chapter.UniqueID)
		if errors.Is(err, ports.ErrNotFound) {
			rec = domain.Record{UID: uid, ChapterID: chapter.UniqueID}
		} else if err != nil {
			return err
		}
		rec.Stars = domain.MergeBest(rec.Stars, req.EarnedStars)
		if err := u.Records.Save(txCtx, rec); err != nil {
			return err
		}
		total, err := u.totalStars(txCtx, uid)
		if err != nil {
			return err
		}
		if u.Stars != nil {
			if err := u.Stars.SyncTotalStars(txCtx, uid, total); err != nil {
				return err
			}
		}
		if err := u.granter().GrantDrops(txCtx, req.User, req.Drops, memoStageDrops); err != nil {
			return err
		}
		resp = UpdateResponse{
			ChapterStars: ChapterStars{ChapterID: rec.ChapterID, Stars: rec.Stars, Total: rec.Total()},
			TotalStars:   total,
			Rewards:      nonNil(req.Drops),
		}
		return nil
	})
	if err != nil {
		return UpdateResponse{}, err
	}
	return resp, nil
}

func (u UseCase) Progress(ctx context.Context, uid int64) (ProgressResponse, error) {
	records, err := u.Records.ListByUID(ctx, uid)
	if err != nil {
		return ProgressResponse{}, err
	}
	out := ProgressResponse{Chapters: make([]ChapterStars, 0, len(records))}
	for _, rec := range records {
		out.Chapters = append(out.Chapters, ChapterStars{ChapterID: rec.ChapterID, Stars: rec.Stars, Total: rec.Total()})
	}
	out.TotalStars = domain.SumTotals(records)
	return out, nil
}

// Rewards lists every star reward by required stars.
func (u UseCase) Rewards(ctx context.Context, uid int64) (RewardsResponse, error) {
	total, err := u.totalStars(ctx, uid)
	if err != nil {
		return RewardsResponse{}, err
	}
	claimed, err := u.Records.ClaimedRewards(ctx, uid)
	if err != nil {
		return RewardsResponse{}, err
	}
	defs := sortedDefinitions(u.Catalogs.StarRewards())
	out := RewardsResponse{TotalStars: total, Rewards: make([]RewardView, 0, len(defs))}
	for _, def := range defs {
		st := domain.Status(def, total, claimed[def.UniqueID])
		out.Rewards = append(out.Rewards, RewardView{
			RewardID:      st.RewardID,
			RequiredStars: st.RequiredStars,
			IsUnlocked:    st.IsUnlocked,
			IsClaimed:     st.IsClaimed,
			CanClaim:      st.CanClaim,
			Rewards:       journey.DecodeRewards(def.Rewards),
		})
	}
	return out, nil
}

func (u UseCase) ClaimReward(ctx context.Context, req ClaimRequest) (resp ClaimResponse, err error) {
	ctx, span := tracer.Start(ctx, "challenge.ClaimReward", trace.WithAttributes(
		attribute.Int64("uid", req.UID),
		attribute.Int64("reward_id", req.RewardID),
	))
	defer func() { telemetry.Finish(span, u.Metrics, "challenge_claim", err) }()

	if req.RewardID <= 0 {
		return ClaimResponse{}, apperr.New(apperr.CodeStarRewardInvalidID)
	}
	def, ok := findDefinition(u.Catalogs.StarRewards(), req.RewardID)
	if !ok {
		return ClaimResponse{}, apperr.New(apperr.CodeStarRewardNotFound)
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		total, err := u.totalStars(txCtx, req.UID)
		if err != nil {
			return err
		}
		if total < def.RequiredStars {
			return apperr.New(apperr.CodeStarRewardLocked)
		}
		err = u.Records.CreateClaim(txCtx, req.UID, def.UniqueID)
		if errors.Is(err, ports.ErrConflict) {
			return apperr.New(apperr.CodeStarRewardClaimed)
		}
		if err != nil {
			return err
		}
		granted, err := u.granter().Grant(txCtx, req.UID, journey.DecodeRewards(def.Rewards), memoStarReward)
		if err != nil {
			return err
		}
		resp = ClaimResponse{RewardID: def.UniqueID, Rewards: granted}
		return nil
	})
	if err != nil {
		return ClaimResponse{}, err
	}
	return resp, nil
}

// Reset clears every chapter result and star claim of the user.
func (u UseCase) Reset(ctx context.Context, uid int64) error {
	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Records.DeleteByUID(txCtx, uid); err != nil {
			return err
		}
		if u.Stars == nil {
			return nil
		}
		return u.Stars.SyncTotalStars(txCtx, uid, 0)
	})
}

func (u UseCase) totalStars(ctx context.Context, uid int64) (int, error) {
	records, err := u.Records.ListByUID(ctx, uid)
	if err != nil {
		return 0, err
	}
	return domain.SumTotals(records), nil
}

func findDefinition(defs []domain.RewardDefinition, id int64) (domain.RewardDefinition, bool) {
	for _, d := range defs {
		if d.UniqueID == id {
			return d, true
		}
	}
	return domain.RewardDefinition{}, false
}

func sortedDefinitions(defs []domain.RewardDefinition) []domain.RewardDefinition {
	out := append([]domain.RewardDefinition(nil), defs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RequiredStars != out[j].RequiredStars {
			return out[i].RequiredStars < out[j].RequiredStars
		}
		return out[i].UniqueID < out[j].UniqueID
	})
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
