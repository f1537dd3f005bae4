package journey

import (
	"context"
	"errors"
	"math"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/app/shared/rewards"
	"surgame/internal/app/shared/telemetry"
	domain "surgame/internal/domain/journey"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	memoChapterReward = "journey chapter reward"
	memoStageDrops    = "journey stage drops"
)

var tracer = otel.Tracer("surgame/internal/app/journey")

// UseCase tracks chapter progress and pays out chapter rewards.
type UseCase struct {
	TxManager ports.TxManager
	Progress  ports.ProgressRepository
	Claims    ports.ClaimRepository
	Users     ports.UserRepository
	Ledger    ports.ItemLedger
	Catalogs  ports.Catalogs
	Metrics   ports.OperationMetrics
	Logger    *zap.Logger
}

func (u UseCase) granter() rewards.Granter {
	return rewards.Granter{Users: u.Users, Ledger: u.Ledger}
}

// UpdateProgress moves the user to chapter/wave. Moving backwards is allowed.
func (u UseCase) UpdateProgress(ctx context.Context, req UpdateProgressRequest) (resp ProgressView, err error) {
	ctx, span := tracer.Start(ctx, "journey.UpdateProgress", trace.WithAttributes(
		attribute.Int64("uid", req.UID),
		attribute.Int64("chapter_id", req.ChapterID),
	))
	defer func() { telemetry.Finish(span, u.Metrics, "journey_update", err) }()

	if req.ChapterID <= 0 {
		return ProgressView{}, apperr.New(apperr.CodeJourneyInvalidChapter)
	}
	// current_wave is an INTEGER column.
	if req.Wave < 0 || req.Wave > math.MaxInt32 {
		return ProgressView{}, apperr.New(apperr.CodeJourneyInvalidWave)
	}
	chapter, ok := u.Catalogs.Journeys().FindChapter(req.ChapterID)
	if !ok {
		return ProgressView{}, apperr.New(apperr.CodeJourneyInvalidChapter)
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.Progress.GetForUpdate(txCtx, req.UID)
		if errors.Is(err, ports.ErrNotFound) {
			p = domain.NewProgress(req.UID)
		} else if err != nil {
			return err
		}
		p.Advance(chapter, req.Wave)
		if err := u.Progress.Save(txCtx, p); err != nil {
			return err
		}
		resp = ProgressView{ChapterID: p.CurrentJourneyID, Wave: p.CurrentWave}
		return nil
	})
	if err != nil {
		return ProgressView{}, err
	}
	return resp, nil
}

// CurrentProgress returns nil when the user never reported progress.
func (u UseCase) CurrentProgress(ctx context.Context, uid int64) (*ProgressView, error) {
	p, err := u.Progress.Get(ctx, uid)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ProgressView{ChapterID: p.CurrentJourneyID, Wave: p.CurrentWave}, nil
}

// ChapterRewards lists reward flags for one chapter, or for every chapter
// when none is given. A user without progress only gets a listing when a
// chapter is named.
func (u UseCase) ChapterRewards(ctx context.Context, req ChapterRewardsRequest) ([]RewardStatusView, error) {
	out := []RewardStatusView{}

	p, err := u.Progress.Get(ctx, req.UID)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		if req.ChapterID == 0 {
			return out, nil
		}
		p = domain.Progress{UID: req.UID}
	case err != nil:
		return nil, err
	}

	catalog := u.Catalogs.Journeys()
	var journeyID int64
	if req.ChapterID != 0 {
		chapter, ok := catalog.FindChapter(req.ChapterID)
		if !ok {
			return out, nil
		}
		journeyID = chapter.ID
	}
	defs := catalog.Rewards(journeyID)
	if len(defs) == 0 {
		return out, nil
	}

	claims, err := u.Claims.ListByRewardIDs(ctx, req.UID, rewardIDs(defs))
	if err != nil {
		return nil, err
	}
	for _, st := range catalog.Statuses(defs, p, claims) {
		out = append(out, RewardStatusView{
			ChapterID:  st.ChapterID,
			Wave:       st.Wave,
			IsUnlocked: flag(st.IsUnlocked),
			IsClaimed:  flag(st.IsClaimed),
			CanClaim:   flag(st.CanClaim),
			Rewards:    st.Rewards,
		})
	}
	return out, nil
}

// ClaimChapterReward pays every reached and unreceived wave of a chapter in
// one grant, then marks those waves received.
func (u UseCase) ClaimChapterReward(ctx context.Context, req ClaimChapterRewardRequest) (resp ClaimChapterRewardResponse, err error) {
	ctx, span := tracer.Start(ctx, "journey.ClaimChapterReward", trace.WithAttributes(
		attribute.Int64("uid", req.UID),
		attribute.Int64("chapter_id", req.ChapterID),
	))
	defer func() { telemetry.Finish(span, u.Metrics, "journey_claim", err) }()

	catalog := u.Catalogs.Journeys()
	chapter, ok := catalog.FindChapter(req.ChapterID)
	if !ok {
		return ClaimChapterRewardResponse{}, apperr.New(apperr.CodeRewardChapterNotFound)
	}

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.Progress.GetForUpdate(txCtx, req.UID)
		if errors.Is(err, ports.ErrNotFound) {
			return apperr.New(apperr.CodeRewardNoProgress)
		}
		if err != nil {
			return err
		}
		candidates, reached := catalog.ClaimCandidates(chapter, p)
		if !reached || len(candidates) == 0 {
			return apperr.New(apperr.CodeRewardNotReached)
		}
		claims, err := u.Claims.ListByRewardIDsForUpdate(txCtx, req.UID, rewardIDs(candidates))
		if err != nil {
			return err
		}
		claimable := domain.Claimable(candidates, claims)
		if len(claimable) == 0 {
			return apperr.New(apperr.CodeRewardNothingToClaim)
		}

		amounts, waves := domain.Aggregate(claimable)
		granted, err := u.granter().Grant(txCtx, req.UID, amounts, memoChapterReward)
		if err != nil {
			return err
		}
		for _, def := range claimable {
			if err := u.Claims.MarkReceived(txCtx, req.UID, def.ID); err != nil {
				return err
			}
		}
		resp = ClaimChapterRewardResponse{
			ChapterID:    chapter.UniqueID,
			RewardStatus: 1,
			ClaimedWaves: waves,
			Rewards:      granted,
		}
		return nil
	})
	if err != nil {
		return ClaimChapterRewardResponse{}, err
	}
	telemetry.Logger(u.Logger).Info("chapter reward claimed",
		zap.Int64("uid", req.UID),
		zap.Int64("chapter_id", chapter.UniqueID),
		zap.Ints("waves", resp.ClaimedWaves),
	)
	return resp, nil
}

// ClaimDrops grants main stage drops in one transaction.
func (u UseCase) ClaimDrops(ctx context.Context, req ClaimDropsRequest) (err error) {
	ctx, span := tracer.Start(ctx, "journey.ClaimDrops", trace.WithAttributes(attribute.Int64("uid", req.User.UID)))
	defer func() { telemetry.Finish(span, u.Metrics, "journey_drops", err) }()

	if len(req.Items) == 0 {
		return nil
	}
	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.granter().GrantDrops(txCtx, req.User, req.Items, memoStageDrops)
	})
}

// Reset removes the user's progress and every chapter claim.
func (u UseCase) Reset(ctx context.Context, uid int64) error {
	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Progress.Delete(txCtx, uid); err != nil {
			return err
		}
		return u.Claims.DeleteByUID(txCtx, uid)
	})
}

// SyncTotalStars stores the user's star total, creating a progress record
// at chapter zero when none exists.
func (u UseCase) SyncTotalStars(ctx context.Context, uid int64, total int) error {
	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.Progress.GetForUpdate(txCtx, uid)
		if errors.Is(err, ports.ErrNotFound) {
			p = domain.Progress{UID: uid}
		} else if err != nil {
			return err
		}
		p.TotalStars = min(max(0, total), math.MaxInt32)
		return u.Progress.Save(txCtx, p)
	})
}

func (u UseCase) TotalStars(ctx context.Context, uid int64) (int, error) {
	p, err := u.Progress.Get(ctx, uid)
	if errors.Is(err, ports.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.TotalStars, nil
}

// MarkRewardClaimed records a reward as received without granting it. It
// reports false for an unknown reward.
func (u UseCase) MarkRewardClaimed(ctx context.Context, uid, rewardID int64) (bool, error) {
	if _, ok := u.Catalogs.Journeys().Reward(rewardID); !ok {
		return false, nil
	}
	if err := u.Claims.MarkReceived(ctx, uid, rewardID); err != nil {
		return false, err
	}
	return true, nil
}

func (u UseCase) RewardIDByChapterAndWave(chapterID int64, wave int) (int64, bool) {
	catalog := u.Catalogs.Journeys()
	chapter, ok := catalog.FindChapter(chapterID)
	if !ok {
		return 0, false
	}
	def, ok := catalog.RewardAt(chapter, wave)
	if !ok {
		return 0, false
	}
	return def.ID, true
}

func rewardIDs(defs []domain.RewardDefinition) []int64 {
	ids := make([]int64, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	return ids
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
