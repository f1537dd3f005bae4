package httpadapter

import (
	"context"

	"surgame/internal/app/apperr"
	"surgame/internal/app/challenge"

	"github.com/cloudwego/hertz/pkg/app"
)

func (h Handler) challengeUpdate(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "challenge_update", err)
		return
	}
	chapterID := int64(1)
	if p.has("chapter_id") {
		n, ok := p.int("chapter_id")
		if !ok || n <= 0 {
			h.writeError(ctx, "challenge_update", apperr.New(apperr.CodeChallengeInvalidChapter))
			return
		}
		chapterID = n
	}
	stars := p.ints("earned_stars")
	if len(stars) == 0 {
		h.writeError(ctx, "challenge_update", apperr.New(apperr.CodeChallengeNoStars))
		return
	}
	resp, err := h.ChallengeUC.Update(c, challenge.UpdateRequest{
		User:        principalFrom(ctx).User(),
		ChapterID:   chapterID,
		EarnedStars: toInts(stars),
		Drops:       p.amounts("drop_items"),
	})
	if err != nil {
		h.writeError(ctx, "challenge_update", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) challengeProgress(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ChallengeUC.Progress(c, principalFrom(ctx).UID)
	if err != nil {
		h.writeError(ctx, "challenge_progress", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) challengeRewards(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ChallengeUC.Rewards(c, principalFrom(ctx).UID)
	if err != nil {
		h.writeError(ctx, "challenge_rewards", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) challengeClaimReward(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "challenge_claim", err)
		return
	}
	rewardID, ok := p.int("reward_id")
	if !ok || rewardID <= 0 {
		h.writeError(ctx, "challenge_claim", apperr.New(apperr.CodeStarRewardInvalidID))
		return
	}
	resp, err := h.ChallengeUC.ClaimReward(c, challenge.ClaimRequest{UID: principalFrom(ctx).UID, RewardID: rewardID})
	if err != nil {
		h.writeError(ctx, "challenge_claim", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) challengeReset(c context.Context, ctx *app.RequestContext) {
	if !h.ResetAllowed {
		h.writeError(ctx, "challenge_reset", errResetForbidden)
		return
	}
	if err := h.ChallengeUC.Reset(c, principalFrom(ctx).UID); err != nil {
		h.writeError(ctx, "challenge_reset", err)
		return
	}
	writeSuccess(ctx)
}
