package httpadapter

import (
	"context"
	"math"

	"surgame/internal/app/apperr"
	"surgame/internal/app/journey"
	"surgame/internal/app/ports"
	"surgame/internal/app/stamina"
	"surgame/internal/domain/item"

	"github.com/cloudwego/hertz/pkg/app"
)

func (h Handler) journeyDeduct(c context.Context, ctx *app.RequestContext) {
	h.deduct(c, ctx, "journey_deduct", "main stage entry")
}

func (h Handler) challengeDeduct(c context.Context, ctx *app.RequestContext) {
	h.deduct(c, ctx, "challenge_deduct", "star challenge entry")
}

func (h Handler) deduct(c context.Context, ctx *app.RequestContext, operation, memo string) {
	resp, err := h.StaminaUC.DeductForEntry(c, stamina.DeductRequest{UID: principalFrom(ctx).UID, Memo: memo})
	if err != nil {
		h.writeError(ctx, operation, err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) journeyUpdate(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "journey_update", err)
		return
	}
	chapterID, ok := p.int("chapter_id")
	if !ok || chapterID <= 0 {
		h.writeError(ctx, "journey_update", apperr.New(apperr.CodeJourneyInvalidChapter))
		return
	}
	wave, ok := p.int("wave")
	if !ok || wave < 0 || wave > math.MaxInt32 {
		h.writeError(ctx, "journey_update", apperr.New(apperr.CodeJourneyInvalidWave))
		return
	}
	resp, err := h.JourneyUC.UpdateProgress(c, journey.UpdateProgressRequest{
		UID:       principalFrom(ctx).UID,
		ChapterID: chapterID,
		Wave:      int(wave),
	})
	if err != nil {
		h.writeError(ctx, "journey_update", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) journeyProgress(c context.Context, ctx *app.RequestContext) {
	view, err := h.JourneyUC.CurrentProgress(c, principalFrom(ctx).UID)
	if err != nil {
		h.writeError(ctx, "journey_progress", err)
		return
	}
	if view == nil {
		writeData(ctx, map[string]any{})
		return
	}
	writeData(ctx, view)
}

// journeyRewards answers an empty object rather than an empty list when
// nothing is configured, which is what shipped clients parse.
func (h Handler) journeyRewards(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "journey_rewards", err)
		return
	}
	list, err := h.JourneyUC.ChapterRewards(c, journey.ChapterRewardsRequest{
		UID:       principalFrom(ctx).UID,
		ChapterID: p.intOr("chapter_id"),
	})
	if err != nil {
		h.writeError(ctx, "journey_rewards", err)
		return
	}
	if len(list) == 0 {
		writeData(ctx, map[string]any{})
		return
	}
	writeData(ctx, list)
}

func (h Handler) journeyClaimReward(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "journey_claim", err)
		return
	}
	chapterID, ok := p.int("chapter_id")
	if !ok || chapterID <= 0 {
		h.writeError(ctx, "journey_claim", apperr.New(apperr.CodeJourneyInvalidChapter))
		return
	}
	resp, err := h.JourneyUC.ClaimChapterReward(c, journey.ClaimChapterRewardRequest{
		UID:       principalFrom(ctx).UID,
		ChapterID: chapterID,
	})
	if err != nil {
		h.writeError(ctx, "journey_claim", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) journeyClaimDrops(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "journey_drops", err)
		return
	}
	user, err := requireUser(ctx, apperr.CodeUIDRequired)
	if err != nil {
		h.writeError(ctx, "journey_drops", err)
		return
	}
	items := item.Merge(p.amounts("items"))
	if err := h.JourneyUC.ClaimDrops(c, journey.ClaimDropsRequest{User: user, Items: items}); err != nil {
		h.writeError(ctx, "journey_drops", err)
		return
	}
	writeData(ctx, map[string]any{"success": true, "items": items})
}

func (h Handler) journeyReset(c context.Context, ctx *app.RequestContext) {
	if !h.ResetAllowed {
		h.writeError(ctx, "journey_reset", errResetForbidden)
		return
	}
	if err := h.JourneyUC.Reset(c, principalFrom(ctx).UID); err != nil {
		h.writeError(ctx, "journey_reset", err)
		return
	}
	writeSuccess(ctx)
}

// requireUser rejects principals without a user row with code.
func requireUser(ctx *app.RequestContext, code string) (ports.User, error) {
	p := principalFrom(ctx)
	if p.UserID == 0 {
		return ports.User{}, apperr.New(code)
	}
	return p.User(), nil
}
