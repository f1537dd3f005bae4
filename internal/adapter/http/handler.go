package httpadapter

import (
	"context"
	"errors"

	"surgame/internal/app/apperr"
	"surgame/internal/app/auth"
	"surgame/internal/app/challenge"
	"surgame/internal/app/inventory"
	"surgame/internal/app/journey"
	"surgame/internal/app/shared/telemetry"
	"surgame/internal/app/stamina"
	"surgame/internal/app/treasure"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

var errResetForbidden = errors.New("reset is only available on test deployments")

type Handler struct {
	AuthUC      auth.VerifyUseCase
	JourneyUC   journey.UseCase
	ChallengeUC challenge.UseCase
	StaminaUC   stamina.UseCase
	TreasureUC  treasure.UseCase
	InventoryUC inventory.UseCase
	KPI         kpiSnapshotProvider
	Logger      *zap.Logger
	// ResetAllowed opens the progress reset routes. Production keeps it off.
	ResetAllowed bool
	// CORSOrigins limits browser origins; empty allows any.
	CORSOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(requestLogMiddleware(h.log()), corsMiddleware(h.CORSOrigins))

	api := s.Group("/api", h.authMiddleware())

	j := api.Group("/journey")
	j.POST("/deduct", h.journeyDeduct)
	j.POST("/update", h.journeyUpdate)
	j.GET("/progress", h.journeyProgress)
	j.GET("/rewards", h.journeyRewards)
	j.POST("/rewards/claim", h.journeyClaimReward)
	j.POST("/drops/claim", h.journeyClaimDrops)
	j.POST("/reset", h.journeyReset)

	sc := api.Group("/star-challenge")
	sc.POST("/deduct", h.challengeDeduct)
	sc.POST("/update", h.challengeUpdate)
	sc.GET("/progress", h.challengeProgress)
	sc.GET("/rewards", h.challengeRewards)
	sc.POST("/rewards/claim", h.challengeClaimReward)
	sc.POST("/reset", h.challengeReset)

	t := api.Group("/treasure")
	t.POST("/fuse", h.treasureFuse)
	t.POST("/auto-fuse", h.treasureAutoFuse)
	t.POST("/reset", h.treasureReset)
	t.POST("/obtain", h.treasureObtain)

	api.GET("/package/items", h.packageItems)

	s.GET("/ops/kpi", h.kpi)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) log() *zap.Logger {
	return telemetry.Logger(h.Logger)
}

func writeData(ctx *app.RequestContext, data any) {
	ctx.JSON(consts.StatusOK, map[string]any{"data": data})
}

func writeSuccess(ctx *app.RequestContext) {
	writeData(ctx, map[string]bool{"success": true})
}

// writeError maps err onto the response. Coded errors go out as 422 with
// the offending item ids; anything uncoded is logged and hidden behind
// SYSTEM:0003.
func (h Handler) writeError(ctx *app.RequestContext, operation string, err error) {
	var coded *apperr.Error
	switch {
	case errors.As(err, &coded):
		writeCoded(ctx, coded)
	case errors.Is(err, errInvalidJSON):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		writeErrorBody(ctx, consts.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, errResetForbidden):
		ctx.JSON(consts.StatusForbidden, map[string]string{"message": err.Error()})
	default:
		h.log().Error("request failed",
			zap.String("operation", operation),
			zap.Int64("uid", principalFrom(ctx).UID),
			zap.String("request_id", requestIDFrom(ctx)),
			zap.Error(err),
		)
		writeCoded(ctx, apperr.New(apperr.CodeSystem))
	}
}

func writeCoded(ctx *app.RequestContext, e *apperr.Error) {
	body := map[string]any{
		"error": map[string]string{
			"code":    e.Code,
			"message": apperr.Message(e.Code),
		},
	}
	if e.ItemID != 0 {
		body["item_id"] = e.ItemID
	}
	if e.NeedItemID != 0 {
		body["need_item_id"] = e.NeedItemID
	}
	ctx.JSON(consts.StatusUnprocessableEntity, body)
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
