package httpadapter

import (
	"context"

	"surgame/internal/app/apperr"
	"surgame/internal/app/inventory"
	"surgame/internal/app/treasure"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// treasureFuse answers with the fused balances at the top level, next to
// success, instead of inside data.
func (h Handler) treasureFuse(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "fuse", err)
		return
	}
	user, err := requireUser(ctx, apperr.CodeUIDRequired)
	if err != nil {
		h.writeError(ctx, "fuse", err)
		return
	}
	resp, err := h.TreasureUC.Fuse(c, treasure.FuseRequest{
		User:           user,
		MainMaterialID: p.intOr("main_material_id"),
		MaterialIDs:    p.ints("materials"),
	})
	if err != nil {
		h.writeError(ctx, "fuse", err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) treasureAutoFuse(c context.Context, ctx *app.RequestContext) {
	user, err := requireUser(ctx, apperr.CodeUIDRequired)
	if err != nil {
		h.writeError(ctx, "auto_fuse", err)
		return
	}
	resp, err := h.TreasureUC.AutoFuse(c, treasure.AutoFuseRequest{User: user})
	if err != nil {
		h.writeError(ctx, "auto_fuse", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) treasureReset(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "reset", err)
		return
	}
	user, err := requireUser(ctx, apperr.CodeUIDRequired)
	if err != nil {
		h.writeError(ctx, "reset", err)
		return
	}
	resp, err := h.TreasureUC.Reset(c, treasure.ResetRequest{User: user, ItemID: p.intOr("item_id")})
	if err != nil {
		h.writeError(ctx, "reset", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) treasureObtain(c context.Context, ctx *app.RequestContext) {
	p, err := readParams(ctx)
	if err != nil {
		h.writeError(ctx, "obtain", err)
		return
	}
	user, err := requireUser(ctx, apperr.CodeUserNotFound)
	if err != nil {
		h.writeError(ctx, "obtain", err)
		return
	}
	resp, err := h.TreasureUC.Obtain(c, treasure.ObtainRequest{User: user, ItemID: p.intOr("item_id")})
	if err != nil {
		h.writeError(ctx, "obtain", err)
		return
	}
	writeData(ctx, resp)
}

func (h Handler) packageItems(c context.Context, ctx *app.RequestContext) {
	user, err := requireUser(ctx, apperr.CodeUIDRequired)
	if err != nil {
		h.writeError(ctx, "package_items", err)
		return
	}
	resp, err := h.InventoryUC.ListPackage(c, inventory.Request{User: user})
	if err != nil {
		h.writeError(ctx, "package_items", err)
		return
	}
	writeData(ctx, resp)
}
