package httpadapter

import (
	"context"
	"slices"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	corsAllowMethods  = "GET,POST,OPTIONS"
	corsAllowHeaders  = "Content-Type,Authorization,X-Request-ID"
	corsExposeHeaders = requestIDHeader
)

// corsPolicy answers any origin when origins is empty. Otherwise only listed
// origins are echoed back and the others get no CORS headers at all.
type corsPolicy struct {
	origins []string
}

func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	if len(p.origins) == 0 {
		return "*", true
	}
	if origin != "" && slices.Contains(p.origins, origin) {
		return origin, true
	}
	return "", false
}

func (p corsPolicy) apply(ctx *app.RequestContext) {
	allowed, ok := p.allowOrigin(string(ctx.GetHeader("Origin")))
	if !ok {
		return
	}
	h := &ctx.Response.Header
	h.Set("Access-Control-Allow-Origin", allowed)
	if allowed != "*" {
		h.Add("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
	h.Set("Access-Control-Max-Age", "600")
}

func corsMiddleware(origins []string) app.HandlerFunc {
	p := corsPolicy{origins: origins}
	return func(c context.Context, ctx *app.RequestContext) {
		p.apply(ctx)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
