package httpadapter

import (
	"context"
	"strings"
	"time"

	"surgame/internal/app/auth"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

// requestLogMiddleware tags each request with an id, echoing the caller's
// X-Request-ID when present, and writes one access log line per request.
func requestLogMiddleware(logger *zap.Logger) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		id := strings.TrimSpace(string(ctx.GetHeader(requestIDHeader)))
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(requestIDHeader, id)

		ctx.Next(c)

		logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func requestIDFrom(ctx *app.RequestContext) string {
	v, ok := ctx.Get(requestIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// authMiddleware resolves the caller before any /api handler runs.
func (h Handler) authMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		p, _ := readParams(ctx)
		principal, err := h.AuthUC.Execute(c, auth.VerifyRequest{
			Bearer:  bearerToken(string(ctx.GetHeader("Authorization"))),
			Origin:  string(ctx.GetHeader("Origin")),
			Referer: string(ctx.GetHeader("Referer")),
			UID:     p.get("uid").String(),
		})
		if err != nil {
			h.writeError(ctx, "auth", err)
			ctx.Abort()
			return
		}
		ctx.Set(principalKey, principal)
		ctx.Next(c)
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func principalFrom(ctx *app.RequestContext) auth.Principal {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return auth.Principal{}
	}
	p, _ := v.(auth.Principal)
	return p
}
