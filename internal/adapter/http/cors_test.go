package httpadapter

import (
	"context"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func withOrigin(origin string) *app.RequestContext {
	ctx := &app.RequestContext{}
	if origin != "" {
		ctx.Request.Header.Set("Origin", origin)
	}
	return ctx
}

func TestCORSPolicy_OpenByDefault(t *testing.T) {
	ctx := withOrigin("https://anything.example")
	corsPolicy{}.apply(ctx)

	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")), "*"; got != want {
		t.Fatalf("allow-origin mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")), corsAllowMethods; got != want {
		t.Fatalf("allow-methods mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Headers")), corsAllowHeaders; got != want {
		t.Fatalf("allow-headers mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Expose-Headers")), requestIDHeader; got != want {
		t.Fatalf("expose-headers mismatch: got=%q want=%q", got, want)
	}
}

func TestCORSPolicy_AllowList(t *testing.T) {
	p := corsPolicy{origins: []string{"https://game.example.com"}}

	ctx := withOrigin("https://game.example.com")
	p.apply(ctx)
	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != "https://game.example.com" {
		t.Fatalf("listed origin not echoed: got=%q", got)
	}
	if got := string(ctx.Response.Header.Peek("Vary")); got != "Origin" {
		t.Fatalf("vary mismatch: got=%q", got)
	}

	ctx = withOrigin("https://evil.example.com")
	p.apply(ctx)
	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != "" {
		t.Fatalf("unlisted origin must get no cors headers, got=%q", got)
	}
}

func TestCORSMiddleware_AnswersPreflight(t *testing.T) {
	ctx := withOrigin("")
	ctx.Request.Header.SetMethod(consts.MethodOptions)

	corsMiddleware(nil)(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNoContent; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if !ctx.IsAborted() {
		t.Fatalf("expected preflight to stop the chain")
	}
}
