package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify_MarksRetryableCodes(t *testing.T) {
	for _, code := range []string{"40001", "40P01"} {
		err := classify(fmt.Errorf("commit: %w", &pgconn.PgError{Code: code}))
		if !errors.Is(err, ports.ErrTransient) {
			t.Fatalf("code %s: expected ErrTransient, got %v", code, err)
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			t.Fatalf("code %s: original error lost", code)
		}
	}
}

func TestClassify_LeavesOtherErrorsAlone(t *testing.T) {
	coded := apperr.New(apperr.CodeItemInsufficient)
	if got := classify(coded); got != coded {
		t.Fatalf("coded error changed: got=%v", got)
	}
	if err := classify(&pgconn.PgError{Code: "23505"}); errors.Is(err, ports.ErrTransient) {
		t.Fatalf("unique violation must not be transient")
	}
	if classify(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestTxFromCtx_IgnoresMissingTx(t *testing.T) {
	if _, ok := txFromCtx(context.Background()); ok {
		t.Fatalf("empty context must not carry a tx")
	}
	if _, ok := txFromCtx(withTx(context.Background(), nil)); ok {
		t.Fatalf("nil tx must be ignored")
	}
}
