package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("claim: %w", New(CodeRewardNothingToClaim))

	code, ok := Code(err)
	if !ok || code != CodeRewardNothingToClaim {
		t.Fatalf("code mismatch: got=%q,%v want=%q", code, ok, CodeRewardNothingToClaim)
	}
	if !errors.Is(err, New(CodeRewardNothingToClaim)) {
		t.Fatalf("expected errors.Is to match the same code")
	}
	if errors.Is(err, New(CodeRewardNotReached)) {
		t.Fatalf("expected errors.Is to reject a different code")
	}
}

func TestWithItemDoesNotMutateOriginal(t *testing.T) {
	base := New(CodeTreasureInvalidMaterial)
	withItem := base.WithItem(42)

	if base.ItemID != 0 {
		t.Fatalf("base mutated: got=%d want=0", base.ItemID)
	}
	if withItem.ItemID != 42 {
		t.Fatalf("item mismatch: got=%d want=42", withItem.ItemID)
	}
}

func TestOr(t *testing.T) {
	cause := errors.New("boom")

	err := Or(cause, CodeTreasureAutoFuseFailed)
	if !HasCode(err, CodeTreasureAutoFuseFailed) {
		t.Fatalf("fallback code missing: got=%v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: got=%v", err)
	}

	coded := New(CodeItemInsufficient)
	if got := Or(coded, CodeTreasureAutoFuseFailed); got != error(coded) {
		t.Fatalf("coded error replaced: got=%v", got)
	}
	if got := Or(nil, CodeSystem); got != nil {
		t.Fatalf("expected nil, got=%v", got)
	}
}

func TestMessageFallsBackToCode(t *testing.T) {
	if got := Message(CodeItemInsufficient); got != "not enough items" {
		t.Fatalf("message mismatch: got=%q want=%q", got, "not enough items")
	}
	if got := Message("X:0001"); got != "X:0001" {
		t.Fatalf("message mismatch: got=%q want=%q", got, "X:0001")
	}
}
