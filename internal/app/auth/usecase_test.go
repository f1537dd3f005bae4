package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
)

var fixedNow = time.Unix(1760000000, 0).UTC()

func codec() TokenCodec {
	return TokenCodec{Secret: []byte("test-secret"), Now: func() time.Time { return fixedNow }}
}

type fakeUsers map[int64]ports.User

func (f fakeUsers) GetByUID(_ context.Context, uid int64) (ports.User, error) {
	u, ok := f[uid]
	if !ok {
		return ports.User{}, ports.ErrNotFound
	}
	return u, nil
}

func TestVerifyUseCase_AcceptsIssuedToken(t *testing.T) {
	token, err := codec().Issue(501, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	uc := VerifyUseCase{Tokens: codec(), Users: fakeUsers{501: {ID: 9, UID: 501}}}

	p, err := uc.Execute(context.Background(), VerifyRequest{Bearer: token})
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if p != (Principal{UserID: 9, UID: 501}) {
		t.Fatalf("principal mismatch: got=%+v", p)
	}
}

func TestVerifyUseCase_RejectsBadTokens(t *testing.T) {
	expired, _ := codec().Issue(501, -time.Minute)
	foreign, _ := TokenCodec{Secret: []byte("other"), Now: codec().Now}.Issue(501, time.Hour)
	uc := VerifyUseCase{Tokens: codec(), Users: fakeUsers{501: {ID: 9, UID: 501}}}

	for name, token := range map[string]string{"expired": expired, "foreign": foreign, "garbage": "abc.def"} {
		if _, err := uc.Execute(context.Background(), VerifyRequest{Bearer: token}); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestVerifyUseCase_TokenForUnknownUser(t *testing.T) {
	token, _ := codec().Issue(77, time.Hour)
	uc := VerifyUseCase{Tokens: codec(), Users: fakeUsers{}}

	_, err := uc.Execute(context.Background(), VerifyRequest{Bearer: token})
	if !apperr.HasCode(err, apperr.CodeUserNotFound) {
		t.Fatalf("expected %s, got %v", apperr.CodeUserNotFound, err)
	}
}

func TestVerifyUseCase_TrustedOriginUsesUIDParam(t *testing.T) {
	uc := VerifyUseCase{Tokens: codec(), Users: fakeUsers{501: {ID: 9, UID: 501}}, PassDomain: "tools.example.com"}
	ctx := context.Background()

	p, err := uc.Execute(ctx, VerifyRequest{Origin: "https://tools.example.com", UID: "501"})
	if err != nil || p.UserID != 9 {
		t.Fatalf("origin bypass: p=%+v err=%v", p, err)
	}
	p, err = uc.Execute(ctx, VerifyRequest{Referer: "https://tools.example.com/page?x=1", UID: "888"})
	if err != nil || p != (Principal{UID: 888}) {
		t.Fatalf("referer bypass: p=%+v err=%v", p, err)
	}
	if _, err := uc.Execute(ctx, VerifyRequest{Origin: "https://tools.example.com", UID: "abc"}); !apperr.HasCode(err, apperr.CodeUIDRequired) {
		t.Fatalf("expected %s, got %v", apperr.CodeUIDRequired, err)
	}
	if _, err := uc.Execute(ctx, VerifyRequest{Origin: "https://evil.example.com", UID: "501"}); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestVerifyUseCase_NoPassDomainNeverTrusts(t *testing.T) {
	uc := VerifyUseCase{}
	if uc.Trusted("https://anything", "") {
		t.Fatalf("empty pass domain must not trust any origin")
	}
}
