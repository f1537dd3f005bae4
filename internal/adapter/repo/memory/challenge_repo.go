package memory

import (
	"context"
	"sort"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
	"surgame/internal/domain/challenge"
)

type ChallengeRepo struct {
	store *Store
}

func NewChallengeRepo(store *Store) ChallengeRepo {
	return ChallengeRepo{store: store}
}

func (r ChallengeRepo) GetForUpdate(ctx context.Context, uid, chapterID int64) (challenge.Record, error) {
	var (
		rec challenge.Record
		ok  bool
	)
	r.store.read(ctx, func() {
		rec, ok = r.store.challenges[challengeKey{uid: uid, chapterID: chapterID}]
	})
	if !ok {
		return challenge.Record{}, ports.ErrNotFound
	}
	rec.Stars = append([]int(nil), rec.Stars...)
	return rec, nil
}

func (r ChallengeRepo) Save(ctx context.Context, rec challenge.Record) error {
	rec.Stars = append([]int(nil), rec.Stars...)
	return r.store.write(ctx, func() error {
		r.store.challenges[challengeKey{uid: rec.UID, chapterID: rec.ChapterID}] = rec
		return nil
	})
}

func (r ChallengeRepo) ListByUID(ctx context.Context, uid int64) ([]challenge.Record, error) {
	var out []challenge.Record
	r.store.read(ctx, func() {
		for k, rec := range r.store.challenges {
			if k.uid != uid {
				continue
			}
			rec.Stars = append([]int(nil), rec.Stars...)
			out = append(out, rec)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterID < out[j].ChapterID })
	return out, nil
}

func (r ChallengeRepo) ClaimedRewards(ctx context.Context, uid int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	r.store.read(ctx, func() {
		for k := range r.store.starClaims {
			if k.uid == uid {
				out[k.rewardID] = true
			}
		}
	})
	return out, nil
}

func (r ChallengeRepo) CreateClaim(ctx context.Context, uid, rewardID int64) error {
	return r.store.write(ctx, func() error {
		k := claimKey{uid: uid, rewardID: rewardID}
		if _, ok := r.store.starClaims[k]; ok {
			return ports.ErrConflict
		}
		r.store.starClaims[k] = struct{}{}
		return nil
	})
}

func (r ChallengeRepo) DeleteByUID(ctx context.Context, uid int64) error {
	return r.store.write(ctx, func() error {
		for k := range r.store.challenges {
			if k.uid == uid {
				delete(r.store.challenges, k)
			}
		}
		for k := range r.store.starClaims {
			if k.uid == uid {
				delete(r.store.starClaims, k)
			}
		}
		return nil
	})
}

type StaminaLedger struct {
	store *Store
}

func NewStaminaLedger(store *Store) StaminaLedger {
	return StaminaLedger{store: store}
}

func (l StaminaLedger) Current(ctx context.Context, uid int64) (int64, error) {
	var cur int64
	l.store.read(ctx, func() {
		cur = l.current(uid)
	})
	return cur, nil
}

func (l StaminaLedger) current(uid int64) int64 {
	if v, ok := l.store.stamina[uid]; ok {
		return v
	}
	return l.store.staminaMax
}

func (l StaminaLedger) Deduct(ctx context.Context, uid, amount int64, _ string) (int64, error) {
	var remaining int64
	err := l.store.write(ctx, func() error {
		cur := l.current(uid)
		if cur < amount {
			return apperr.New(apperr.CodeStaminaInsufficient)
		}
		remaining = cur - amount
		l.store.stamina[uid] = remaining
		return nil
	})
	return remaining, err
}
