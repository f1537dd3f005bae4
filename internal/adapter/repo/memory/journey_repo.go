package memory

import (
	"context"

	"surgame/internal/app/ports"
	"surgame/internal/domain/journey"
)

type ProgressRepo struct {
	store *Store
}

func NewProgressRepo(store *Store) ProgressRepo {
	return ProgressRepo{store: store}
}

func (r ProgressRepo) Get(ctx context.Context, uid int64) (journey.Progress, error) {
	var (
		p  journey.Progress
		ok bool
	)
	r.store.read(ctx, func() {
		p, ok = r.store.progress[uid]
	})
	if !ok {
		return journey.Progress{}, ports.ErrNotFound
	}
	return p, nil
}

func (r ProgressRepo) GetForUpdate(ctx context.Context, uid int64) (journey.Progress, error) {
	return r.Get(ctx, uid)
}

func (r ProgressRepo) Save(ctx context.Context, p journey.Progress) error {
	return r.store.write(ctx, func() error {
		r.store.progress[p.UID] = p
		return nil
	})
}

func (r ProgressRepo) Delete(ctx context.Context, uid int64) error {
	return r.store.write(ctx, func() error {
		delete(r.store.progress, uid)
		return nil
	})
}

type ClaimRepo struct {
	store *Store
}

func NewClaimRepo(store *Store) ClaimRepo {
	return ClaimRepo{store: store}
}

func (r ClaimRepo) ListByRewardIDs(ctx context.Context, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error) {
	out := make(map[int64]journey.Claim, len(rewardIDs))
	r.store.read(ctx, func() {
		for _, id := range rewardIDs {
			if c, ok := r.store.claims[claimKey{uid: uid, rewardID: id}]; ok {
				out[id] = c
			}
		}
	})
	return out, nil
}

func (r ClaimRepo) ListByRewardIDsForUpdate(ctx context.Context, uid int64, rewardIDs []int64) (map[int64]journey.Claim, error) {
	return r.ListByRewardIDs(ctx, uid, rewardIDs)
}

func (r ClaimRepo) MarkReceived(ctx context.Context, uid, rewardID int64) error {
	return r.store.write(ctx, func() error {
		r.store.claims[claimKey{uid: uid, rewardID: rewardID}] = journey.Claim{RewardID: rewardID, IsReceived: true}
		return nil
	})
}

// SeedClaim stores a claim row as-is, including unreceived ones.
func (r ClaimRepo) SeedClaim(uid int64, claim journey.Claim) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.claims[claimKey{uid: uid, rewardID: claim.RewardID}] = claim
}

func (r ClaimRepo) DeleteByUID(ctx context.Context, uid int64) error {
	return r.store.write(ctx, func() error {
		for k := range r.store.claims {
			if k.uid == uid {
				delete(r.store.claims, k)
			}
		}
		return nil
	})
}
