package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"surgame/internal/app/ports"
	"surgame/internal/domain/challenge"
	"surgame/internal/domain/journey"
	"surgame/internal/domain/treasure"
)

const DefaultStaminaMax = 100

type balanceKey struct {
	userID int64
	itemID int64
}

type claimKey struct {
	uid      int64
	rewardID int64
}

type challengeKey struct {
	uid       int64
	chapterID int64
}

type ItemLog struct {
	Action    ports.LedgerAction
	UserID    int64
	UID       int64
	ItemID    int64
	Delta     int64
	Memo      string
	CreatedAt time.Time
}

// Store keeps every table in maps. Writes made inside RunInTx are undone
// when the transaction function fails.
type Store struct {
	mu sync.RWMutex

	users      map[int64]ports.User
	metas      map[int64]treasure.ItemMeta
	balances   map[balanceKey]int64
	itemLogs   []ItemLog
	progress   map[int64]journey.Progress
	claims     map[claimKey]journey.Claim
	challenges map[challengeKey]challenge.Record
	starClaims map[claimKey]struct{}
	stamina    map[int64]int64
	staminaMax int64
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]ports.User),
		metas:      make(map[int64]treasure.ItemMeta),
		balances:   make(map[balanceKey]int64),
		progress:   make(map[int64]journey.Progress),
		claims:     make(map[claimKey]journey.Claim),
		challenges: make(map[challengeKey]challenge.Record),
		starClaims: make(map[claimKey]struct{}),
		stamina:    make(map[int64]int64),
		staminaMax: DefaultStaminaMax,
	}
}

type snapshot struct {
	balances   map[balanceKey]int64
	logCount   int
	progress   map[int64]journey.Progress
	claims     map[claimKey]journey.Claim
	challenges map[challengeKey]challenge.Record
	starClaims map[claimKey]struct{}
	stamina    map[int64]int64
}

// Challenge records are copied on write, so a shallow clone is enough.
func (s *Store) snapshot() snapshot {
	return snapshot{
		balances:   maps.Clone(s.balances),
		logCount:   len(s.itemLogs),
		progress:   maps.Clone(s.progress),
		claims:     maps.Clone(s.claims),
		challenges: maps.Clone(s.challenges),
		starClaims: maps.Clone(s.starClaims),
		stamina:    maps.Clone(s.stamina),
	}
}

func (s *Store) restore(snap snapshot) {
	s.balances = snap.balances
	s.itemLogs = s.itemLogs[:snap.logCount]
	s.progress = snap.progress
	s.claims = snap.claims
	s.challenges = snap.challenges
	s.starClaims = snap.starClaims
	s.stamina = snap.stamina
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(*Store)
	return v != nil
}

func (s *Store) read(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) SeedUser(user ports.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UID] = user
}

func (s *Store) SeedItemMetas(metas []treasure.ItemMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range metas {
		s.metas[m.ItemID] = m
	}
}

func (s *Store) SeedBalance(userID, itemID, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey{userID: userID, itemID: itemID}] = qty
}

func (s *Store) SetStaminaMax(max int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staminaMax = max
}

// ItemLogs returns a copy of the ledger history.
func (s *Store) ItemLogs() []ItemLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ItemLog(nil), s.itemLogs...)
}
