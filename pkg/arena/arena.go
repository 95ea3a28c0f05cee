// Package arena runs the duel lifecycle: lobby queuing with timeout refunds,
// pairing with stake escrow, the start confirmation gate and the timed battle
// broadcast that ends in settlement.
//
// All lobby, pending and active state lives in one Store owned by the Manager.
// Store transitions never suspend; every ledger read or write and every
// notification happens outside the store lock, and timer callbacks re-check
// the store before acting.
package arena

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
)

const (
	DefaultDeposit        = 2
	DefaultLobbyTimeout   = 60 * time.Second
	DefaultConfirmTimeout = 60 * time.Second
	DefaultTickInterval   = 2 * time.Second
	DefaultTickCount      = 5
	DefaultLevelWeight    = 0.05
)

// Ledger is the balance store the arena escrows against.
type Ledger interface {
	Profile(ctx context.Context, playerID string) (*models.Profile, error)
	Ensure(ctx context.Context, playerID, name string) (*models.Profile, error)
	Debit(ctx context.Context, playerID string, amount int64) (int64, error)
	Credit(ctx context.Context, playerID string, amount int64) (int64, error)
}

// Notifier delivers text to a player's chat session. Delivery failures are the
// notifier's concern.
type Notifier interface {
	Notify(ctx context.Context, session string, text string)
}

// Player is the invoking player as bound by the chat host.
type Player struct {
	ID      string
	Name    string
	Session string
}

type Manager struct {
	ledger   Ledger
	notifier Notifier
	store    *Store

	deposit        int64
	lobbyTimeout   time.Duration
	confirmTimeout time.Duration
	tickInterval   time.Duration
	tickCount      int
	levelWeight    float64

	randLock sync.Mutex
	rand     *rand.Rand

	// ctx outlives individual commands; timers and battle schedulers use it
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManagerOptions contains options for creating a new Manager.
type NewManagerOptions struct {
	Ledger   Ledger
	Notifier Notifier
	// Deposit is charged to both players on top of their stake.
	Deposit int64
	// LobbyTimeout defaults to DefaultLobbyTimeout when zero.
	LobbyTimeout time.Duration
	// ConfirmTimeout bounds how long a pending game waits for its initiator.
	// Zero leaves pending games open until confirmed.
	ConfirmTimeout time.Duration
	// TickInterval defaults to DefaultTickInterval when zero.
	TickInterval time.Duration
	// TickCount defaults to DefaultTickCount when zero.
	TickCount int
	// LevelWeight defaults to DefaultLevelWeight when nil. A zero weight
	// makes every duel a coin flip.
	LevelWeight *float64
	// Rand defaults to a time seeded PCG source.
	Rand *rand.Rand
}

func NewManager(opts NewManagerOptions) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		ledger:         opts.Ledger,
		notifier:       opts.Notifier,
		store:          NewStore(),
		deposit:        opts.Deposit,
		lobbyTimeout:   opts.LobbyTimeout,
		confirmTimeout: opts.ConfirmTimeout,
		tickInterval:   opts.TickInterval,
		tickCount:      opts.TickCount,
		levelWeight:    DefaultLevelWeight,
		rand:           opts.Rand,
		ctx:            ctx,
		cancel:         cancel,
	}
	if m.deposit < 0 {
		m.deposit = 0
	}
	if m.lobbyTimeout <= 0 {
		m.lobbyTimeout = DefaultLobbyTimeout
	}
	if m.confirmTimeout < 0 {
		m.confirmTimeout = 0
	}
	if m.tickInterval <= 0 {
		m.tickInterval = DefaultTickInterval
	}
	if m.tickCount <= 0 {
		m.tickCount = DefaultTickCount
	}
	if opts.LevelWeight != nil {
		m.levelWeight = *opts.LevelWeight
	}
	if m.rand == nil {
		seed := uint64(time.Now().UnixNano())
		m.rand = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	return m
}

// Deposit returns the fixed escrow charged on top of each stake.
func (m *Manager) Deposit() int64 {
	return m.deposit
}

// LobbyTimeout returns how long a lobby entry waits before being refunded.
func (m *Manager) LobbyTimeout() time.Duration {
	return m.lobbyTimeout
}

// MaxStake is the largest stake Enqueue accepts. It keeps the pot of two
// escrows within int64.
func (m *Manager) MaxStake() int64 {
	return math.MaxInt64/2 - m.deposit
}

// Stats returns the current number of waiting, pending and active games.
func (m *Manager) Stats() Stats {
	return m.store.Stats()
}

// Where reports which structure, if any, holds the player.
func (m *Manager) Where(playerID string) Participation {
	return m.store.Where(playerID)
}

// Close stops accepting commands and releases every escrow it holds:
// lobby entries and pending games are refunded and running battles are
// settled immediately with their precomputed winner.
func (m *Manager) Close(ctx context.Context) {
	m.cancel()
	lobby, pending, active := m.store.drain()
	log.Info("Closing arena with %d waiting, %d pending and %d active games", len(lobby), len(pending), len(active))

	for _, entry := range lobby {
		m.refund(ctx, entry.PlayerID, entry.Session, entry.Stake, "The arena is closing.")
	}
	for _, g := range pending {
		m.refundPending(ctx, g, "The arena is closing.")
	}
	for _, g := range active {
		m.settle(ctx, g)
	}
	m.wg.Wait()
}

func (m *Manager) draw() float64 {
	m.randLock.Lock()
	defer m.randLock.Unlock()
	return m.rand.Float64()
}

func (m *Manager) pick(n int) int {
	m.randLock.Lock()
	defer m.randLock.Unlock()
	return m.rand.IntN(n)
}

func (m *Manager) notifyBoth(ctx context.Context, g *PendingGame, text string) {
	m.notifier.Notify(ctx, g.InitiatorSession, text)
	m.notifier.Notify(ctx, g.OpponentSession, text)
}
