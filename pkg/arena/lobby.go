package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/ledger"
	"github.com/cbodonnell/duelbot/pkg/log"
)

type EnqueueStatus int

const (
	// StatusQueued means the player waits in the lobby.
	StatusQueued EnqueueStatus = iota
	// StatusPaired means a pending game was opened against a lobby resident.
	StatusPaired
)

type EnqueueResult struct {
	Status EnqueueStatus
	// Balance is the caller's balance after the escrow was taken.
	Balance int64
	// Escrow is stake plus deposit.
	Escrow int64
	// ExpiresAt is set for StatusQueued.
	ExpiresAt time.Time
	// Game is set for StatusPaired.
	Game *PendingGame
}

// Enqueue escrows stake plus the deposit from the caller and either pairs
// them with the oldest lobby entry or leaves them waiting in the lobby.
func (m *Manager) Enqueue(ctx context.Context, player Player, stake int64) (*EnqueueResult, error) {
	if stake <= 0 || stake > m.MaxStake() {
		return nil, ErrInvalidStake
	}
	if err := m.store.reserve(player.ID); err != nil {
		return nil, err
	}

	profile, err := m.ledger.Ensure(ctx, player.ID, player.Name)
	if err != nil {
		m.store.release(player.ID)
		return nil, &LedgerError{Op: "load profile", Err: err}
	}

	escrow := stake + m.deposit
	balance, err := m.ledger.Debit(ctx, player.ID, escrow)
	if err != nil {
		m.store.release(player.ID)
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return nil, fmt.Errorf("%w: %d points needed, %d available", ErrInsufficientBalance, escrow, balance)
		}
		return nil, &LedgerError{Op: "escrow", Err: err}
	}

	name := profile.Name
	if name == "" {
		name = player.Name
	}
	entry := &LobbyEntry{
		PlayerID: player.ID,
		Name:     name,
		Session:  player.Session,
		Stake:    stake,
		QueuedAt: time.Now(),
	}
	opponent, err := m.store.admit(entry, m.armLobbyExpiry)
	if err != nil {
		m.refund(ctx, player.ID, player.Session, stake, "")
		m.store.release(player.ID)
		return nil, err
	}

	if opponent == nil {
		log.Debug("%s queued with stake %d", player.ID, stake)
		return &EnqueueResult{
			Status:    StatusQueued,
			Balance:   balance,
			Escrow:    escrow,
			ExpiresAt: entry.QueuedAt.Add(m.lobbyTimeout),
		}, nil
	}

	g, err := m.pair(ctx, opponent, entry)
	if err != nil {
		return nil, err
	}
	return &EnqueueResult{
		Status:  StatusPaired,
		Balance: balance,
		Escrow:  escrow,
		Game:    g,
	}, nil
}

func (m *Manager) armLobbyExpiry(entry *LobbyEntry) *time.Timer {
	return time.AfterFunc(m.lobbyTimeout, func() {
		m.expireEntry(entry)
	})
}

// expireEntry refunds an entry that was still waiting when its timer fired.
func (m *Manager) expireEntry(entry *LobbyEntry) {
	if !m.store.expire(entry) {
		log.Debug("Lobby entry for %s already left the lobby", entry.PlayerID)
		return
	}
	log.Debug("Lobby entry for %s expired", entry.PlayerID)
	reason := fmt.Sprintf("No opponent showed up within %s.", m.lobbyTimeout)
	m.refund(context.WithoutCancel(m.ctx), entry.PlayerID, entry.Session, entry.Stake, reason)
}

// refund returns stake plus deposit to the player and tells them why when
// reason is not empty.
func (m *Manager) refund(ctx context.Context, playerID, session string, stake int64, reason string) {
	escrow := stake + m.deposit
	balance, err := m.ledger.Credit(ctx, playerID, escrow)
	if err != nil {
		log.Error("Failed to refund %d points to %s: %v", escrow, playerID, err)
		if reason != "" {
			m.notifier.Notify(ctx, session, fmt.Sprintf("%s Your refund of %d points could not be recorded.", reason, escrow))
		}
		return
	}
	if reason != "" {
		m.notifier.Notify(ctx, session, fmt.Sprintf("%s Refunded %d points. Balance: %d.", reason, escrow, balance))
	}
}
