package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/google/uuid"
)

// WinProbability is the chance that the lobby resident beats the challenger.
// It is not clamped; level gaps beyond 0.5/weight make the outcome certain.
func (m *Manager) WinProbability(residentLevel, challengerLevel int) float64 {
	return 0.5 + m.levelWeight*float64(residentLevel-challengerLevel)
}

// pair opens a pending game between the lobby resident and the challenger
// whose escrows are both held. The resident becomes the initiator.
func (m *Manager) pair(ctx context.Context, resident, challenger *LobbyEntry) (*PendingGame, error) {
	residentProfile, err := m.ledger.Profile(ctx, resident.PlayerID)
	if err != nil {
		if repositories.IsNotFound(err) {
			log.Warn("Lobby opponent %s has no profile, cancelling pairing with %s", resident.PlayerID, challenger.PlayerID)
			m.refund(ctx, challenger.PlayerID, challenger.Session, challenger.Stake, "")
			m.store.release(resident.PlayerID, challenger.PlayerID)
			return nil, ErrStaleOpponent
		}
		m.abortPairing(ctx, resident, challenger)
		return nil, &LedgerError{Op: "load opponent", Err: err}
	}
	challengerProfile, err := m.ledger.Profile(ctx, challenger.PlayerID)
	if err != nil {
		m.abortPairing(ctx, resident, challenger)
		return nil, &LedgerError{Op: "load profile", Err: err}
	}

	p := m.WinProbability(residentProfile.Level, challengerProfile.Level)
	winner := challenger.PlayerID
	if m.draw() < p {
		winner = resident.PlayerID
	}

	g := &PendingGame{
		ID:               uuid.New(),
		InitiatorID:      resident.PlayerID,
		InitiatorName:    residentProfile.Name,
		InitiatorSession: resident.Session,
		InitiatorStake:   resident.Stake,
		OpponentID:       challenger.PlayerID,
		OpponentName:     challengerProfile.Name,
		OpponentSession:  challenger.Session,
		OpponentStake:    challenger.Stake,
		WinnerID:         winner,
		WinProbability:   p,
		CreatedAt:        time.Now(),
	}

	var arm func(*PendingGame) *time.Timer
	if m.confirmTimeout > 0 {
		arm = m.armConfirmExpiry
	}
	if err := m.store.openPending(g, arm); err != nil {
		m.abortPairing(ctx, resident, challenger)
		return nil, err
	}
	log.Info("Paired %s with %s in game %s (p=%.2f)", g.InitiatorID, g.OpponentID, g.ID, p)

	deadline := ""
	if m.confirmTimeout > 0 {
		deadline = fmt.Sprintf(" within %s", m.confirmTimeout)
	}
	m.notifier.Notify(ctx, g.InitiatorSession, fmt.Sprintf(
		"Matched against %s (Lv.%d) for %d points! Type /start%s to begin the duel.",
		g.OpponentName, challengerProfile.Level, g.OpponentStake, deadline))
	m.notifier.Notify(ctx, g.OpponentSession, fmt.Sprintf(
		"Matched against %s (Lv.%d) for %d points! Waiting for %s to start the duel.",
		g.InitiatorName, residentProfile.Level, g.InitiatorStake, g.InitiatorName))

	c := *g
	c.confirm = nil
	return &c, nil
}

// abortPairing refunds both escrows after a pairing failed part way.
func (m *Manager) abortPairing(ctx context.Context, resident, challenger *LobbyEntry) {
	m.refund(ctx, resident.PlayerID, resident.Session, resident.Stake, "Your match could not be set up.")
	m.refund(ctx, challenger.PlayerID, challenger.Session, challenger.Stake, "")
	m.store.release(resident.PlayerID, challenger.PlayerID)
}
