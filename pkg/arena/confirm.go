package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
)

// ConfirmStart starts the battle of the pending game the caller initiated.
// The first battle line is sent before it returns; the rest follow every tick
// interval until settlement.
func (m *Manager) ConfirmStart(ctx context.Context, playerID string) (*ActiveGame, error) {
	g, err := m.store.promote(playerID, time.Now())
	if err != nil {
		return nil, err
	}
	log.Info("Game %s between %s and %s started", g.ID, g.InitiatorID, g.OpponentID)

	// battle work outlives the command that started it
	bctx := context.WithoutCancel(ctx)
	m.notifyBoth(bctx, &g.PendingGame, fmt.Sprintf("The duel between %s and %s begins!", g.InitiatorName, g.OpponentName))

	if m.tick(bctx, g) {
		m.startScheduler(g)
	}
	snapshot := m.store.snapshot(g)
	return &snapshot, nil
}

func (m *Manager) armConfirmExpiry(g *PendingGame) *time.Timer {
	return time.AfterFunc(m.confirmTimeout, func() {
		m.expirePending(g)
	})
}

// expirePending cancels a game whose initiator never confirmed.
func (m *Manager) expirePending(g *PendingGame) {
	if !m.store.cancelPending(g) {
		return
	}
	log.Info("Game %s was not started within %s, cancelling", g.ID, m.confirmTimeout)
	reason := fmt.Sprintf("%s did not start the duel within %s.", g.InitiatorName, m.confirmTimeout)
	m.refundPending(context.WithoutCancel(m.ctx), g, reason)
}

func (m *Manager) refundPending(ctx context.Context, g *PendingGame, reason string) {
	m.refund(ctx, g.InitiatorID, g.InitiatorSession, g.InitiatorStake, reason)
	m.refund(ctx, g.OpponentID, g.OpponentSession, g.OpponentStake, reason)
}
