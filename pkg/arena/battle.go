package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
)

// startScheduler runs the remaining ticks of g in the background.
func (m *Manager) startScheduler(g *ActiveGame) {
	ctx, cancel := context.WithCancel(m.ctx)
	if !m.store.attach(g, &tickHandle{stop: cancel}, &m.wg) {
		cancel()
		return
	}
	go m.runBattle(ctx, g)
}

func (m *Manager) runBattle(ctx context.Context, g *ActiveGame) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.tick(context.WithoutCancel(ctx), g) {
				return
			}
		}
	}
}

// tick sends the next battle line to both players and settles after the last
// one. It reports whether more ticks are due.
func (m *Manager) tick(ctx context.Context, g *ActiveGame) bool {
	res, ok := m.store.advance(g, m.tickCount)
	if !ok {
		return false
	}
	m.notifyBoth(ctx, &g.PendingGame, m.battleLine(ctx, g, res.tick))
	if !res.final {
		return true
	}
	if res.handle != nil {
		res.handle.stop()
	}
	m.settle(ctx, g)
	return false
}

// battleLine renders "(n/N): <loser phrase> <winner phrase>" from the players'
// current profiles.
func (m *Manager) battleLine(ctx context.Context, g *ActiveGame, n int) string {
	winnerID, winnerName, _ := g.winner()
	loserID, loserName, _ := g.loser()
	winnerLevel, loserLevel := 0, 0

	if p, err := m.ledger.Profile(ctx, winnerID); err == nil {
		winnerName, winnerLevel = p.Name, p.Level
	} else {
		log.Warn("Failed to read profile %s for game %s: %v", winnerID, g.ID, err)
	}
	if p, err := m.ledger.Profile(ctx, loserID); err == nil {
		loserName, loserLevel = p.Name, p.Level
	} else {
		log.Warn("Failed to read profile %s for game %s: %v", loserID, g.ID, err)
	}

	loserPhrase := fmt.Sprintf(loserPhrases[m.pick(len(loserPhrases))], loserName, loserLevel)
	winnerPhrase := fmt.Sprintf(winnerPhrases[m.pick(len(winnerPhrases))], winnerName, winnerLevel)
	return fmt.Sprintf("(%d/%d): %s %s", n, m.tickCount, loserPhrase, winnerPhrase)
}

// settle credits the winner with both escrows and reports the result to each
// player. The loser's escrow was already taken at enqueue time.
func (m *Manager) settle(ctx context.Context, g *ActiveGame) {
	winnerID, winnerName, winnerSession := g.winner()
	loserID, loserName, loserSession := g.loser()

	pot := g.InitiatorStake + g.OpponentStake + 2*m.deposit
	won := g.loserStake() + m.deposit

	winnerBalance, err := m.ledger.Credit(ctx, winnerID, pot)
	if err != nil {
		log.Error("Failed to settle game %s: crediting %d points to %s: %v", g.ID, pot, winnerID, err)
		m.notifyBoth(ctx, &g.PendingGame, "The duel ended but its result could not be recorded. Please contact an administrator.")
		return
	}
	log.Info("Game %s settled: %s beat %s for %d points", g.ID, winnerID, loserID, won)

	m.notifier.Notify(ctx, winnerSession, fmt.Sprintf(
		"Victory! You defeated %s and won %d points. Balance: %d.", loserName, won, winnerBalance))

	loserText := fmt.Sprintf("Defeat! %s beat you and you lost %d points.", winnerName, won)
	if p, err := m.ledger.Profile(ctx, loserID); err == nil {
		loserText = fmt.Sprintf("%s Balance: %d.", loserText, p.Points)
	} else {
		log.Warn("Failed to read balance of %s after game %s: %v", loserID, g.ID, err)
	}
	m.notifier.Notify(ctx, loserSession, loserText)
}
