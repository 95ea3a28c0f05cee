// Package commands turns chat text into arena, profile and check-in calls
// and renders a single reply line for each.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cbodonnell/duelbot/pkg/arena"
	"github.com/cbodonnell/duelbot/pkg/checkin"
	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
)

const HelpText = "Commands: /duel <stake> to bet points on a duel, /start to begin a matched duel, " +
	"/profile to see your points and level, /checkin for the daily reward, /help for this message."

type Arena interface {
	Enqueue(ctx context.Context, player arena.Player, stake int64) (*arena.EnqueueResult, error)
	ConfirmStart(ctx context.Context, playerID string) (*arena.ActiveGame, error)
	Where(playerID string) arena.Participation
	Deposit() int64
	LobbyTimeout() time.Duration
}

type Profiles interface {
	Ensure(ctx context.Context, playerID, name string) (*models.Profile, error)
}

type CheckIns interface {
	CheckIn(ctx context.Context, playerID string) (*checkin.Result, error)
}

type Dispatcher struct {
	arena    Arena
	profiles Profiles
	checkIns CheckIns
}

type NewDispatcherOptions struct {
	Arena    Arena
	Profiles Profiles
	CheckIns CheckIns
}

func NewDispatcher(opts NewDispatcherOptions) *Dispatcher {
	return &Dispatcher{
		arena:    opts.Arena,
		profiles: opts.Profiles,
		checkIns: opts.CheckIns,
	}
}

// Handle runs one command for player and returns the reply.
func (d *Dispatcher) Handle(ctx context.Context, player arena.Player, text string) string {
	name, args := parse(text)
	log.Debug("Command %q from %s", name, player.ID)

	switch name {
	case "duel":
		return d.duel(ctx, player, args)
	case "start":
		return d.start(ctx, player)
	case "profile":
		return d.profile(ctx, player)
	case "checkin":
		return d.checkIn(ctx, player)
	default:
		return HelpText
	}
}

func parse(text string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "", nil
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	return name, fields[1:]
}

func (d *Dispatcher) duel(ctx context.Context, player arena.Player, args []string) string {
	if len(args) != 1 {
		return "Usage: /duel <stake>"
	}
	stake, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return "Usage: /duel <stake>, where stake is a whole number of points."
	}

	res, err := d.arena.Enqueue(ctx, player, stake)
	if err != nil {
		return d.failure(player, "join the duel", err)
	}

	switch res.Status {
	case arena.StatusPaired:
		return fmt.Sprintf("Escrowed %d points (stake %d + deposit %d) and matched against %s. Balance: %d.",
			res.Escrow, stake, d.arena.Deposit(), res.Game.InitiatorName, res.Balance)
	default:
		return fmt.Sprintf("Escrowed %d points (stake %d + deposit %d). Waiting up to %s for an opponent. Balance: %d.",
			res.Escrow, stake, d.arena.Deposit(), d.arena.LobbyTimeout(), res.Balance)
	}
}

func (d *Dispatcher) start(ctx context.Context, player arena.Player) string {
	g, err := d.arena.ConfirmStart(ctx, player.ID)
	if err != nil {
		if errors.Is(err, arena.ErrNoPendingGame) {
			if d.arena.Where(player.ID) == arena.Pending {
				return "Only the player who was waiting in the lobby can start this duel."
			}
			return "You have no matched duel to start. Use /duel <stake> first."
		}
		return d.failure(player, "start the duel", err)
	}
	return fmt.Sprintf("The duel against %s has started!", g.OpponentName)
}

func (d *Dispatcher) profile(ctx context.Context, player arena.Player) string {
	p, err := d.profiles.Ensure(ctx, player.ID, player.Name)
	if err != nil {
		return d.failure(player, "load your profile", err)
	}
	return fmt.Sprintf("%s | Lv.%d (%d/%d exp) | %d points | %s",
		p.Name, p.Level, p.Experience, int64(p.Level)*checkin.ExperiencePerLevel, p.Points, d.arena.Where(player.ID))
}

func (d *Dispatcher) checkIn(ctx context.Context, player arena.Player) string {
	if _, err := d.profiles.Ensure(ctx, player.ID, player.Name); err != nil {
		return d.failure(player, "check in", err)
	}
	res, err := d.checkIns.CheckIn(ctx, player.ID)
	if err != nil {
		if errors.Is(err, checkin.ErrAlreadyCheckedIn) {
			return "You already checked in today. Come back tomorrow!"
		}
		return d.failure(player, "check in", err)
	}

	reply := fmt.Sprintf("Checked in! +%d points. Balance: %d.", res.Awarded, res.Profile.Points)
	if res.LevelsGained > 0 {
		reply += fmt.Sprintf(" Level up! You are now Lv.%d.", res.Profile.Level)
	}
	return reply
}

func (d *Dispatcher) failure(player arena.Player, action string, err error) string {
	switch {
	case arena.IsValidation(err):
		return fmt.Sprintf("Cannot %s: %v.", action, err)
	case arena.IsConflict(err):
		return fmt.Sprintf("Cannot %s: you are already %s.", action, d.arena.Where(player.ID))
	case errors.Is(err, arena.ErrStaleOpponent):
		return "Your opponent is no longer available. Your escrow was refunded, try /duel again."
	case errors.Is(err, arena.ErrClosed):
		return "The arena is closed."
	default:
		log.Error("Failed to %s for %s: %v", action, player.ID, err)
		return fmt.Sprintf("Could not %s right now, please try again later.", action)
	}
}
