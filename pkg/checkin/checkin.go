// Package checkin awards the daily check-in bonus and levels players up.
package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
)

// ExperiencePerLevel is multiplied by the current level to get the
// experience needed for the next one.
const ExperiencePerLevel = 100

var ErrAlreadyCheckedIn = errors.New("already checked in today")

// Updater applies a read-modify-write to one profile.
type Updater interface {
	Update(ctx context.Context, playerID string, fn func(p *models.Profile) error) (*models.Profile, error)
}

type Service struct {
	ledger     Updater
	reward     int64
	levelBonus int64
	experience int64
	now        func() time.Time
}

type NewServiceOptions struct {
	Ledger Updater
	// Reward is paid on every check-in.
	Reward int64
	// LevelBonus is paid once per current level.
	LevelBonus int64
	// Experience is gained on every check-in.
	Experience int64
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(opts NewServiceOptions) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		ledger:     opts.Ledger,
		reward:     opts.Reward,
		levelBonus: opts.LevelBonus,
		experience: opts.Experience,
		now:        now,
	}
}

type Result struct {
	Awarded      int64
	LevelsGained int
	Profile      *models.Profile
}

// CheckIn pays the reward once per UTC day.
func (s *Service) CheckIn(ctx context.Context, playerID string) (*Result, error) {
	now := s.now().UTC()
	res := &Result{}

	p, err := s.ledger.Update(ctx, playerID, func(p *models.Profile) error {
		if sameDay(p.LastCheckIn, now) {
			return ErrAlreadyCheckedIn
		}
		if p.Level < 1 {
			p.Level = 1
		}
		res.Awarded = s.reward + int64(p.Level)*s.levelBonus
		p.Points += res.Awarded
		p.Experience += s.experience
		for p.Experience >= int64(p.Level)*ExperiencePerLevel {
			p.Experience -= int64(p.Level) * ExperiencePerLevel
			p.Level++
			res.LevelsGained++
		}
		p.LastCheckIn = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Profile = p
	if res.LevelsGained > 0 {
		log.Info("%s reached level %d", playerID, p.Level)
	}
	return res, nil
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
