// Package ledger serializes balance changes on top of a profile repository.
//
// Repositories only offer get and set. The Gateway turns those into per-player
// read-modify-write operations so a settlement credit and a new escrow debit
// for the same player never interleave and lose an update.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
)

var (
	// ErrInsufficientFunds is returned by Debit when the balance is below the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned by Debit and Credit for negative amounts.
	ErrInvalidAmount = errors.New("amount must not be negative")
	// ErrBalanceOverflow is returned by Credit when the balance would exceed int64.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Gateway is safe for concurrent use.
type Gateway struct {
	repository repositories.Repository
	locks      *keyedMutex
	defaults   models.Profile
}

type NewGatewayOptions struct {
	Repository repositories.Repository
	// StartingPoints is the balance of profiles created by Ensure.
	StartingPoints int64
}

func NewGateway(opts NewGatewayOptions) *Gateway {
	return &Gateway{
		repository: opts.Repository,
		locks:      newKeyedMutex(),
		defaults: models.Profile{
			Points: opts.StartingPoints,
			Level:  1,
		},
	}
}

// Profile returns the current profile or an error satisfying
// repositories.IsNotFound.
func (g *Gateway) Profile(ctx context.Context, playerID string) (*models.Profile, error) {
	return g.repository.GetProfile(ctx, playerID)
}

// Ensure returns the player's profile, creating it with the starting balance
// when the player has none.
func (g *Gateway) Ensure(ctx context.Context, playerID, name string) (*models.Profile, error) {
	unlock := g.locks.Lock(playerID)
	defer unlock()

	p, err := g.repository.GetProfile(ctx, playerID)
	if err == nil {
		return p, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get profile %s: %w", playerID, err)
	}

	return g.create(ctx, playerID, name)
}

// Register creates a profile with the starting balance. It fails with an
// error satisfying repositories.IsProfileExists when the player has one.
func (g *Gateway) Register(ctx context.Context, playerID, name string) (*models.Profile, error) {
	unlock := g.locks.Lock(playerID)
	defer unlock()

	return g.create(ctx, playerID, name)
}

func (g *Gateway) create(ctx context.Context, playerID, name string) (*models.Profile, error) {
	initial := g.defaults
	initial.ID = playerID
	initial.Name = name
	p, err := g.repository.CreateProfile(ctx, &initial)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", playerID, err)
	}
	log.Info("Created profile for %s with %d points", playerID, p.Points)
	return p, nil
}

// Debit removes amount from the balance and returns the new balance.
// It fails with ErrInsufficientFunds without writing when the balance is short.
func (g *Gateway) Debit(ctx context.Context, playerID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: debit of %d", ErrInvalidAmount, amount)
	}
	return g.adjust(ctx, playerID, -amount, true)
}

// Credit adds amount to the balance and returns the new balance.
func (g *Gateway) Credit(ctx context.Context, playerID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: credit of %d", ErrInvalidAmount, amount)
	}
	return g.adjust(ctx, playerID, amount, false)
}

func (g *Gateway) adjust(ctx context.Context, playerID string, delta int64, guard bool) (int64, error) {
	unlock := g.locks.Lock(playerID)
	defer unlock()

	p, err := g.repository.GetProfile(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get profile %s: %w", playerID, err)
	}
	if guard && p.Points+delta < 0 {
		return p.Points, fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, p.Points, -delta)
	}
	if delta > 0 && p.Points > math.MaxInt64-delta {
		return p.Points, fmt.Errorf("%w: balance %d, credit %d", ErrBalanceOverflow, p.Points, delta)
	}

	points := p.Points + delta
	if err := retryOnce(func() error {
		return g.repository.SetPoints(ctx, playerID, points)
	}); err != nil {
		return p.Points, fmt.Errorf("failed to set points for %s: %w", playerID, err)
	}
	return points, nil
}

// Update applies fn to the current profile and saves the result.
// Nothing is written when fn returns an error.
func (g *Gateway) Update(ctx context.Context, playerID string, fn func(p *models.Profile) error) (*models.Profile, error) {
	unlock := g.locks.Lock(playerID)
	defer unlock()

	p, err := g.repository.GetProfile(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", playerID, err)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.ID = playerID
	if err := retryOnce(func() error {
		return g.repository.SaveProfile(ctx, p)
	}); err != nil {
		return nil, fmt.Errorf("failed to save profile %s: %w", playerID, err)
	}
	return p, nil
}

// retryOnce runs fn a second time when the first attempt fails with anything
// other than a missing record.
func retryOnce(fn func() error) error {
	err := fn()
	if err == nil || repositories.IsNotFound(err) {
		return err
	}
	log.Warn("Ledger write failed, retrying once: %v", err)
	return fn()
}

// keyedMutex hands out one mutex per key and forgets it when unused.
type keyedMutex struct {
	lock  sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*refMutex),
	}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.lock.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.lock.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.lock.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.lock.Unlock()
	}
}
