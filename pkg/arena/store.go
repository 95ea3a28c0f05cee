package arena

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Participation is where a player currently sits in the arena.
type Participation int

const (
	Idle Participation = iota
	// Admitting players hold a reservation while their escrow is taken.
	Admitting
	Queued
	// Pairing players have been matched but the pending game is not open yet.
	Pairing
	Pending
	Fighting
)

func (p Participation) String() string {
	switch p {
	case Admitting:
		return "joining the lobby"
	case Queued:
		return "waiting in the lobby"
	case Pairing:
		return "being matched"
	case Pending:
		return "waiting for the duel to start"
	case Fighting:
		return "fighting"
	default:
		return "idle"
	}
}

type entryState int

const (
	entryWaiting entryState = iota
	entryConsumed
	entryExpired
)

// LobbyEntry is a player waiting for an opponent with their escrow held.
type LobbyEntry struct {
	PlayerID string
	Name     string
	Session  string
	Stake    int64
	QueuedAt time.Time

	state  entryState
	expiry *time.Timer
}

// PendingGame is a paired match waiting for its initiator to start it.
// The winner is drawn at pairing time.
type PendingGame struct {
	ID uuid.UUID

	InitiatorID      string
	InitiatorName    string
	InitiatorSession string
	InitiatorStake   int64

	OpponentID      string
	OpponentName    string
	OpponentSession string
	OpponentStake   int64

	WinnerID       string
	WinProbability float64
	CreatedAt      time.Time

	confirm *time.Timer
}

func (g *PendingGame) winner() (id, name, session string) {
	if g.WinnerID == g.InitiatorID {
		return g.InitiatorID, g.InitiatorName, g.InitiatorSession
	}
	return g.OpponentID, g.OpponentName, g.OpponentSession
}

func (g *PendingGame) loser() (id, name, session string) {
	if g.WinnerID == g.InitiatorID {
		return g.OpponentID, g.OpponentName, g.OpponentSession
	}
	return g.InitiatorID, g.InitiatorName, g.InitiatorSession
}

func (g *PendingGame) loserStake() int64 {
	if g.WinnerID == g.InitiatorID {
		return g.OpponentStake
	}
	return g.InitiatorStake
}

// ActiveGame is a confirmed match whose battle is being broadcast.
type ActiveGame struct {
	PendingGame
	StartedAt time.Time
	// Tick is the number of battle lines already sent.
	Tick int

	// handle is set once the background scheduler runs and is stopped
	// exactly once, by the final tick or by drain.
	handle *tickHandle
}

type tickHandle struct {
	stop func()
}

// Stats counts the games the arena currently holds.
type Stats struct {
	Waiting int `json:"waiting"`
	Pending int `json:"pending"`
	Active  int `json:"active"`
}

// Store holds the lobby, pending and active games and the participants index
// under one mutex. No method blocks on anything but that mutex.
type Store struct {
	lock    sync.Mutex
	closed  bool
	lobby   []*LobbyEntry
	pending map[string]*PendingGame
	active  map[uuid.UUID]*ActiveGame
	players map[string]Participation
}

func NewStore() *Store {
	return &Store{
		lobby:   make([]*LobbyEntry, 0),
		pending: make(map[string]*PendingGame),
		active:  make(map[uuid.UUID]*ActiveGame),
		players: make(map[string]Participation),
	}
}

// reserve marks the player as admitting, failing if they already take part.
func (s *Store) reserve(playerID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, ok := s.players[playerID]; ok {
		return ErrAlreadyParticipating
	}
	s.players[playerID] = Admitting
	return nil
}

// release forgets admitting or pairing reservations.
func (s *Store) release(playerIDs ...string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, id := range playerIDs {
		switch s.players[id] {
		case Admitting, Pairing:
			delete(s.players, id)
		}
	}
}

// admit consumes the oldest waiting entry and returns it, or appends entry to
// the lobby and arms its expiry when nobody is waiting.
func (s *Store) admit(entry *LobbyEntry, arm func(*LobbyEntry) *time.Timer) (*LobbyEntry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if len(s.lobby) > 0 {
		opponent := s.lobby[0]
		s.lobby = s.lobby[1:]
		opponent.state = entryConsumed
		if opponent.expiry != nil {
			opponent.expiry.Stop()
		}
		s.players[opponent.PlayerID] = Pairing
		s.players[entry.PlayerID] = Pairing
		return opponent, nil
	}

	entry.state = entryWaiting
	entry.expiry = arm(entry)
	s.lobby = append(s.lobby, entry)
	s.players[entry.PlayerID] = Queued
	return nil, nil
}

// expire removes a still waiting entry. It reports false when the entry was
// already consumed or expired.
func (s *Store) expire(entry *LobbyEntry) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if entry.state != entryWaiting {
		return false
	}
	entry.state = entryExpired
	for i, e := range s.lobby {
		if e == entry {
			s.lobby = append(s.lobby[:i], s.lobby[i+1:]...)
			break
		}
	}
	delete(s.players, entry.PlayerID)
	return true
}

// openPending stores g under its initiator and arms the confirmation timer
// when arm is not nil.
func (s *Store) openPending(g *PendingGame, arm func(*PendingGame) *time.Timer) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.pending[g.InitiatorID] = g
	s.players[g.InitiatorID] = Pending
	s.players[g.OpponentID] = Pending
	if arm != nil {
		g.confirm = arm(g)
	}
	return nil
}

// cancelPending removes g if it is still pending.
func (s *Store) cancelPending(g *PendingGame) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.pending[g.InitiatorID] != g {
		return false
	}
	delete(s.pending, g.InitiatorID)
	delete(s.players, g.InitiatorID)
	delete(s.players, g.OpponentID)
	return true
}

// promote moves the pending game initiated by playerID to the active set.
func (s *Store) promote(playerID string, now time.Time) (*ActiveGame, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	g, ok := s.pending[playerID]
	if !ok {
		return nil, ErrNoPendingGame
	}
	if g.confirm != nil {
		g.confirm.Stop()
	}
	delete(s.pending, playerID)

	a := &ActiveGame{
		PendingGame: *g,
		StartedAt:   now,
	}
	a.confirm = nil
	s.active[a.ID] = a
	s.players[a.InitiatorID] = Fighting
	s.players[a.OpponentID] = Fighting
	return a, nil
}

// attach records the scheduler handle. It reports false when the game is no
// longer active.
func (s *Store) attach(a *ActiveGame, h *tickHandle, wg *sync.WaitGroup) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.active[a.ID] != a {
		return false
	}
	a.handle = h
	wg.Add(1)
	return true
}

type tickResult struct {
	tick   int
	final  bool
	handle *tickHandle
}

// advance counts one battle line for a. On the final tick the game leaves the
// active set and its handle is returned for stopping. ok is false when the
// game is no longer active.
func (s *Store) advance(a *ActiveGame, total int) (tickResult, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.active[a.ID] != a {
		return tickResult{}, false
	}
	a.Tick++
	res := tickResult{tick: a.Tick}
	if a.Tick >= total {
		res.final = true
		res.handle = a.handle
		a.handle = nil
		delete(s.active, a.ID)
		delete(s.players, a.InitiatorID)
		delete(s.players, a.OpponentID)
	}
	return res, true
}

// snapshot copies the exported fields of a under the lock.
func (s *Store) snapshot(a *ActiveGame) ActiveGame {
	s.lock.Lock()
	defer s.lock.Unlock()

	c := *a
	c.handle = nil
	return c
}

// drain closes the store and hands back everything it held. Timers are
// stopped and battle schedulers cancelled.
func (s *Store) drain() ([]*LobbyEntry, []*PendingGame, []*ActiveGame) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closed = true

	lobby := s.lobby
	for _, e := range lobby {
		e.state = entryExpired
		if e.expiry != nil {
			e.expiry.Stop()
		}
	}
	pending := make([]*PendingGame, 0, len(s.pending))
	for _, g := range s.pending {
		if g.confirm != nil {
			g.confirm.Stop()
		}
		pending = append(pending, g)
	}
	active := make([]*ActiveGame, 0, len(s.active))
	for _, a := range s.active {
		if a.handle != nil {
			a.handle.stop()
			a.handle = nil
		}
		active = append(active, a)
	}

	s.lobby = make([]*LobbyEntry, 0)
	s.pending = make(map[string]*PendingGame)
	s.active = make(map[uuid.UUID]*ActiveGame)
	s.players = make(map[string]Participation)
	return lobby, pending, active
}

func (s *Store) Stats() Stats {
	s.lock.Lock()
	defer s.lock.Unlock()

	return Stats{
		Waiting: len(s.lobby),
		Pending: len(s.pending),
		Active:  len(s.active),
	}
}

func (s *Store) Where(playerID string) Participation {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.players[playerID]
}
