package commands

import (
	"context"
	"testing"
	"time"

	"github.com/cbodonnell/duelbot/pkg/arena"
	"github.com/cbodonnell/duelbot/pkg/checkin"
	"github.com/cbodonnell/duelbot/pkg/ledger"
	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string, string) {}

func newTestDispatcher(t *testing.T, profiles ...*models.Profile) *Dispatcher {
	t.Helper()
	repo := repositories.NewInMemoryRepository()
	for _, p := range profiles {
		_, err := repo.CreateProfile(context.Background(), p)
		require.NoError(t, err)
	}
	gateway := ledger.NewGateway(ledger.NewGatewayOptions{Repository: repo, StartingPoints: 100})
	manager := arena.NewManager(arena.NewManagerOptions{
		Ledger:       gateway,
		Notifier:     discardNotifier{},
		Deposit:      2,
		LobbyTimeout: time.Minute,
		TickInterval: time.Hour,
	})
	t.Cleanup(func() {
		manager.Close(context.Background())
	})
	return NewDispatcher(NewDispatcherOptions{
		Arena:    manager,
		Profiles: gateway,
		CheckIns: checkin.NewService(checkin.NewServiceOptions{
			Ledger:     gateway,
			Reward:     20,
			LevelBonus: 5,
			Experience: 40,
		}),
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs []string
	}{
		{text: "/duel 10", wantName: "duel", wantArgs: []string{"10"}},
		{text: "  DUEL   10 ", wantName: "duel", wantArgs: []string{"10"}},
		{text: "/Start", wantName: "start", wantArgs: []string{}},
		{text: "", wantName: "", wantArgs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, args := parse(tt.text)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestDispatcher_Replies(t *testing.T) {
	alice := arena.Player{ID: "alice", Name: "Alice", Session: "s-alice"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "unknown command", text: "/dance", want: HelpText},
		{name: "help", text: "help", want: HelpText},
		{name: "missing stake", text: "/duel", want: "Usage: /duel <stake>"},
		{name: "bad stake", text: "/duel lots", want: "Usage: /duel <stake>, where stake is a whole number of points."},
		{name: "zero stake", text: "/duel 0", want: "Cannot join the duel: stake must be a positive number of points."},
		{name: "short balance", text: "/duel 99", want: "Cannot join the duel: insufficient balance: 101 points needed, 100 available."},
		{name: "nothing to start", text: "/start", want: "You have no matched duel to start. Use /duel <stake> first."},
		{name: "profile", text: "/profile", want: "Alice | Lv.1 (0/100 exp) | 100 points | idle"},
		{name: "queue", text: "/duel 10", want: "Escrowed 12 points (stake 10 + deposit 2). Waiting up to 1m0s for an opponent. Balance: 88."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			assert.Equal(t, tt.want, d.Handle(context.Background(), alice, tt.text))
		})
	}
}

func TestDispatcher_DuelFlow(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t,
		&models.Profile{ID: "alice", Name: "Alice", Points: 100, Level: 1},
		&models.Profile{ID: "bob", Name: "Bob", Points: 100, Level: 1})
	alice := arena.Player{ID: "alice", Name: "Alice", Session: "s-alice"}
	bob := arena.Player{ID: "bob", Name: "Bob", Session: "s-bob"}

	d.Handle(ctx, alice, "/duel 10")
	assert.Equal(t, "Cannot join the duel: you are already waiting in the lobby.", d.Handle(ctx, alice, "/duel 10"))
	assert.Equal(t, "Escrowed 22 points (stake 20 + deposit 2) and matched against Alice. Balance: 78.", d.Handle(ctx, bob, "/duel 20"))
	assert.Equal(t, "Only the player who was waiting in the lobby can start this duel.", d.Handle(ctx, bob, "/start"))
	assert.Equal(t, "The duel against Bob has started!", d.Handle(ctx, alice, "/start"))
	assert.Equal(t, "Alice | Lv.1 (0/100 exp) | 88 points | fighting", d.Handle(ctx, alice, "/profile"))
}

func TestDispatcher_CheckIn(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)
	carol := arena.Player{ID: "carol", Name: "Carol"}

	assert.Equal(t, "Checked in! +25 points. Balance: 125.", d.Handle(ctx, carol, "/checkin"))
	assert.Equal(t, "You already checked in today. Come back tomorrow!", d.Handle(ctx, carol, "/checkin"))
}
