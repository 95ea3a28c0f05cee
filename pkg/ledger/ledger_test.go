package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	mocks "github.com/cbodonnell/duelbot/mocks/github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, profiles ...*models.Profile) (*Gateway, *repositories.InMemoryRepository) {
	repo := repositories.NewInMemoryRepository()
	for _, p := range profiles {
		_, err := repo.CreateProfile(context.Background(), p)
		require.NoError(t, err)
	}
	return NewGateway(NewGatewayOptions{Repository: repo, StartingPoints: 100}), repo
}

func TestGateway_Debit(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		amount      int64
		want        int64
		wantErr     error
		wantBalance int64
	}{
		{name: "exact balance", balance: 12, amount: 12, want: 0, wantBalance: 0},
		{name: "enough balance", balance: 50, amount: 12, want: 38, wantBalance: 38},
		{name: "short balance", balance: 11, amount: 12, want: 11, wantErr: ErrInsufficientFunds, wantBalance: 11},
		{name: "negative amount", balance: 0, amount: -math.MaxInt64, want: 0, wantErr: ErrInvalidAmount, wantBalance: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			g, repo := newTestGateway(t, &models.Profile{ID: "p1", Name: "P1", Points: tt.balance, Level: 1})

			got, err := g.Debit(ctx, "p1", tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			p, err := repo.GetProfile(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, p.Points)
		})
	}
}

func TestGateway_CreditRejections(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		wantErr error
	}{
		{name: "negative amount", balance: 50, amount: -10, wantErr: ErrInvalidAmount},
		{name: "overflowing balance", balance: math.MaxInt64 - 5, amount: 6, wantErr: ErrBalanceOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			g, repo := newTestGateway(t, &models.Profile{ID: "p1", Name: "P1", Points: tt.balance, Level: 1})

			_, err := g.Credit(ctx, "p1", tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)

			p, err := repo.GetProfile(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, tt.balance, p.Points)
		})
	}
}

func TestGateway_CreditMissingProfile(t *testing.T) {
	g, _ := newTestGateway(t)
	_, err := g.Credit(context.Background(), "ghost", 10)
	assert.True(t, repositories.IsNotFound(err))
}

func TestGateway_Ensure(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(t, &models.Profile{ID: "known", Name: "Known", Points: 7, Level: 4})

	p, err := g.Ensure(ctx, "known", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Known", p.Name)
	assert.Equal(t, int64(7), p.Points)

	p, err = g.Ensure(ctx, "new", "Newcomer")
	require.NoError(t, err)
	assert.Equal(t, "Newcomer", p.Name)
	assert.Equal(t, int64(100), p.Points)
	assert.Equal(t, 1, p.Level)
}

func TestGateway_Register(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(t, &models.Profile{ID: "known", Name: "Known", Points: 7, Level: 4})

	_, err := g.Register(ctx, "known", "Again")
	assert.True(t, repositories.IsProfileExists(err))

	p, err := g.Register(ctx, "fresh", "Fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.Points)
}

func TestGateway_ConcurrentCreditsAreSerialized(t *testing.T) {
	ctx := context.Background()
	g, repo := newTestGateway(t, &models.Profile{ID: "p1", Name: "P1", Points: 0, Level: 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Credit(ctx, "p1", 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := repo.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.Points)
	assert.Empty(t, g.locks.locks)
}

func TestGateway_RetriesFailedWriteOnce(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	g := NewGateway(NewGatewayOptions{Repository: repo})

	repo.EXPECT().GetProfile(mock.Anything, "p1").Return(&models.Profile{ID: "p1", Points: 50}, nil).Once()
	repo.EXPECT().SetPoints(mock.Anything, "p1", int64(38)).Return(errors.New("connection reset")).Once()
	repo.EXPECT().SetPoints(mock.Anything, "p1", int64(38)).Return(nil).Once()

	got, err := g.Debit(ctx, "p1", 12)
	require.NoError(t, err)
	assert.Equal(t, int64(38), got)
}

func TestGateway_SurfacesSecondFailure(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewRepository(t)
	g := NewGateway(NewGatewayOptions{Repository: repo})

	writeErr := errors.New("disk full")
	repo.EXPECT().GetProfile(mock.Anything, "p1").Return(&models.Profile{ID: "p1", Points: 50}, nil).Once()
	repo.EXPECT().SetPoints(mock.Anything, "p1", int64(60)).Return(writeErr).Twice()

	got, err := g.Credit(ctx, "p1", 10)
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, int64(50), got)
}

func TestGateway_UpdateSkipsSaveOnError(t *testing.T) {
	ctx := context.Background()
	g, repo := newTestGateway(t, &models.Profile{ID: "p1", Name: "P1", Points: 5, Level: 1})

	refused := errors.New("refused")
	_, err := g.Update(ctx, "p1", func(p *models.Profile) error {
		p.Points = 999
		return refused
	})
	assert.ErrorIs(t, err, refused)

	p, err := repo.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Points)

	updated, err := g.Update(ctx, "p1", func(p *models.Profile) error {
		p.Level++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Level)
}
