package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/duelbot/pkg/api"
	"github.com/cbodonnell/duelbot/pkg/arena"
	"github.com/cbodonnell/duelbot/pkg/checkin"
	"github.com/cbodonnell/duelbot/pkg/commands"
	"github.com/cbodonnell/duelbot/pkg/config"
	"github.com/cbodonnell/duelbot/pkg/ledger"
	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/network"
	"github.com/cbodonnell/duelbot/pkg/queue"
	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/cbodonnell/duelbot/pkg/version"
	"github.com/cbodonnell/duelbot/pkg/workers"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := flag.String("env-file", ".env", "Optional env file")
	wsPort := flag.Int("ws-port", 0, "WebSocket port to listen on (overrides DUELBOT_WS_PORT)")
	apiPort := flag.Int("api-port", 0, "API port to listen on (overrides DUELBOT_API_PORT)")
	logLevel := flag.String("log-level", "", "Log level (overrides DUELBOT_LOG_LEVEL)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *wsPort != 0 {
		cfg.WSPort = *wsPort
	}
	if *apiPort != 0 {
		cfg.APIPort = *apiPort
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting duel server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := newRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	gateway := ledger.NewGateway(ledger.NewGatewayOptions{
		Repository:     repository,
		StartingPoints: cfg.Arena.StartingPoints,
	})

	var wsTLS *network.TLSConfig
	if cfg.WSTLSCertFile != "" {
		wsTLS = &network.TLSConfig{
			CertFile: cfg.WSTLSCertFile,
			KeyFile:  cfg.WSTLSKeyFile,
		}
	}

	clientManager := network.NewClientManager()
	commandQueue := queue.NewInMemoryQueue(10000)
	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		MessageQueue:  commandQueue,
		WSPort:        cfg.WSPort,
		WSServerTLS:   wsTLS,
	})

	notificationBufferSize := 1000
	notificationWorker := workers.NewNotificationWorker(workers.NewNotificationWorkerOptions{
		Sender:     networkManager,
		BufferSize: notificationBufferSize,
	})

	arenaManager := arena.NewManager(arena.NewManagerOptions{
		Ledger:         gateway,
		Notifier:       notificationWorker,
		Deposit:        cfg.Arena.Deposit,
		LobbyTimeout:   cfg.Arena.LobbyTimeout,
		ConfirmTimeout: cfg.Arena.ConfirmTimeout,
		TickInterval:   cfg.Arena.TickInterval,
		TickCount:      cfg.Arena.TickCount,
		LevelWeight:    &cfg.Arena.LevelWeight,
	})

	dispatcher := commands.NewDispatcher(commands.NewDispatcherOptions{
		Arena:    arenaManager,
		Profiles: gateway,
		CheckIns: checkin.NewService(checkin.NewServiceOptions{
			Ledger:     gateway,
			Reward:     cfg.CheckIn.Reward,
			LevelBonus: cfg.CheckIn.LevelBonus,
			Experience: cfg.CheckIn.Experience,
		}),
	})

	commandLoopInterval := 50 * time.Millisecond
	commandWorker := workers.NewCommandWorker(workers.NewCommandWorkerOptions{
		ClientManager: clientManager,
		MessageQueue:  commandQueue,
		Dispatcher:    dispatcher,
		Notifier:      notificationWorker,
		Interval:      commandLoopInterval,
	})

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:     cfg.APIPort,
		Token:    cfg.APIToken,
		Profiles: gateway,
		Arena:    arenaManager,
	})

	// notices keep flowing while the arena refunds on shutdown
	notificationCtx, cancelNotifications := context.WithCancel(context.Background())
	defer cancelNotifications()
	go notificationWorker.Start(notificationCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return networkManager.Start(gctx)
	})
	g.Go(func() error {
		return apiServer.Start()
	})
	g.Go(func() error {
		commandWorker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		networkManager.Broadcast(shutdownCtx, "The duel server is shutting down. See you soon!")
		arenaManager.Close(shutdownCtx)
		return apiServer.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// newRepository picks the profile store from the database URL scheme.
func newRepository(ctx context.Context, databaseURL string) (repositories.Repository, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		return repositories.NewSQLiteRepository(ctx, u.Host+u.Path)
	case "postgres", "postgresql":
		return repositories.NewPostgresRepository(ctx, databaseURL)
	case "redis", "rediss":
		return repositories.NewRedisRepository(ctx, databaseURL)
	case "memory":
		log.Warn("Using the in-memory repository, balances will not survive a restart")
		return repositories.NewInMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}
