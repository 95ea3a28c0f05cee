package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/duelbot/pkg/client/network"
	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/messages"
	"github.com/cbodonnell/duelbot/pkg/queue"
	"github.com/cbodonnell/duelbot/pkg/version"
	"golang.org/x/sync/errgroup"
)

func main() {
	serverURL := flag.String("server", network.DefaultServerURL, "Server websocket URL")
	playerID := flag.String("player", "", "Player id")
	name := flag.String("name", "", "Display name")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Starting client version %s", version.Get())

	if *playerID == "" {
		fmt.Fprintln(os.Stderr, "-player is required")
		os.Exit(2)
	}
	if *name == "" {
		*name = *playerID
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverMessageQueue := queue.NewInMemoryQueue(1024)
	networkManager, err := network.NewNetworkManager(ctx, network.NewNetworkManagerOptions{
		ServerURL:    *serverURL,
		PlayerID:     *playerID,
		Name:         *name,
		MessageQueue: serverMessageQueue,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create network manager: %v", err))
	}
	defer networkManager.Close()

	fmt.Println("Connected. Type /help for commands.")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return networkManager.Start(gctx)
	})
	g.Go(func() error {
		printNotices(gctx, serverMessageQueue)
		return nil
	})
	g.Go(func() error {
		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					stop()
					return nil
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				if err := networkManager.SendCommand(gctx, line); err != nil {
					return err
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error("Client stopped: %v", err)
		os.Exit(1)
	}
}

func printNotices(ctx context.Context, q queue.Queue) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, item := range q.ReadAllMessages() {
				msg, ok := item.(*messages.Message)
				if !ok {
					continue
				}
				notice := &messages.NoticePayload{}
				if err := json.Unmarshal(msg.Payload, notice); err != nil {
					log.Error("Failed to unmarshal notice: %v", err)
					continue
				}
				fmt.Println(notice.Text)
			}
		}
	}
}
