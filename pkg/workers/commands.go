package workers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cbodonnell/duelbot/pkg/arena"
	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/messages"
	"github.com/cbodonnell/duelbot/pkg/network"
	"github.com/cbodonnell/duelbot/pkg/queue"
)

type Dispatcher interface {
	Handle(ctx context.Context, player arena.Player, text string) string
}

type CommandWorker struct {
	clientManager *network.ClientManager
	messageQueue  queue.Queue
	dispatcher    Dispatcher
	notifier      arena.Notifier
	interval      time.Duration
}

type NewCommandWorkerOptions struct {
	ClientManager *network.ClientManager
	MessageQueue  queue.Queue
	Dispatcher    Dispatcher
	// Notifier delivers replies so they stay ordered with arena notices.
	Notifier arena.Notifier
	Interval time.Duration
}

// NewCommandWorker creates a new CommandWorker.
// The worker drains queued chat commands every interval and runs them
// one at a time in arrival order.
func NewCommandWorker(opts NewCommandWorkerOptions) *CommandWorker {
	return &CommandWorker{
		clientManager: opts.ClientManager,
		messageQueue:  opts.MessageQueue,
		dispatcher:    opts.Dispatcher,
		notifier:      opts.Notifier,
		interval:      opts.Interval,
	}
}

func (w *CommandWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processCommands(ctx)
		}
	}
}

// processCommands handles every pending command in the queue.
func (w *CommandWorker) processCommands(ctx context.Context) {
	for _, item := range w.messageQueue.ReadAllMessages() {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}

		command := &messages.CommandPayload{}
		if err := json.Unmarshal(message.Payload, command); err != nil {
			log.Error("Failed to unmarshal command from session %s: %v", message.Session, err)
			continue
		}

		client, err := w.clientManager.GetClient(message.Session)
		if err != nil {
			log.Warn("Dropping command from closed session %s", message.Session)
			continue
		}

		player := arena.Player{
			ID:      client.PlayerID,
			Name:    client.Name,
			Session: client.Session,
		}
		reply := w.dispatcher.Handle(ctx, player, command.Text)
		w.notifier.Notify(ctx, message.Session, reply)
	}
}
