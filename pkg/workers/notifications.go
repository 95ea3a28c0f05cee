package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
)

const (
	DefaultSendTimeout    = 5 * time.Second
	DefaultEnqueueTimeout = time.Second
)

// Sender writes a text notice to a chat session. It must return once ctx is done.
type Sender interface {
	SendNotice(ctx context.Context, session, text string)
}

type Notification struct {
	Session string
	Text    string
}

// NotificationWorker delivers arena notices and command replies through a
// single channel so each session sees them in the order they were produced.
type NotificationWorker struct {
	sender           Sender
	notificationChan chan Notification
	sendTimeout      time.Duration
	enqueueTimeout   time.Duration
}

type NewNotificationWorkerOptions struct {
	Sender     Sender
	BufferSize int
	// SendTimeout bounds each delivery. Defaults to DefaultSendTimeout.
	SendTimeout time.Duration
	// EnqueueTimeout bounds how long Notify waits on a full buffer before
	// dropping the notice. Defaults to DefaultEnqueueTimeout.
	EnqueueTimeout time.Duration
}

func NewNotificationWorker(opts NewNotificationWorkerOptions) *NotificationWorker {
	w := &NotificationWorker{
		sender:           opts.Sender,
		notificationChan: make(chan Notification, opts.BufferSize),
		sendTimeout:      opts.SendTimeout,
		enqueueTimeout:   opts.EnqueueTimeout,
	}
	if w.sendTimeout <= 0 {
		w.sendTimeout = DefaultSendTimeout
	}
	if w.enqueueTimeout <= 0 {
		w.enqueueTimeout = DefaultEnqueueTimeout
	}
	return w
}

// Notify queues text for session. It waits for buffer space until ctx is done
// or the enqueue timeout passes, and drops the notice after that.
func (w *NotificationWorker) Notify(ctx context.Context, session string, text string) {
	n := Notification{Session: session, Text: text}
	select {
	case w.notificationChan <- n:
		return
	default:
	}

	timer := time.NewTimer(w.enqueueTimeout)
	defer timer.Stop()
	select {
	case w.notificationChan <- n:
	case <-ctx.Done():
		log.Warn("Dropping notification for session %s: %v", session, ctx.Err())
	case <-timer.C:
		log.Warn("Dropping notification for session %s: buffer full for %s", session, w.enqueueTimeout)
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-w.notificationChan:
			w.send(ctx, n)
		}
	}
}

func (w *NotificationWorker) send(ctx context.Context, n Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	w.sender.SendNotice(sendCtx, n.Session, n.Text)
}
