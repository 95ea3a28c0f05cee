package network

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/messages"
	"github.com/cbodonnell/duelbot/pkg/network"
	"github.com/cbodonnell/duelbot/pkg/queue"
	"nhooyr.io/websocket"
)

const (
	DefaultServerURL = "ws://localhost:8080/ws"
)

// NetworkManager is the chat client's side of a websocket session.
type NetworkManager struct {
	conn         *websocket.Conn
	messageQueue queue.Queue
}

type NewNetworkManagerOptions struct {
	ServerURL    string
	PlayerID     string
	Name         string
	MessageQueue queue.Queue
}

// NewNetworkManager dials the server and returns a connected manager.
func NewNetworkManager(ctx context.Context, opts NewNetworkManagerOptions) (*NetworkManager, error) {
	u, err := url.Parse(opts.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %v", err)
	}
	q := u.Query()
	q.Set("player", opts.PlayerID)
	q.Set("name", opts.Name)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", opts.ServerURL, err)
	}
	conn.SetReadLimit(messages.MessageBufferSize)

	return &NetworkManager{
		conn:         conn,
		messageQueue: opts.MessageQueue,
	}, nil
}

// Start reads server notices into the message queue until the connection
// or ctx closes.
func (m *NetworkManager) Start(ctx context.Context) error {
	for {
		msg, err := network.ReadMessageFromWS(ctx, m.conn)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read from server: %v", err)
		}
		if msg.Type != messages.MessageTypeServerNotice {
			log.Warn("Ignoring message of type %q", msg.Type)
			continue
		}
		if err := m.messageQueue.Enqueue(msg); err != nil {
			log.Error("Failed to enqueue server message: %v", err)
		}
	}
}

// SendCommand sends a chat command to the server.
func (m *NetworkManager) SendCommand(ctx context.Context, text string) error {
	msg, err := messages.NewCommand(text)
	if err != nil {
		return fmt.Errorf("failed to build command: %v", err)
	}
	return network.WriteMessageToWS(ctx, m.conn, msg)
}

func (m *NetworkManager) Close() error {
	return m.conn.Close(websocket.StatusNormalClosure, "")
}
