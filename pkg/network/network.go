package network

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/messages"
	"github.com/cbodonnell/duelbot/pkg/queue"
	"nhooyr.io/websocket"
)

// DefaultWriteTimeout bounds a single websocket write.
const DefaultWriteTimeout = 5 * time.Second

type NetworkManager struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	WSServer      *WSServer
	writeTimeout  time.Duration
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	WSPort        int
	WSServerTLS   *TLSConfig
	// WriteTimeout defaults to DefaultWriteTimeout.
	WriteTimeout time.Duration
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	n := &NetworkManager{
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
		WSServer: NewWSServer(NewWSServerOptions{
			Port: options.WSPort,
			TLS:  options.WSServerTLS,
		}),
		writeTimeout: options.WriteTimeout,
	}
	if n.writeTimeout <= 0 {
		n.writeTimeout = DefaultWriteTimeout
	}
	return n
}

// Start serves websocket sessions until ctx is done.
func (n *NetworkManager) Start(ctx context.Context) error {
	return n.WSServer.Start(ctx, n.handleConnect, n.handleDisconnect, n.handleMessage)
}

func (n *NetworkManager) handleConnect(conn *websocket.Conn, playerID, name string) string {
	session := n.ClientManager.ConnectClient(conn, playerID, name)
	log.Info("Player %s connected with session %s", playerID, session)
	return session
}

func (n *NetworkManager) handleDisconnect(session string) {
	n.ClientManager.DisconnectClient(session)
	log.Info("Session %s disconnected", session)
}

func (n *NetworkManager) handleMessage(ctx context.Context, message *messages.Message) {
	switch message.Type {
	case messages.MessageTypeClientCommand:
		if err := n.MessageQueue.Enqueue(message); err != nil {
			log.Error("Failed to enqueue command from session %s: %v", message.Session, err)
			n.SendNotice(ctx, message.Session, "The arena is busy, please try again in a moment.")
		}
	default:
		log.Warn("Unknown message type %q from session %s", message.Type, message.Session)
	}
}

// SendMessageToClient writes msg to the session's connection, giving up after
// the write timeout.
func (n *NetworkManager) SendMessageToClient(ctx context.Context, session string, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(session)
	if err != nil {
		return fmt.Errorf("failed to get client %s: %v", session, err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, n.writeTimeout)
	defer cancel()
	if err := WriteMessageToWS(writeCtx, client.WSConn, msg); err != nil {
		return fmt.Errorf("failed to send message to client %s: %v", session, err)
	}

	return nil
}

// SendNotice writes a text notice to the session, logging failures.
func (n *NetworkManager) SendNotice(ctx context.Context, session, text string) {
	msg, err := messages.NewNotice(session, text)
	if err != nil {
		log.Error("Failed to build notice for session %s: %v", session, err)
		return
	}
	if err := n.SendMessageToClient(ctx, session, msg); err != nil {
		log.Warn("Failed to deliver notice: %v", err)
	}
}

// Broadcast sends a text notice to every connected session.
func (n *NetworkManager) Broadcast(ctx context.Context, text string) {
	for _, client := range n.ClientManager.GetClients() {
		n.SendNotice(ctx, client.Session, text)
	}
}
