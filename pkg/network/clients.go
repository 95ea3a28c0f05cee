package network

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Client represents a connected chat session
type Client struct {
	Session  string
	PlayerID string
	Name     string
	WSConn   *websocket.Conn
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[string]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Client),
	}
}

// GetClients returns a slice with a copy of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		c := *client
		clients = append(clients, &c)
	}
	return clients
}

// ConnectClient adds a new client to the manager and returns its session
func (cm *ClientManager) ConnectClient(wsConn *websocket.Conn, playerID string, name string) string {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	session := uuid.NewString()
	cm.clients[session] = &Client{
		Session:  session,
		PlayerID: playerID,
		Name:     name,
		WSConn:   wsConn,
	}
	return session
}

// GetClient returns a copy of the client with the given session
func (cm *ClientManager) GetClient(session string) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients[session]
	if !ok {
		return nil, fmt.Errorf("session %s not found", session)
	}
	c := *client
	return &c, nil
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(session string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	delete(cm.clients, session)
}

func (cm *ClientManager) Exists(session string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[session]
	return ok
}
