package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/duelbot/pkg/messages"
	"github.com/cbodonnell/duelbot/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func newTestNetwork(t *testing.T, ctx context.Context) (*NetworkManager, *queue.InMemoryQueue, *httptest.Server) {
	t.Helper()
	q := queue.NewInMemoryQueue(10)
	n := NewNetworkManager(NewNetworkManagerOptions{
		ClientManager: NewClientManager(),
		MessageQueue:  q,
	})
	srv := httptest.NewServer(n.WSServer.Handler(ctx, n.handleConnect, n.handleDisconnect, n.handleMessage))
	t.Cleanup(srv.Close)
	return n, q, srv
}

func TestNetworkManager_CommandAndNotice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n, q, srv := newTestNetwork(t, ctx)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?player=p1&name=Alice", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// unknown types are dropped and commands are queued
	require.NoError(t, WriteMessageToWS(ctx, conn, &messages.Message{Type: "ping"}))
	cmd, err := messages.NewCommand("/duel 10")
	require.NoError(t, err)
	cmd.Session = "spoofed"
	require.NoError(t, WriteMessageToWS(ctx, conn, cmd))

	require.Eventually(t, func() bool { return q.Size() == 1 }, time.Second, 5*time.Millisecond)
	got, ok := q.Dequeue().(*messages.Message)
	require.True(t, ok)
	assert.Equal(t, messages.MessageTypeClientCommand, got.Type)
	assert.NotEqual(t, "spoofed", got.Session)

	client, err := n.ClientManager.GetClient(got.Session)
	require.NoError(t, err)
	assert.Equal(t, "p1", client.PlayerID)
	assert.Equal(t, "Alice", client.Name)

	n.SendNotice(ctx, got.Session, "Matched against Bob!")
	reply, err := ReadMessageFromWS(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, messages.MessageTypeServerNotice, reply.Type)
	notice := &messages.NoticePayload{}
	require.NoError(t, json.Unmarshal(reply.Payload, notice))
	assert.Equal(t, "Matched against Bob!", notice.Text)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool {
		return !n.ClientManager.Exists(got.Session)
	}, time.Second, 5*time.Millisecond)
}

func TestNetworkManager_Broadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n, _, srv := newTestNetwork(t, ctx)

	var conns []*websocket.Conn
	for _, player := range []string{"p1", "p2"} {
		conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?player="+player, nil)
		require.NoError(t, err)
		defer conn.Close(websocket.StatusNormalClosure, "")
		conns = append(conns, conn)
	}
	require.Eventually(t, func() bool {
		return len(n.ClientManager.GetClients()) == 2
	}, time.Second, 5*time.Millisecond)

	n.Broadcast(ctx, "The arena is closing.")
	for _, conn := range conns {
		reply, err := ReadMessageFromWS(ctx, conn)
		require.NoError(t, err)
		notice := &messages.NoticePayload{}
		require.NoError(t, json.Unmarshal(reply.Payload, notice))
		assert.Equal(t, "The arena is closing.", notice.Text)
	}
}

func TestWSServer_RequiresPlayer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, _, srv := newTestNetwork(t, ctx)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendMessageToUnknownSession(t *testing.T) {
	n := NewNetworkManager(NewNetworkManagerOptions{ClientManager: NewClientManager()})
	msg, err := messages.NewNotice("nope", "hi")
	require.NoError(t, err)
	assert.Error(t, n.SendMessageToClient(context.Background(), "nope", msg))
}
