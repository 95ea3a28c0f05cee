package network

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/duelbot/pkg/messages"
	servernetwork "github.com/cbodonnell/duelbot/pkg/network"
	"github.com/cbodonnell/duelbot/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkManager_ExchangesWithServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commandQueue := queue.NewInMemoryQueue(10)
	clientManager := servernetwork.NewClientManager()
	server := servernetwork.NewNetworkManager(servernetwork.NewNetworkManagerOptions{
		ClientManager: clientManager,
		MessageQueue:  commandQueue,
	})
	srv := httptest.NewServer(server.WSServer.Handler(ctx, clientManager.ConnectClient, clientManager.DisconnectClient, func(ctx context.Context, m *messages.Message) {
		assert.NoError(t, commandQueue.Enqueue(m))
	}))
	defer srv.Close()

	noticeQueue := queue.NewInMemoryQueue(10)
	client, err := NewNetworkManager(ctx, NewNetworkManagerOptions{
		ServerURL:    "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		PlayerID:     "p1",
		Name:         "Alice Smith",
		MessageQueue: noticeQueue,
	})
	require.NoError(t, err)
	defer client.Close()

	clientCtx, stopClient := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- client.Start(clientCtx)
	}()

	require.NoError(t, client.SendCommand(ctx, "/duel 10"))
	require.Eventually(t, func() bool { return commandQueue.Size() == 1 }, time.Second, 5*time.Millisecond)
	cmd := commandQueue.Dequeue().(*messages.Message)

	c, err := clientManager.GetClient(cmd.Session)
	require.NoError(t, err)
	assert.Equal(t, "p1", c.PlayerID)
	assert.Equal(t, "Alice Smith", c.Name)

	server.SendNotice(ctx, cmd.Session, "Waiting for an opponent.")
	require.Eventually(t, func() bool { return noticeQueue.Size() == 1 }, time.Second, 5*time.Millisecond)
	notice := &messages.NoticePayload{}
	require.NoError(t, json.Unmarshal(noticeQueue.Dequeue().(*messages.Message).Payload, notice))
	assert.Equal(t, "Waiting for an opponent.", notice.Text)

	stopClient()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("client did not stop after its context was cancelled")
	}
}
