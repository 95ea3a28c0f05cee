package messages

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	msg, err := NewNotice("session-1", "(1/5): Bob trips over their own cape.")
	require.NoError(t, err)

	b, err := SerializeMessage(msg)
	require.NoError(t, err)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.Session)
	assert.Equal(t, MessageTypeServerNotice, got.Type)

	notice := &NoticePayload{}
	require.NoError(t, json.Unmarshal(got.Payload, notice))
	assert.Equal(t, "(1/5): Bob trips over their own cape.", notice.Text)
}

func TestDeserializeMessage_Rejects(t *testing.T) {
	compress := func(b []byte) []byte {
		buf := bytes.NewBuffer(nil)
		w, err := zstd.NewWriter(buf)
		require.NoError(t, err)
		_, err = w.Write(b)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "not zstd", data: []byte(`{"type":"command"}`)},
		{name: "not json", data: compress([]byte("duel 10"))},
		{name: "too large", data: compress(bytes.Repeat([]byte(" "), MessageBufferSize+10))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeMessage(tt.data)
			assert.Error(t, err)
		})
	}
}
