package messages

import "encoding/json"

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 4096
)

// Message types
const (
	// MessageTypeClientCommand carries a CommandPayload from a player
	MessageTypeClientCommand = "command"
	// MessageTypeServerNotice carries a NoticePayload to a player
	MessageTypeServerNotice = "notice"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	Session string          `json:"session"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CommandPayload struct {
	Text string `json:"text"`
}

type NoticePayload struct {
	Text string `json:"text"`
}

// NewNotice builds a server notice for a session.
func NewNotice(session, text string) (*Message, error) {
	payload, err := json.Marshal(&NoticePayload{Text: text})
	if err != nil {
		return nil, err
	}
	return &Message{
		Session: session,
		Type:    MessageTypeServerNotice,
		Payload: payload,
	}, nil
}

// NewCommand builds a client command.
func NewCommand(text string) (*Message, error) {
	payload, err := json.Marshal(&CommandPayload{Text: text})
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:    MessageTypeClientCommand,
		Payload: payload,
	}, nil
}
