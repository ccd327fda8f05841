package amqp

import (
	"encoding/json"
	"time"
)

// MovementExportMessage is the lightweight queue payload for copying a
// movement to the ledger backup. It carries only the id; the worker
// fetches the full row from the database.
type MovementExportMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMovementExportMessage(id string) *MovementExportMessage {
	return &MovementExportMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MovementExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func MovementExportMessageFromJSON(data []byte) (*MovementExportMessage, error) {
	var msg MovementExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
