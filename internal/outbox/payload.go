package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/events"
	"github.com/google/uuid"
)

type UserRegisteredPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	At     time.Time `json:"at"`
}

func MarshalUserRegistered(ev events.UserRegistered) ([]byte, error) {
	b, err := json.Marshal(UserRegisteredPayload{UserID: ev.UserID, Email: ev.Email, Name: ev.Name, At: ev.At})
	if err != nil {
		return nil, fmt.Errorf("marshal user-registered payload: %w", err)
	}
	return b, nil
}

func unmarshalUserRegistered(data []byte) (events.UserRegistered, error) {
	var p UserRegisteredPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return events.UserRegistered{}, fmt.Errorf("unmarshal user-registered payload: %w", err)
	}
	return events.UserRegistered{UserID: p.UserID, Email: p.Email, Name: p.Name, At: p.At}, nil
}
