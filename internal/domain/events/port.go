package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRegistered struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	At     time.Time `json:"at"`
}

type UserEvents interface {
	PublishUserRegistered(ctx context.Context, ev UserRegistered) error
}
