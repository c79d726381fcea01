package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/events"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
)

const TypeUserRegistered = "user.registered"

type UserEventsKafka struct {
	p *Producer
}

func NewUserEventsKafka(p *Producer) *UserEventsKafka { return &UserEventsKafka{p: p} }

var _ events.UserEvents = (*UserEventsKafka)(nil)

func (e *UserEventsKafka) PublishUserRegistered(ctx context.Context, ev events.UserRegistered) error {
	msg, err := EncodeUserRegistered(ev)
	if err != nil {
		return err
	}
	return e.p.PublishProto(ctx, []byte(ev.UserID.String()), msg)
}

// EncodeUserRegistered builds the self-describing wire form of the event.
func EncodeUserRegistered(ev events.UserRegistered) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{
		"type":    TypeUserRegistered,
		"user_id": ev.UserID.String(),
		"email":   ev.Email,
		"name":    ev.Name,
		"at":      ev.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("encode user event: %w", err)
	}
	return s, nil
}

func DecodeUserRegistered(s *structpb.Struct) (events.UserRegistered, error) {
	f := s.GetFields()
	if t := f["type"].GetStringValue(); t != TypeUserRegistered {
		return events.UserRegistered{}, fmt.Errorf("unexpected event type %q", t)
	}
	id, err := uuid.Parse(f["user_id"].GetStringValue())
	if err != nil {
		return events.UserRegistered{}, fmt.Errorf("user_id: %w", err)
	}
	ev := events.UserRegistered{
		UserID: id,
		Email:  f["email"].GetStringValue(),
		Name:   f["name"].GetStringValue(),
	}
	if at := f["at"].GetStringValue(); at != "" {
		if ev.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return events.UserRegistered{}, fmt.Errorf("at: %w", err)
		}
	}
	return ev, nil
}
