package kafka

import (
	"context"
	"fmt"

	"github.com/NordCoder/Noteboard/internal/domain/events"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// UserRegisteredHandler adapts handle to a raw message Handler. Records that
// fail to decode go to skip and are acknowledged, since redelivering them
// cannot succeed.
func UserRegisteredHandler(handle func(context.Context, events.UserRegistered) error, skip func(error)) Handler {
	return func(ctx context.Context, _ []byte, value []byte) error {
		ev, err := decodeUserRegisteredBytes(value)
		if err != nil {
			if skip != nil {
				skip(err)
			}
			return nil
		}
		return handle(ctx, ev)
	}
}

func decodeUserRegisteredBytes(value []byte) (events.UserRegistered, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(value, &s); err != nil {
		return events.UserRegistered{}, fmt.Errorf("proto unmarshal: %w", err)
	}
	return DecodeUserRegistered(&s)
}
