package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/events"
	"github.com/NordCoder/Noteboard/internal/domain/notification"
	"github.com/NordCoder/Noteboard/internal/domain/user"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const welcomeSubject = "Welcome to Noteboard"

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type Handler struct {
	Users UserReader
	Store notification.Repo
	Out   notification.EmailSender
	Clock notification.Clock
	Log   *zap.Logger
}

func welcomeBody(name string) string {
	return fmt.Sprintf(
		"Hello %s!\n\nYour Noteboard account is ready. Sign in to start writing notes.\n\n- Noteboard",
		name,
	)
}

// HandleUserRegistered sends the welcome mail and records it. Events for
// accounts that no longer exist are dropped.
func (h *Handler) HandleUserRegistered(ctx context.Context, ev events.UserRegistered) error {
	log := obs.WithTrace(ctx, h.Log).With(zap.String("user_id", ev.UserID.String()))

	u, err := h.Users.GetByID(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			mSkipped.Inc()
			log.Info("user gone; welcome mail skipped")
			return nil
		}
		mErrors.Inc()
		return fmt.Errorf("get user: %w", err)
	}

	sent, err := h.Store.Sent(ctx, u.ID, notification.TypeWelcomeEmail)
	if err != nil {
		mErrors.Inc()
		return fmt.Errorf("check sent: %w", err)
	}
	if sent {
		mSkipped.Inc()
		log.Info("welcome mail already sent")
		return nil
	}

	body := welcomeBody(u.Name)
	if err := h.Out.Send(ctx, u.Email, welcomeSubject, body); err != nil {
		mErrors.Inc()
		return fmt.Errorf("send email: %w", err)
	}
	mSent.Inc()

	clk := h.Clock
	if clk == nil {
		clk = systemClock{}
	}
	// the mail is out; a failed record must not trigger a second send
	if err := h.Store.Create(ctx, &notification.Notification{
		UserID:  u.ID,
		Type:    notification.TypeWelcomeEmail,
		SentAt:  clk.Now().UTC(),
		Payload: body,
	}); err != nil && !errors.Is(err, notification.ErrAlreadySent) {
		mErrors.Inc()
		log.Warn("record notification failed", zap.Error(err))
	}
	return nil
}
