package notifier

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	config "github.com/NordCoder/Noteboard/internal/config/email-notifier"
	"github.com/NordCoder/Noteboard/internal/domain/events"
	"github.com/NordCoder/Noteboard/internal/domain/notification"
	"github.com/NordCoder/Noteboard/internal/domain/user"
	kafkax "github.com/NordCoder/Noteboard/internal/repository/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type usersStub map[uuid.UUID]*user.User

func (u usersStub) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if v, ok := u[id]; ok {
		return v, nil
	}
	return nil, user.ErrNotFound
}

type sentMail struct{ to, subject, body string }

type senderStub struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *senderStub) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, body})
	return nil
}

type notifStub struct {
	rows []*notification.Notification
	err  error
}

func (n *notifStub) Sent(_ context.Context, userID uuid.UUID, typ string) (bool, error) {
	for _, r := range n.rows {
		if r.UserID == userID && r.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func (n *notifStub) Create(_ context.Context, row *notification.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.rows = append(n.rows, row)
	return nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestHandleUserRegistered_SendsAndRecords(t *testing.T) {
	id := uuid.New()
	out := &senderStub{}
	store := &notifStub{}
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	h := &Handler{
		Users: usersStub{id: {ID: id, Name: "Ann", Email: "ann@x.com"}},
		Store: store,
		Out:   out,
		Clock: fixedClock(at),
	}

	require.NoError(t, h.HandleUserRegistered(context.Background(), events.UserRegistered{UserID: id}))

	require.Len(t, out.sent, 1)
	assert.Equal(t, "ann@x.com", out.sent[0].to)
	assert.Equal(t, "Welcome to Noteboard", out.sent[0].subject)
	assert.Contains(t, out.sent[0].body, "Hello Ann!")

	require.Len(t, store.rows, 1)
	assert.Equal(t, id, store.rows[0].UserID)
	assert.Equal(t, notification.TypeWelcomeEmail, store.rows[0].Type)
	assert.Equal(t, at, store.rows[0].SentAt)
}

func TestHandleUserRegistered_Failures(t *testing.T) {
	id := uuid.New()
	users := usersStub{id: {ID: id, Name: "Ann", Email: "ann@x.com"}}

	h := &Handler{Users: users, Store: &notifStub{}, Out: &senderStub{}}
	assert.NoError(t, h.HandleUserRegistered(context.Background(), events.UserRegistered{UserID: uuid.New()}),
		"deleted users are skipped")

	h = &Handler{Users: users, Store: &notifStub{}, Out: &senderStub{err: errors.New("smtp down")}}
	assert.Error(t, h.HandleUserRegistered(context.Background(), events.UserRegistered{UserID: id}))

	out := &senderStub{}
	h = &Handler{Users: users, Store: &notifStub{err: errors.New("db down")}, Out: out}
	assert.NoError(t, h.HandleUserRegistered(context.Background(), events.UserRegistered{UserID: id}))
	assert.Len(t, out.sent, 1)
}

func TestHandleUserRegistered_RedeliveryDoesNotResend(t *testing.T) {
	id := uuid.New()
	out := &senderStub{}
	store := &notifStub{}
	h := &Handler{Users: usersStub{id: {ID: id, Name: "Ann", Email: "ann@x.com"}}, Store: store, Out: out}

	ev := events.UserRegistered{UserID: id}
	require.NoError(t, h.HandleUserRegistered(context.Background(), ev))
	require.NoError(t, h.HandleUserRegistered(context.Background(), ev))
	assert.Len(t, out.sent, 1)
	assert.Len(t, store.rows, 1)
}

func TestRunner_HandlerDecodesEvents(t *testing.T) {
	id := uuid.New()
	out := &senderStub{}
	r := NewRunner(nil, nil, &Handler{
		Users: usersStub{id: {ID: id, Name: "Ann", Email: "ann@x.com"}},
		Store: &notifStub{},
		Out:   out,
	})
	h := r.Handler()

	msg, err := kafkax.EncodeUserRegistered(events.UserRegistered{UserID: id, Email: "ann@x.com", Name: "Ann"})
	require.NoError(t, err)
	raw, err := proto.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), []byte(id.String()), raw))
	assert.Len(t, out.sent, 1)

	other, err := structpb.NewStruct(map[string]any{"type": "something.else"})
	require.NoError(t, err)
	raw, err = proto.Marshal(other)
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), nil, raw))
	assert.Len(t, out.sent, 1)
}

// fakeSMTP speaks just enough of RFC 5321 for net/smtp and records DATA.
func fakeSMTP(t *testing.T) (addr string, data <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
		reply := func(s string) { _, _ = rw.WriteString(s + "\r\n"); _ = rw.Flush() }

		reply("220 fake ESMTP")
		for {
			line, err := rw.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250-fake")
				reply("250 8BITMIME")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				reply("250 OK")
			case cmd == "DATA":
				reply("354 go ahead")
				var sb strings.Builder
				for {
					l, err := rw.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					sb.WriteString(l)
				}
				ch <- sb.String()
				reply("250 queued")
			case cmd == "QUIT":
				reply("221 bye")
				return
			default:
				reply("250 OK")
			}
		}
	}()
	return ln.Addr().String(), ch
}

func TestMailer_Send(t *testing.T) {
	addr, data := fakeSMTP(t)
	m := NewMailer(config.SMTP{Addr: addr, From: "noreply@noteboard.dev", SubjPrefix: "[Noteboard]", Timeout: 2 * time.Second})

	require.NoError(t, m.Send(context.Background(), "ann@x.com", welcomeSubject, "line1\nline2"))

	select {
	case got := <-data:
		assert.Contains(t, got, "To: ann@x.com\r\n")
		assert.Contains(t, got, "Subject: [Noteboard] Welcome to Noteboard\r\n")
		assert.Contains(t, got, "line1\r\nline2")
	case <-time.After(2 * time.Second):
		t.Fatal("no DATA received")
	}
}

func TestMailer_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	m := NewMailer(config.SMTP{Addr: addr, From: "a@b.c", Timeout: time.Second})
	assert.Error(t, m.Send(context.Background(), "ann@x.com", "s", "b"))
}
