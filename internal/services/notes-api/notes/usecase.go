package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Noteboard/internal/domain/note"
	"github.com/google/uuid"
)

// ErrNotFound covers missing notes and notes owned by someone else.
var ErrNotFound = errors.New("note not found or not owned")

type Usecase struct {
	repo note.Repo
}

func New(repo note.Repo) *Usecase {
	return &Usecase{repo: repo}
}

func (u *Usecase) List(ctx context.Context, authorID uuid.UUID) ([]*note.Note, error) {
	ns, err := u.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if ns == nil {
		ns = []*note.Note{}
	}
	return ns, nil
}

func (u *Usecase) Create(ctx context.Context, authorID uuid.UUID, title, content string) (*note.Note, error) {
	n := &note.Note{AuthorID: authorID, Title: title, Content: content}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (u *Usecase) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	cur, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load note: %w", err)
	}
	if cur.AuthorID != requesterID {
		return ErrNotFound
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, note.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
