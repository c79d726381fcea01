package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Noteboard/internal/domain/note"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ note.Repo = (*NoteRepo)(nil)

type NoteRepo struct {
	db *DB
}

func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

const (
	qNoteInsert = `
INSERT INTO notes (id, author_id, title, content)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at;`

	qNoteByID = `
SELECT id, author_id, title, content, created_at, updated_at
FROM notes
WHERE id = $1;`

	qNotesByAuthor = `
SELECT id, author_id, title, content, created_at, updated_at
FROM notes
WHERE author_id = $1
ORDER BY created_at DESC;`

	qNoteDelete = `DELETE FROM notes WHERE id = $1;`
)

func scanNote(row pgx.Row, n *note.Note) error {
	if err := row.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %w", note.ErrNotFound, ErrNotFound)
		}
		return fmt.Errorf("scan note: %w", err)
	}
	return nil
}

func (r *NoteRepo) Create(ctx context.Context, n *note.Note) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if err := r.db.Pool.QueryRow(ctx, qNoteInsert, n.ID, n.AuthorID, n.Title, n.Content).
		Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
		return fmt.Errorf("note insert: %w", err)
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*note.Note, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var n note.Note
	if err := scanNote(r.db.Pool.QueryRow(ctx, qNoteByID, id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*note.Note, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qNotesByAuthor, authorID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	out := make([]*note.Note, 0)
	for rows.Next() {
		var n note.Note
		if err := scanNote(rows, &n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *NoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qNoteDelete, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %w", note.ErrNotFound, ErrNotFound)
	}
	return nil
}
