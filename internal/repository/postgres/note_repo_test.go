package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/NordCoder/Noteboard/internal/domain/note"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noteCols = []string{"id", "author_id", "title", "content", "created_at", "updated_at"}

func TestNoteRepo_CreateAndList(t *testing.T) {
	mock, db := newMock(t)
	repo := NewNoteRepo(db)
	author := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notes")).
		WithArgs(pgxmock.AnyArg(), author, "t", "c").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	n := &note.Note{AuthorID: author, Title: "t", Content: "c"}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.NotEqual(t, uuid.Nil, n.ID)

	older := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(author).
		WillReturnRows(pgxmock.NewRows(noteCols).
			AddRow(n.ID, author, "t", "c", now, now).
			AddRow(uuid.New(), author, "old", "c", older, older))

	list, err := repo.ListByAuthor(context.Background(), author)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, n.ID, list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepo_ListEmptyIsNotNil(t *testing.T) {
	mock, db := newMock(t)
	author := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM notes")).
		WithArgs(author).
		WillReturnRows(pgxmock.NewRows(noteCols))

	list, err := NewNoteRepo(db).ListByAuthor(context.Background(), author)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestNoteRepo_Delete(t *testing.T) {
	mock, db := newMock(t)
	repo := NewNoteRepo(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepo_GetByIDMissing(t *testing.T) {
	mock, db := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM notes")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(noteCols))

	_, err := NewNoteRepo(db).GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
