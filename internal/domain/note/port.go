package note

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
