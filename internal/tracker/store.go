package tracker

import (
	"context"

	"github.com/google/uuid"
)

// Store persists applications.
type Store interface {
	// Init creates the backing schema if needed.
	Init(ctx context.Context) error
	Insert(ctx context.Context, app *Application) error
	Get(ctx context.Context, id uuid.UUID) (*Application, error)
	// Update replaces a stored application; ErrNotFound if it does not exist.
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns every application in insertion order.
	List(ctx context.Context) ([]Application, error)
	Close() error
}
