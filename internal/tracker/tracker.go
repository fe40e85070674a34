package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hired-always/internal/schemas"
)

// Tracker applies the application lifecycle on top of a Store.
type Tracker struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// New returns a Tracker over store.
func New(store Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, now: time.Now, logger: logger}
}

// Add records a new application.
func (t *Tracker) Add(ctx context.Context, in Input) (*Application, error) {
	app, err := newApplication(in, t.now())
	if err != nil {
		return nil, err
	}
	if err := t.store.Insert(ctx, app); err != nil {
		return nil, err
	}
	t.logger.Info("tracker: added application", "id", app.ID, "company", app.Company, "position", app.Position)
	return app, nil
}

// Edit replaces an application's editable fields.
func (t *Tracker) Edit(ctx context.Context, id uuid.UUID, in Input) (*Application, error) {
	app, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := app.edit(in, t.now())
	if err != nil {
		return nil, err
	}
	if err := t.store.Update(ctx, app); err != nil {
		return nil, err
	}
	t.logger.Debug("tracker: edited application", "id", id, "status_changed", changed)
	return app, nil
}

// SetStatus moves an application to a new status, adding a timeline entry.
// Setting the current status is a no-op.
func (t *Tracker) SetStatus(ctx context.Context, id uuid.UUID, st Status, note string) (*Application, error) {
	st, err := ParseStatus(string(st))
	if err != nil {
		return nil, err
	}
	app, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.setStatus(st, note, t.now()) {
		return app, nil
	}
	if err := t.store.Update(ctx, app); err != nil {
		return nil, err
	}
	t.logger.Info("tracker: status changed", "id", id, "status", st)
	return app, nil
}

// Get returns one application.
func (t *Tracker) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	return t.store.Get(ctx, id)
}

// Delete removes an application.
func (t *Tracker) Delete(ctx context.Context, id uuid.UUID) error {
	if err := t.store.Delete(ctx, id); err != nil {
		return err
	}
	t.logger.Info("tracker: deleted application", "id", id)
	return nil
}

// List returns the applications matching f.
func (t *Tracker) List(ctx context.Context, f Filter) ([]Application, error) {
	if !f.Sort.IsValid() {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalid, f.Sort)
	}
	if f.Status != "" {
		st, err := ParseStatus(string(f.Status))
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	apps, err := t.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(apps), nil
}

// Stats counts every stored application.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	apps, err := t.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(apps), nil
}

// Import adds every application in a JSON array, as produced by Export or
// written by hand. The whole document is checked before anything is stored.
func (t *Tracker) Import(ctx context.Context, data []byte) ([]Application, error) {
	if err := schemas.Validate(schemas.Application, data); err != nil {
		return nil, err
	}
	var inputs []Input
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}
	now := t.now()
	for i, in := range inputs {
		if _, err := in.normalize(now); err != nil {
			return nil, fmt.Errorf("import entry %d: %w", i, err)
		}
	}
	added := make([]Application, 0, len(inputs))
	for _, in := range inputs {
		app, err := t.Add(ctx, in)
		if err != nil {
			return added, err
		}
		added = append(added, *app)
	}
	return added, nil
}

// Export renders every application as an indented JSON array.
func (t *Tracker) Export(ctx context.Context) ([]byte, error) {
	apps, err := t.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []Application{}
	}
	return json.MarshalIndent(apps, "", "  ")
}

// Close closes the store.
func (t *Tracker) Close() error {
	return t.store.Close()
}
