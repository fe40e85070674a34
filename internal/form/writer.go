package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Page is the set of live-control operations a Writer needs. Refs are the CSS
// selectors carried in Field.Ref and Member.Ref.
type Page interface {
	// SetValue writes value through the control's prototype value setter.
	SetValue(ctx context.Context, ref, value string) error
	// Click activates the control the way a user click would.
	Click(ctx context.Context, ref string) error
	// Dispatch fires a bubbling event of the given type at the control.
	Dispatch(ctx context.Context, ref, event string) error
}

// WriteError is a failed operation on a live control.
type WriteError struct {
	FieldID string
	Ref     string
	Op      string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s to field %s (%s): %v", e.Op, e.FieldID, e.Ref, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer applies resolved answers to controls.
type Writer struct {
	logger *slog.Logger
}

// NewWriter returns a Writer. A nil logger uses slog.Default().
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Apply writes value into the control described by f and fires the events a
// reactive page listens for. It reports whether the field was filled.
//
// An answer that cannot be resolved for the control yields (false, nil). A
// failing page operation yields (false, *WriteError).
func (w *Writer) Apply(ctx context.Context, page Page, f Field, value string) (bool, error) {
	if f.Disabled || f.ReadOnly {
		w.logger.Debug("form: skipping locked field", "field", f.ID)
		return false, nil
	}

	switch f.Kind {
	case KindText, KindTextarea:
		return w.assign(ctx, page, f, f.Ref, value)

	case KindDate:
		iso, err := NormalizeScalar(KindDate, value)
		if err != nil {
			return false, nil
		}
		return w.assign(ctx, page, f, f.Ref, iso)

	case KindSelect:
		choice, ok := MatchChoice(f.Choices, value)
		if !ok {
			return false, nil
		}
		return w.assign(ctx, page, f, f.Ref, choice.Value)

	case KindCheckbox:
		want, err := ParseBool(value)
		if errors.Is(err, ErrRejected) {
			return false, nil
		}
		if want != f.Checked {
			if err := page.Click(ctx, f.Ref); err != nil {
				return false, &WriteError{FieldID: f.ID, Ref: f.Ref, Op: "click", Err: err}
			}
		}
		return w.dispatch(ctx, page, f, f.Ref, "change")

	case KindRadioGroup:
		member, ok := matchMember(f.Members, value)
		if !ok {
			return false, nil
		}
		if err := page.Click(ctx, member.Ref); err != nil {
			return false, &WriteError{FieldID: f.ID, Ref: member.Ref, Op: "click", Err: err}
		}
		return w.dispatch(ctx, page, f, member.Ref, "change")
	}
	return false, nil
}

func (w *Writer) assign(ctx context.Context, page Page, f Field, ref, value string) (bool, error) {
	if err := page.SetValue(ctx, ref, value); err != nil {
		return false, &WriteError{FieldID: f.ID, Ref: ref, Op: "set value", Err: err}
	}
	if ok, err := w.dispatch(ctx, page, f, ref, "input"); !ok {
		return false, err
	}
	return w.dispatch(ctx, page, f, ref, "change")
}

func (w *Writer) dispatch(ctx context.Context, page Page, f Field, ref, event string) (bool, error) {
	if err := page.Dispatch(ctx, ref, event); err != nil {
		return false, &WriteError{FieldID: f.ID, Ref: ref, Op: event + " event", Err: err}
	}
	return true, nil
}
