// Package autofill runs fill passes: it collects a page's fields, gets answers
// from the AI solver or the stored profile, and writes them back field by
// field.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jonathan/hired-always/internal/form"
)

const autoFillKey = "autoFillOnLoad"

// Result is the outcome of one fill pass.
type Result struct {
	Filled int
	Logs   []string
}

func (r *Result) logf(format string, args ...any) {
	r.Logs = append(r.Logs, fmt.Sprintf(format, args...))
}

// Filler runs fill passes. It does not serialize passes; callers must not
// fill the same page concurrently.
type Filler struct {
	collector *form.Collector
	writer    *form.Writer
	profiles  ProfileStore
	solver    Solver
	logger    *slog.Logger
}

// New returns a Filler. solver may be nil, in which case every pass answers
// from the profile.
func New(profiles ProfileStore, solver Solver, logger *slog.Logger) *Filler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filler{
		collector: form.NewCollector(logger),
		writer:    form.NewWriter(logger),
		profiles:  profiles,
		solver:    solver,
		logger:    logger,
	}
}

// Fill runs one pass over page. Misses and per-field write failures are
// reported in the log trail; only a failed snapshot returns an error.
func (f *Filler) Fill(ctx context.Context, page Page, opts Options) (*Result, error) {
	snap, err := page.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot page: %w", err)
	}
	res := &Result{}
	fields := f.collector.Collect(snap.Doc)
	res.logf("Found %d fields", len(fields))
	if len(fields) == 0 {
		return res, nil
	}

	profile := f.profile(ctx, res)
	var answers form.AnswerMap
	if opts.UseAI && f.solver != nil {
		answers = f.solve(ctx, snap, profile, fields, res)
	} else {
		if opts.UseAI {
			res.logf("AI solver not configured, answering from profile")
		}
		answers = ProfileAnswers(fields, profile)
		res.logf("Matched %d fields from profile", len(answers))
	}

	for _, field := range fields {
		value, ok := answers[field.ID]
		if !ok {
			continue
		}
		filled, err := f.writer.Apply(ctx, page, field, value)
		if err != nil {
			f.logger.Warn("autofill: write failed", "field", field.ID, "error", err)
			res.logf("Failed %s: %v", describe(field), err)
			if ctx.Err() != nil {
				res.logf("Stopped: %v", ctx.Err())
				break
			}
			continue
		}
		if filled {
			res.Filled++
			res.logf("Filled %s", describe(field))
		} else {
			res.logf("Skipped %s: no usable value for %q", describe(field), value)
		}
	}
	res.logf("Filled %d of %d fields", res.Filled, len(fields))
	f.logger.Info("autofill: pass complete", "url", snap.URL, "fields", len(fields), "filled", res.Filled)
	return res, nil
}

// HandleMessage answers a trigger message. A panic inside the pass is reported
// as a failed response.
func (f *Filler) HandleMessage(ctx context.Context, page Page, msg Message) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("autofill: pass panicked", "panic", r)
			resp = Response{OK: false, Error: fmt.Sprint(r)}
		}
	}()

	switch msg.Type {
	case TypePing:
		return Response{OK: true}
	case TypeAutofillNow:
		res, err := f.Fill(ctx, page, msg.Opts)
		if err != nil {
			return Response{OK: false, Error: err.Error()}
		}
		return Response{OK: true, Filled: res.Filled, Logs: res.Logs}
	default:
		return Response{OK: false, Error: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}

// AutoTrigger runs an AI fill when the profile asks for fill-on-load. It
// reports whether a pass ran.
func (f *Filler) AutoTrigger(ctx context.Context, page Page) (*Result, bool, error) {
	if f.profiles == nil {
		return nil, false, nil
	}
	prefs, err := f.profiles.Get(ctx, []string{autoFillKey})
	if err != nil {
		f.logger.Warn("autofill: read preferences", "error", err)
		return nil, false, nil
	}
	on, _ := strconv.ParseBool(prefs[autoFillKey])
	if !on {
		return nil, false, nil
	}
	res, err := f.Fill(ctx, page, Options{UseAI: true})
	return res, true, err
}

func (f *Filler) profile(ctx context.Context, res *Result) map[string]string {
	if f.profiles == nil {
		return map[string]string{}
	}
	profile, err := f.profiles.Get(ctx, nil)
	if err != nil {
		f.logger.Warn("autofill: profile unavailable", "error", err)
		res.logf("Profile unavailable: %v", err)
		return map[string]string{}
	}
	if profile == nil {
		profile = map[string]string{}
	}
	return profile
}

func (f *Filler) solve(ctx context.Context, snap *form.Snapshot, profile map[string]string, fields []form.Field, res *Result) form.AnswerMap {
	answers := make(form.AnswerMap)
	resp, err := f.solver.Solve(ctx, SolveRequest{
		Page:    PageInfo{URL: snap.URL, Title: snap.Title},
		Profile: profile,
		Fields:  fields,
	})
	switch {
	case err != nil:
		f.logger.Warn("autofill: solver failed", "error", err, "canceled", errors.Is(err, context.Canceled))
		res.logf("AI solve failed: %v", err)
		return answers
	case resp == nil || !resp.OK || resp.Result == nil:
		msg := "no result"
		if resp != nil && resp.Error != "" {
			msg = resp.Error
		}
		f.logger.Warn("autofill: solver returned no answers", "reason", msg)
		res.logf("AI solve returned no answers: %s", msg)
		return answers
	}

	known := make(map[string]bool, len(fields))
	for _, field := range fields {
		known[field.ID] = true
	}
	for _, a := range resp.Result.Answers {
		if !known[a.FieldID] || a.Value == nil {
			continue
		}
		answers[a.FieldID] = form.Stringify(a.Value)
	}
	res.logf("AI answered %d fields", len(answers))
	return answers
}

func describe(f form.Field) string {
	if f.Label != "" {
		return fmt.Sprintf("%q (%s)", f.Label, f.ID)
	}
	return f.ID
}
