package autofill

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hired-always/internal/form"
)

const applyPage = `<html><head><title>Apply: Staff Engineer</title></head><body><form>
	<label for="first">First Name</label><input id="first" name="first">
	<label for="last">Last Name</label><input id="last" name="last">
	<label for="email">Email</label><input id="email" type="email">
	<label for="phone">Phone number</label><input id="phone" type="tel">
	<label for="sponsorship">Will you require visa sponsorship?</label>
	<select id="sponsorship">
		<option value="">Select...</option>
		<option value="yes">Yes</option>
		<option value="no">No</option>
	</select>
	<label for="extra">Anything else you'd like us to know?</label><textarea id="extra"></textarea>
	<label><input type="checkbox" id="terms"> I agree to the terms</label>
</form></body></html>`

const pageURL = "https://boards.greenhouse.io/acme/jobs/1"

var janeProfile = map[string]string{
	"firstName":   "Jane",
	"lastName":    "Doe",
	"fullName":    "Jane Doe",
	"email":       "jane@example.com",
	"phone":       "555-010-2030",
	"sponsorship": "No",
}

type mapStore struct {
	values map[string]string
	err    error
	keys   [][]string
}

func (s *mapStore) Get(_ context.Context, keys []string) (map[string]string, error) {
	s.keys = append(s.keys, keys)
	if s.err != nil {
		return map[string]string{}, s.err
	}
	out := map[string]string{}
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

type stubSolver struct {
	resp *SolveResponse
	err  error
	got  []SolveRequest
}

func (s *stubSolver) Solve(_ context.Context, req SolveRequest) (*SolveResponse, error) {
	s.got = append(s.got, req)
	return s.resp, s.err
}

func newPage(t *testing.T, src string) *form.DocumentPage {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return form.NewDocumentPage(doc, pageURL)
}

func valueOf(t *testing.T, page *form.DocumentPage, sel string) string {
	t.Helper()
	snap, err := page.Snapshot(context.Background())
	require.NoError(t, err)
	s := snap.Doc.Find(sel)
	if goquery.NodeName(s) == "textarea" {
		return s.Text()
	}
	return s.AttrOr("value", "")
}

func TestFill_FromProfile(t *testing.T) {
	page := newPage(t, applyPage)
	f := New(&mapStore{values: janeProfile}, nil, nil)

	res, err := f.Fill(context.Background(), page, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Filled)
	assert.Equal(t, "Jane", valueOf(t, page, "#first"))
	assert.Equal(t, "Doe", valueOf(t, page, "#last"))
	assert.Equal(t, "jane@example.com", valueOf(t, page, "#email"))
	assert.Equal(t, "555-010-2030", valueOf(t, page, "#phone"))
	assert.Equal(t, "", valueOf(t, page, "#extra"))

	snap, err := page.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no", snap.Doc.Find("#sponsorship option[selected]").AttrOr("value", ""))
	_, checked := snap.Doc.Find("#terms").Attr("checked")
	assert.False(t, checked)

	require.NotEmpty(t, res.Logs)
	assert.Equal(t, "Found 7 fields", res.Logs[0])
	assert.Contains(t, res.Logs, `Filled "First Name" (first)`)
	assert.Equal(t, "Filled 5 of 7 fields", res.Logs[len(res.Logs)-1])
}

func TestFill_FromSolver(t *testing.T) {
	page := newPage(t, applyPage)
	solver := &stubSolver{resp: &SolveResponse{OK: true, Result: &SolveResult{Answers: []Answer{
		{FieldID: "first", Value: "Janet"},
		{FieldID: "terms", Value: true},
		{FieldID: "extra", Value: "Happy to relocate."},
		{FieldID: "sponsorship", Value: "Yes"},
		{FieldID: "phone", Value: float64(5550102030)},
		{FieldID: "not-on-page", Value: "ignored"},
		{FieldID: "last", Value: nil},
	}}}}
	store := &mapStore{values: janeProfile}
	f := New(store, solver, nil)

	res, err := f.Fill(context.Background(), page, Options{UseAI: true})
	require.NoError(t, err)

	require.Len(t, solver.got, 1)
	req := solver.got[0]
	assert.Equal(t, PageInfo{URL: pageURL, Title: "Apply: Staff Engineer"}, req.Page)
	assert.Equal(t, janeProfile, req.Profile)
	assert.Len(t, req.Fields, 7)

	assert.Equal(t, 5, res.Filled)
	assert.Equal(t, "Janet", valueOf(t, page, "#first"))
	assert.Equal(t, "5550102030", valueOf(t, page, "#phone"))
	assert.Equal(t, "Happy to relocate.", valueOf(t, page, "#extra"))
	assert.Equal(t, "", valueOf(t, page, "#last"), "a null answer leaves the field alone")
	assert.Equal(t, "", valueOf(t, page, "#email"), "profile answers are not mixed into AI answers")

	snap, err := page.Snapshot(context.Background())
	require.NoError(t, err)
	_, checked := snap.Doc.Find("#terms").Attr("checked")
	assert.True(t, checked)
	assert.Contains(t, res.Logs, "AI answered 5 fields")
}

func TestFill_SolverFailuresYieldNoAnswers(t *testing.T) {
	tests := []struct {
		name    string
		solver  *stubSolver
		wantLog string
	}{
		{name: "transport error", solver: &stubSolver{err: errors.New("connection reset")}, wantLog: "AI solve failed: connection reset"},
		{name: "context loss", solver: &stubSolver{err: context.Canceled}, wantLog: "AI solve failed: context canceled"},
		{name: "not ok", solver: &stubSolver{resp: &SolveResponse{OK: false, Error: "missing API key"}}, wantLog: "AI solve returned no answers: missing API key"},
		{name: "nil response", solver: &stubSolver{}, wantLog: "AI solve returned no answers: no result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newPage(t, applyPage)
			f := New(&mapStore{values: janeProfile}, tt.solver, nil)

			res, err := f.Fill(context.Background(), page, Options{UseAI: true})
			require.NoError(t, err)
			assert.Equal(t, 0, res.Filled)
			assert.Contains(t, res.Logs, tt.wantLog)
			assert.Equal(t, "", valueOf(t, page, "#first"))
		})
	}
}

func TestFill_NoSolverFallsBackToProfile(t *testing.T) {
	page := newPage(t, applyPage)
	f := New(&mapStore{values: janeProfile}, nil, nil)

	res, err := f.Fill(context.Background(), page, Options{UseAI: true})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Filled)
	assert.Contains(t, res.Logs, "AI solver not configured, answering from profile")
}

func TestFill_ProfileFailureIsEmptyProfile(t *testing.T) {
	page := newPage(t, applyPage)
	f := New(&mapStore{err: errors.New("storage gone")}, nil, nil)

	res, err := f.Fill(context.Background(), page, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Filled)
	assert.Contains(t, res.Logs, "Profile unavailable: storage gone")
}

func TestFill_PageWithoutControls(t *testing.T) {
	page := newPage(t, `<html><body><h1>Thanks for applying</h1></body></html>`)
	solver := &stubSolver{}
	f := New(&mapStore{values: janeProfile}, solver, nil)

	resp := f.HandleMessage(context.Background(), page, Message{Type: TypeAutofillNow, Opts: Options{UseAI: true}})

	assert.Equal(t, Response{OK: true, Filled: 0, Logs: []string{"Found 0 fields"}}, resp)
	assert.Empty(t, solver.got, "no solver call without fields")
}

type failingPage struct {
	*form.DocumentPage
	failRef string
}

func (p *failingPage) SetValue(ctx context.Context, ref, value string) error {
	if ref == p.failRef {
		return errors.New("node detached")
	}
	return p.DocumentPage.SetValue(ctx, ref, value)
}

func TestFill_WriteFailureDoesNotStopThePass(t *testing.T) {
	inner := newPage(t, applyPage)
	snap, err := inner.Snapshot(context.Background())
	require.NoError(t, err)
	fields := form.NewCollector(nil).Collect(snap.Doc)
	require.Equal(t, "first", fields[0].ID)

	page := &failingPage{DocumentPage: inner, failRef: fields[0].Ref}
	f := New(&mapStore{values: janeProfile}, nil, nil)

	res, err := f.Fill(context.Background(), page, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Filled)
	assert.Equal(t, "Doe", valueOf(t, inner, "#last"))

	var failed []string
	for _, l := range res.Logs {
		if strings.HasPrefix(l, "Failed ") {
			failed = append(failed, l)
		}
	}
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0], "node detached")
}

type brokenPage struct {
	*form.DocumentPage
	panics bool
}

func (p *brokenPage) Snapshot(context.Context) (*form.Snapshot, error) {
	if p.panics {
		panic("page context invalidated")
	}
	return nil, errors.New("target closed")
}

func TestHandleMessage(t *testing.T) {
	f := New(&mapStore{values: janeProfile}, nil, nil)

	tests := []struct {
		name string
		page Page
		msg  Message
		want Response
	}{
		{name: "ping", page: newPage(t, applyPage), msg: Message{Type: TypePing}, want: Response{OK: true}},
		{name: "unknown type", page: newPage(t, applyPage), msg: Message{Type: "FILL_LATER"}, want: Response{Error: `unknown message type "FILL_LATER"`}},
		{name: "snapshot failure", page: &brokenPage{}, msg: Message{Type: TypeAutofillNow}, want: Response{Error: "snapshot page: target closed"}},
		{name: "panic", page: &brokenPage{panics: true}, msg: Message{Type: TypeAutofillNow}, want: Response{Error: "page context invalidated"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.HandleMessage(context.Background(), tt.page, tt.msg))
		})
	}

	resp := f.HandleMessage(context.Background(), newPage(t, applyPage), Message{Type: TypeAutofillNow})
	assert.True(t, resp.OK)
	assert.Equal(t, 5, resp.Filled)
	assert.NotEmpty(t, resp.Logs)
}

func TestAutoTrigger(t *testing.T) {
	answers := &SolveResponse{OK: true, Result: &SolveResult{Answers: []Answer{{FieldID: "first", Value: "Jane"}}}}

	tests := []struct {
		name    string
		store   *mapStore
		wantRan bool
	}{
		{name: "enabled", store: &mapStore{values: map[string]string{"autoFillOnLoad": "true"}}, wantRan: true},
		{name: "disabled", store: &mapStore{values: map[string]string{"autoFillOnLoad": "false"}}},
		{name: "unset", store: &mapStore{values: map[string]string{}}},
		{name: "store failure", store: &mapStore{err: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solver := &stubSolver{resp: answers}
			f := New(tt.store, solver, nil)

			res, ran, err := f.AutoTrigger(context.Background(), newPage(t, applyPage))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRan, ran)
			assert.Equal(t, []string{"autoFillOnLoad"}, tt.store.keys[0])
			if tt.wantRan {
				require.NotNil(t, res)
				assert.Equal(t, 1, res.Filled)
				assert.Len(t, solver.got, 1, "auto fill uses the AI path")
			} else {
				assert.Nil(t, res)
				assert.Empty(t, solver.got)
			}
		})
	}
}
