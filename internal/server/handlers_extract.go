package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/hired-always/internal/fetch"
	"github.com/jonathan/hired-always/internal/form"
	"github.com/jonathan/hired-always/internal/jobinfo"
	"github.com/jonathan/hired-always/internal/platform"
	"github.com/jonathan/hired-always/internal/tracker"
)

// ExtractRequest asks for the job metadata of supplied markup, or of the
// attached tab when HTML is empty.
type ExtractRequest struct {
	HTML  string `json:"html,omitempty"`
	URL   string `json:"url,omitempty"`
	Track bool   `json:"track,omitempty"`
}

// ExtractResponse is the metadata found on a page and the embedded
// application forms it links to.
type ExtractResponse struct {
	URL         string               `json:"url"`
	Platform    platform.ID          `json:"platform"`
	Info        jobinfo.Info         `json:"info"`
	Frames      []platform.Frame     `json:"frames"`
	Application *tracker.Application `json:"application,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	snap, err := s.extractSource(r, req)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := ExtractResponse{
		URL:      snap.URL,
		Platform: s.registry.Identify(snap.URL),
		Info:     s.extractor.Extract(r.Context(), snap.Doc, snap.URL),
		Frames:   s.registry.ApplicationFrames(snap.Doc),
	}
	if resp.Frames == nil {
		resp.Frames = []platform.Frame{}
	}

	if req.Track {
		if s.tracker == nil {
			s.fail(w, &ErrUnavailable{Resource: "tracker"})
			return
		}
		app, err := s.tracker.Add(r.Context(), tracker.FromJobInfo(resp.Info, snap.URL))
		if err != nil {
			s.fail(w, err)
			return
		}
		resp.Application = app
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) extractSource(r *http.Request, req ExtractRequest) (*form.Snapshot, error) {
	if strings.TrimSpace(req.HTML) != "" {
		return fetch.Parse(req.HTML, req.URL)
	}
	if s.page == nil {
		return nil, &ErrValidation{Field: "html", Message: "required when no browser tab is attached"}
	}
	s.pageMu.Lock()
	defer s.pageMu.Unlock()
	return s.page.Snapshot(r.Context())
}
