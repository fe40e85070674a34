package platform

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FramePattern recognizes an iframe that embeds an ATS application form.
type FramePattern struct {
	Platform  ID
	Selector  string
	MinWidth  int
	MinHeight int
}

// Frame is an embedded application form found on a host page.
type Frame struct {
	Platform ID     `json:"platform"`
	Src      string `json:"src"`
}

// ApplicationFrames lists iframes that embed a known ATS application form, in
// pattern order. Frames on the ignore list, and frames whose declared width or
// height is under the pattern minimum, are skipped.
func (r *Registry) ApplicationFrames(doc *goquery.Document) []Frame {
	if doc == nil {
		return nil
	}
	var frames []Frame
	seen := make(map[string]bool)
	for _, p := range r.cfg.ApplicationFrames {
		doc.Find(p.Selector).Each(func(_ int, s *goquery.Selection) {
			src := strings.TrimSpace(s.AttrOr("src", ""))
			if src == "" || seen[src] || r.ignoredFrame(src) {
				return
			}
			if tooSmall(s.AttrOr("width", ""), p.MinWidth) || tooSmall(s.AttrOr("height", ""), p.MinHeight) {
				return
			}
			seen[src] = true
			frames = append(frames, Frame{Platform: p.Platform, Src: src})
		})
	}
	return frames
}

func (r *Registry) ignoredFrame(src string) bool {
	lower := strings.ToLower(src)
	for _, pattern := range r.cfg.IgnoredFrames {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// tooSmall reports whether a declared pixel size is below min. Undeclared or
// relative sizes are not judged.
func tooSmall(declared string, min int) bool {
	declared = strings.TrimSuffix(strings.TrimSpace(declared), "px")
	if declared == "" || min <= 0 {
		return false
	}
	n, err := strconv.Atoi(declared)
	if err != nil {
		return false
	}
	return n < min
}
