package tracker

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder names a list ordering.
type SortOrder string

// Sort orders.
const (
	SortDateDesc SortOrder = "date-desc"
	SortDateAsc  SortOrder = "date-asc"
	SortCompany  SortOrder = "company"
	SortStatus   SortOrder = "status"
)

// IsValid reports whether o is a known order or empty.
func (o SortOrder) IsValid() bool {
	switch o {
	case "", SortDateDesc, SortDateAsc, SortCompany, SortStatus:
		return true
	}
	return false
}

// Filter narrows and orders a list of applications.
type Filter struct {
	// Status keeps only one status when set.
	Status Status
	// Search keeps applications whose company or position contains it,
	// ignoring case.
	Search string
	Sort   SortOrder
}

// Apply returns the matching applications in the requested order. apps is not
// modified.
func (f Filter) Apply(apps []Application) []Application {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Application, 0, len(apps))
	for _, a := range apps {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Company), search) &&
			!strings.Contains(strings.ToLower(a.Position), search) {
			continue
		}
		out = append(out, a)
	}

	switch f.Sort {
	case SortDateDesc, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ApplicationDate > out[j].ApplicationDate })
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ApplicationDate < out[j].ApplicationDate })
	case SortCompany:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(out[i].Company, out[j].Company) < 0 })
	case SortStatus:
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool { return c.CompareString(string(out[i].Status), string(out[j].Status)) < 0 })
	}
	return out
}

// Stats are the dashboard counters.
type Stats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Interviews int `json:"interviews"`
	Offers     int `json:"offers"`
}

// Summarize counts apps.
func Summarize(apps []Application) Stats {
	s := Stats{Total: len(apps)}
	for _, a := range apps {
		if a.Active() {
			s.Active++
		}
		if slices.Contains(interviewStatuses, a.Status) {
			s.Interviews++
		}
		if a.Status == StatusOffer {
			s.Offers++
		}
	}
	return s
}
