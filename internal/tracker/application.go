// Package tracker keeps the list of submitted applications and their status
// timelines.
package tracker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hired-always/internal/jobinfo"
)

// Status is where an application stands.
type Status string

// Application statuses.
const (
	StatusApplied   Status = "Applied"
	StatusScreening Status = "Screening"
	StatusInterview Status = "Interview"
	StatusTechnical Status = "Technical"
	StatusFinal     Status = "Final"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusApplied, StatusScreening, StatusInterview, StatusTechnical,
	StatusFinal, StatusOffer, StatusRejected, StatusWithdrawn,
}

var (
	activeStatuses    = []Status{StatusApplied, StatusScreening, StatusInterview, StatusTechnical, StatusFinal}
	interviewStatuses = []Status{StatusInterview, StatusTechnical, StatusFinal}
)

// ErrNotFound means no application has the requested ID.
var ErrNotFound = errors.New("application not found")

// ErrInvalid means an application is missing required data or carries an
// unknown status.
var ErrInvalid = errors.New("invalid application")

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
}

// DateLayout is the format of application and timeline dates.
const DateLayout = "2006-01-02"

// StatusChange is one timeline entry.
type StatusChange struct {
	Status Status `json:"status"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}

// Application is one tracked job application.
type Application struct {
	ID              uuid.UUID      `json:"id"`
	Company         string         `json:"company"`
	Position        string         `json:"position"`
	Location        string         `json:"location,omitempty"`
	Salary          string         `json:"salary,omitempty"`
	JobType         string         `json:"jobType,omitempty"`
	JobURL          string         `json:"jobUrl,omitempty"`
	Status          Status         `json:"status"`
	ApplicationDate string         `json:"applicationDate"`
	ContactName     string         `json:"contactName,omitempty"`
	ContactEmail    string         `json:"contactEmail,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Timeline        []StatusChange `json:"timeline"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Input is the user-editable part of an application.
type Input struct {
	Company         string `json:"company"`
	Position        string `json:"position"`
	Location        string `json:"location,omitempty"`
	Salary          string `json:"salary,omitempty"`
	JobType         string `json:"jobType,omitempty"`
	JobURL          string `json:"jobUrl,omitempty"`
	Status          Status `json:"status,omitempty"`
	ApplicationDate string `json:"applicationDate,omitempty"`
	ContactName     string `json:"contactName,omitempty"`
	ContactEmail    string `json:"contactEmail,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// FromJobInfo prefills an Input from extracted job metadata.
func FromJobInfo(info jobinfo.Info, jobURL string) Input {
	return Input{
		Company:  info.Company,
		Position: info.Position,
		Location: info.Location,
		Salary:   info.Salary,
		JobType:  info.JobType,
		JobURL:   jobURL,
	}
}

// normalize trims in, applies defaults and checks it.
func (in Input) normalize(now time.Time) (Input, error) {
	for _, s := range []*string{&in.Company, &in.Position, &in.Location, &in.Salary, &in.JobType,
		&in.JobURL, &in.ApplicationDate, &in.ContactName, &in.ContactEmail, &in.Notes} {
		*s = strings.TrimSpace(*s)
	}
	if in.Company == "" || in.Position == "" {
		return in, fmt.Errorf("%w: company and position are required", ErrInvalid)
	}
	if in.Status == "" {
		in.Status = StatusApplied
	} else {
		st, err := ParseStatus(string(in.Status))
		if err != nil {
			return in, err
		}
		in.Status = st
	}
	if in.ApplicationDate == "" {
		in.ApplicationDate = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, in.ApplicationDate); err != nil {
		return in, fmt.Errorf("%w: application date %q is not YYYY-MM-DD", ErrInvalid, in.ApplicationDate)
	}
	return in, nil
}

// newApplication builds a fresh application whose timeline starts with the
// submission.
func newApplication(in Input, now time.Time) (*Application, error) {
	in, err := in.normalize(now)
	if err != nil {
		return nil, err
	}
	app := &Application{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Timeline: []StatusChange{{
			Status: in.Status,
			Date:   in.ApplicationDate,
			Note:   "Application submitted",
		}},
	}
	app.apply(in)
	return app, nil
}

func (a *Application) apply(in Input) {
	a.Company = in.Company
	a.Position = in.Position
	a.Location = in.Location
	a.Salary = in.Salary
	a.JobType = in.JobType
	a.JobURL = in.JobURL
	a.Status = in.Status
	a.ApplicationDate = in.ApplicationDate
	a.ContactName = in.ContactName
	a.ContactEmail = in.ContactEmail
	a.Notes = in.Notes
}

// edit replaces the editable fields, recording a status change on the
// timeline. It reports whether the status changed.
func (a *Application) edit(in Input, now time.Time) (bool, error) {
	in, err := in.normalize(now)
	if err != nil {
		return false, err
	}
	changed := in.Status != a.Status
	if changed {
		a.recordStatus(in.Status, "", now)
	}
	a.apply(in)
	a.UpdatedAt = now
	return changed, nil
}

// setStatus moves the application to st. note replaces the default timeline
// note when set.
func (a *Application) setStatus(st Status, note string, now time.Time) bool {
	if st == a.Status {
		return false
	}
	a.recordStatus(st, note, now)
	a.Status = st
	a.UpdatedAt = now
	return true
}

func (a *Application) recordStatus(st Status, note string, now time.Time) {
	if note == "" {
		note = "Status changed to " + string(st)
	}
	a.Timeline = append(a.Timeline, StatusChange{Status: st, Date: now.Format(DateLayout), Note: note})
}

// Active reports whether the application is still in the pipeline.
func (a *Application) Active() bool {
	return slices.Contains(activeStatuses, a.Status)
}

// DaysSince returns the whole days from the application date to now, rounded
// up.
func (a *Application) DaysSince(now time.Time) int {
	applied, err := time.Parse(DateLayout, a.ApplicationDate)
	if err != nil {
		return 0
	}
	d := now.Sub(applied)
	if d < 0 {
		d = -d
	}
	return int((d + 24*time.Hour - 1) / (24 * time.Hour))
}
