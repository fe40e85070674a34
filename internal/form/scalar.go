package form

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrRejected means a raw answer cannot be turned into a value for the control.
var ErrRejected = errors.New("value rejected")

const isoLayout = "2006-01-02"

var (
	truthy = map[string]bool{"true": true, "yes": true, "y": true, "1": true, "on": true, "checked": true}
	falsy  = map[string]bool{"false": true, "no": true, "n": true, "0": true, "off": true, "unchecked": true}

	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hasDigit  = regexp.MustCompile(`\d`)
	dateForms = []string{
		"2006-1-2",
		"2006/1/2",
		"1/2/2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2 January 2006",
		"2 Jan 2006",
	}
)

// NormalizeScalar converts a raw answer for a checkbox or date control. Checkbox
// answers become "true" or "false"; dates become YYYY-MM-DD. Other kinds are
// returned unchanged.
func NormalizeScalar(kind Kind, raw string) (string, error) {
	switch kind {
	case KindCheckbox:
		b, err := ParseBool(raw)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case KindDate:
		return normalizeDate(raw)
	default:
		return raw, nil
	}
}

// ParseBool maps the checkbox vocabulary to a boolean.
func ParseBool(raw string) (bool, error) {
	token := Normalize(raw)
	switch {
	case truthy[token]:
		return true, nil
	case falsy[token]:
		return false, nil
	}
	return false, ErrRejected
}

func normalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if isoDate.MatchString(s) {
		if _, err := time.Parse(isoLayout, s); err != nil {
			return "", ErrRejected
		}
		return s, nil
	}
	if !hasDigit.MatchString(s) {
		return "", ErrRejected
	}
	for _, layout := range dateForms {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout), nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", ErrRejected
	}
	return t.Format(isoLayout), nil
}

// Stringify renders a decoded JSON or YAML scalar as a raw answer. Numbers use
// their shortest decimal form. Nil renders empty.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case interface{ String() string }:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
