// Package form turns the controls of an application page into field descriptors
// and writes resolved answers back into them.
package form

// Kind is the normalized control kind of a field.
type Kind string

// Field kinds.
const (
	KindText       Kind = "text"
	KindTextarea   Kind = "textarea"
	KindSelect     Kind = "select"
	KindCheckbox   Kind = "checkbox"
	KindRadioGroup Kind = "radio-group"
	KindDate       Kind = "date"
	KindOther      Kind = "other"
)

// Annotations written onto controls. The live browser writes the visible, value
// and checked annotations before a snapshot; the collector writes the ref.
const (
	AttrRef     = "data-hired-ref"
	AttrVisible = "data-hired-visible"
	AttrValue   = "data-hired-value"
	AttrChecked = "data-hired-checked"
)

const (
	maxSelectOptions = 50
	maxRadioOptions  = 30
)

// Field describes one fillable control, or one radio group.
type Field struct {
	ID      string   `json:"fieldId"`
	Kind    Kind     `json:"kind"`
	Label   string   `json:"label"`
	Options []string `json:"options,omitempty"`

	// Write-back state taken from the same snapshot. Not sent to the AI.
	Ref       string   `json:"-"`
	InputType string   `json:"-"`
	Choices   []Choice `json:"-"`
	Members   []Member `json:"-"`
	Checked   bool     `json:"-"`
	Disabled  bool     `json:"-"`
	ReadOnly  bool     `json:"-"`
}

// Choice is one select option.
type Choice struct {
	Text  string
	Value string
}

// Member is one radio button of a group.
type Member struct {
	Ref     string
	Label   string
	Value   string
	Checked bool
}

// AnswerMap maps a field ID to its raw answer.
type AnswerMap map[string]string

// RefSelector returns the CSS selector addressing the control annotated with ref.
func RefSelector(ref string) string {
	return `[` + AttrRef + `="` + ref + `"]`
}
