// Package profile stores the applicant profile the autofill pipeline reads
// answers from. Profiles are YAML files keyed by the same names the form
// options page uses (firstName, email, veteranStatus, ...).
package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/hired-always/internal/form"
)

// Profile is the applicant's stored answers.
type Profile struct {
	FirstName string `yaml:"firstName,omitempty" validate:"required"`
	LastName  string `yaml:"lastName,omitempty" validate:"required"`
	FullName  string `yaml:"fullName,omitempty"`
	Email     string `yaml:"email,omitempty" validate:"omitempty,email"`
	Phone     string `yaml:"phone,omitempty" validate:"omitempty,phone"`

	Address string `yaml:"address,omitempty"`
	City    string `yaml:"city,omitempty"`
	State   string `yaml:"state,omitempty"`
	Zip     string `yaml:"zip,omitempty"`
	Country string `yaml:"country,omitempty"`

	LinkedIn string `yaml:"linkedin,omitempty" validate:"omitempty,url"`
	Website  string `yaml:"website,omitempty" validate:"omitempty,url"`
	GitHub   string `yaml:"github,omitempty" validate:"omitempty,url"`

	Gender           string `yaml:"gender,omitempty"`
	Race             string `yaml:"race,omitempty"`
	VeteranStatus    string `yaml:"veteranStatus,omitempty"`
	DisabilityStatus string `yaml:"disabilityStatus,omitempty"`

	DesiredSalary     string `yaml:"desiredSalary,omitempty"`
	Relocation        string `yaml:"relocation,omitempty"`
	Sponsorship       string `yaml:"sponsorship,omitempty"`
	WorkAuthorization string `yaml:"workAuthorization,omitempty"`
	RemotePreference  string `yaml:"remotePreference,omitempty"`
	StartDate         string `yaml:"startDate,omitempty"`

	GraduationDate string `yaml:"graduationDate,omitempty"`
	University     string `yaml:"university,omitempty"`
	Degree         string `yaml:"degree,omitempty"`
	Major          string `yaml:"major,omitempty"`
	GPA            string `yaml:"gpa,omitempty"`

	CoverLetter    string `yaml:"coverLetter,omitempty"`
	AdditionalInfo string `yaml:"additionalInfo,omitempty"`

	// AutoFillOnLoad runs a fill as soon as a page is attached.
	AutoFillOnLoad bool `yaml:"autoFillOnLoad,omitempty"`

	// Extra holds any other keys, passed through to the AI solver untouched.
	Extra map[string]string `yaml:",inline"`
}

var phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]{10,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the profile the way the options form does before saving.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s", e.Field(), e.Tag()))
			}
			return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Values flattens the profile into the key/value form the fill pipeline reads.
// Empty fields are left out and fullName is synthesized from the first and
// last name when unset.
func (p *Profile) Values() (map[string]string, error) {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	out := make(map[string]string, len(decoded)+1)
	for k, v := range decoded {
		if s := form.Stringify(v); s != "" {
			out[k] = s
		}
	}
	if out["fullName"] == "" {
		if full := strings.TrimSpace(p.FirstName + " " + p.LastName); full != "" {
			out["fullName"] = full
		}
	}
	return out, nil
}
