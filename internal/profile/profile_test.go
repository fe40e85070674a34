package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `firstName: Jane
lastName: Doe
email: jane@example.com
phone: "+1 (555) 010-2030"
linkedin: https://linkedin.com/in/jane
sponsorship: "No"
gpa: 3.8
autoFillOnLoad: true
favoriteColor: teal
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileStore_Get(t *testing.T) {
	store := NewFileStore(writeProfile(t, sampleYAML), nil)

	all, err := store.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane", all["firstName"])
	assert.Equal(t, "Jane Doe", all["fullName"])
	assert.Equal(t, "No", all["sponsorship"])
	assert.Equal(t, "3.8", all["gpa"])
	assert.Equal(t, "true", all["autoFillOnLoad"])
	assert.Equal(t, "teal", all["favoriteColor"])
	assert.NotContains(t, all, "city", "empty keys are left out")

	some, err := store.Get(context.Background(), []string{"email", "city", "autoFillOnLoad"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "jane@example.com", "autoFillOnLoad": "true"}, some)
}

func TestFileStore_ExplicitFullNameWins(t *testing.T) {
	store := NewFileStore(writeProfile(t, "firstName: Jane\nlastName: Doe\nfullName: J. Doe\n"), nil)

	values, err := store.Get(context.Background(), []string{"fullName"})
	require.NoError(t, err)
	assert.Equal(t, "J. Doe", values["fullName"])
}

func TestFileStore_FailuresResolveToEmpty(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		values, err := store.Get(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("malformed file", func(t *testing.T) {
		store := NewFileStore(writeProfile(t, "firstName: [unclosed\n"), nil)
		values, err := store.Get(context.Background(), nil)
		assert.Error(t, err)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		store := NewFileStore(writeProfile(t, sampleYAML), nil)
		values, err := store.Get(ctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, values)
	})
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.yaml")
	store := NewFileStore(path, nil)
	in := &Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Extra: map[string]string{"pronouns": "she/her"}}

	require.NoError(t, store.Save(context.Background(), in))

	out, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileStore_SaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	store := NewFileStore(path, nil)

	err := store.Save(context.Background(), &Profile{FirstName: "Ada"})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestProfile_Validate(t *testing.T) {
	base := func() Profile { return Profile{FirstName: "Jane", LastName: "Doe"} }

	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr string
	}{
		{name: "minimal", mutate: func(p *Profile) {}},
		{name: "missing first name", mutate: func(p *Profile) { p.FirstName = "" }, wantErr: "FirstName"},
		{name: "bad email", mutate: func(p *Profile) { p.Email = "jane.example.com" }, wantErr: "Email"},
		{name: "good phone", mutate: func(p *Profile) { p.Phone = "(555) 123-4567" }},
		{name: "short phone", mutate: func(p *Profile) { p.Phone = "555-1234" }, wantErr: "Phone"},
		{name: "letters in phone", mutate: func(p *Profile) { p.Phone = "555-CALL-NOW1" }, wantErr: "Phone"},
		{name: "bad url", mutate: func(p *Profile) { p.GitHub = "github dot com" }, wantErr: "GitHub"},
		{name: "good url", mutate: func(p *Profile) { p.Website = "https://jane.dev" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
