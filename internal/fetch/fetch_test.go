package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formPage = `<html><head><title> Apply - Acme </title></head><body>
<form><label for="email">Email</label><input id="email"></form></body></html>`

func TestURL_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestURL_DecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		_, _ = w.Write([]byte("<html><body><h1>Z\xfcrich</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "Zürich")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestPage_FollowsRedirectAndSkipsRender(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/jobs/1/apply", http.StatusFound)
	})
	mux.HandleFunc("/jobs/1/apply", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(formPage))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	snap, err := Page(context.Background(), server.URL+"/jobs/1", nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/jobs/1/apply", snap.URL)
	assert.Equal(t, "Apply - Acme", snap.Title)
	assert.Equal(t, 1, snap.Doc.Find("#email").Length())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apply.html")
	require.NoError(t, os.WriteFile(path, []byte(formPage), 0o600))

	snap, err := File(path, "https://jobs.lever.co/acme/1")
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.lever.co/acme/1", snap.URL)
	assert.Equal(t, "Apply - Acme", snap.Title)

	_, err = File(filepath.Join(t.TempDir(), "missing.html"), "")
	assert.Error(t, err)
}

func TestShouldUseBrowser(t *testing.T) {
	parse := func(src string) *goquery.Document {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
		require.NoError(t, err)
		return doc
	}

	long := "<p>" + strings.Repeat("We are hiring engineers. ", 30) + "</p>"

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{name: "app shell", src: `<html><body><div id="root"></div><script>boot()</script></body></html>`, want: true},
		{name: "short with form", src: formPage, want: false},
		{name: "long text", src: "<html><body>" + long + "</body></html>", want: false},
		{name: "script text does not count", src: "<html><body><script>" + long + "</script></body></html>", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldUseBrowser(parse(tt.src)))
		})
	}
}

func TestWithBrowser(t *testing.T) {
	if os.Getenv("CHROME_TESTS") != "1" {
		t.Skip("set CHROME_TESTS=1 to run browser tests")
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div id="root"></div><script>document.getElementById('root').innerHTML = '<input id="late">'</script></body></html>`))
	}))
	defer server.Close()

	snap, err := Page(context.Background(), server.URL, &Options{Render: true})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Doc.Find("#late").Length())
}
