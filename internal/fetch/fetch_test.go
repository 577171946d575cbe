package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPageHTML = `<html>
<head><title>Job</title><script>var x = 1;</script></head>
<body>
<nav>Home | Jobs | About</nav>
<div class="job-description">
<h1>Senior Backend Engineer</h1>
<p>We are looking for a Senior Backend Engineer with Go and PostgreSQL experience.
You will design and operate high-throughput services, own reliability for a
product used by millions, and mentor other engineers on the team. The role
involves building APIs, tuning query performance, running Kubernetes workloads,
and participating in an on-call rotation. We value clear written communication
and pragmatic engineering. Benefits include health insurance and a learning
budget. This posting stays up until the role is filled.</p>
</div>
<footer>Copyright</footer>
</body>
</html>`

func testOptions() *Options {
	opts := DefaultOptions()
	opts.AllowBrowser = false
	return opts
}

func TestJobDescriptionExtractsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(jobPageHTML))
	}))
	defer srv.Close()

	text, err := JobDescription(context.Background(), srv.URL, testOptions())
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Backend Engineer")
	assert.Contains(t, text, "PostgreSQL")
	assert.NotContains(t, text, "Home | Jobs", "navigation is stripped")
	assert.NotContains(t, text, "var x = 1", "scripts are stripped")
}

func TestJobDescriptionFallsBackToBody(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("Plain page with enough text. ", 30) + "</p></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	text, err := JobDescription(context.Background(), srv.URL, testOptions())
	require.NoError(t, err)
	assert.Contains(t, text, "Plain page with enough text.")
}

func TestJobDescriptionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := JobDescription(context.Background(), srv.URL, testOptions())
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "404")
}

func TestJobDescriptionInvalidURL(t *testing.T) {
	_, err := JobDescription(context.Background(), "not a url", testOptions())
	require.Error(t, err)
	var fe *Error
	assert.ErrorAs(t, err, &fe)
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, needsBrowser("thin spa shell"))
	assert.False(t, needsBrowser(strings.Repeat("long text ", 60)))
}

func TestCleanWhitespace(t *testing.T) {
	got := cleanWhitespace("  line one  \n\n\n   line two\n   \n")
	assert.Equal(t, "line one\nline two", got)
}
