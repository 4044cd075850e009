package hook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestAddFilterOrdering verifies priority and registration-order dispatch.
func TestAddFilterOrdering(t *testing.T) {
	t.Parallel()

	t.Run("filters run in priority order", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.AddFilter("chain", func(_ http.ResponseWriter, _ *http.Request, v string) string {
			return v + "b"
		}, PriorityLast)
		reg.AddFilter("chain", func(_ http.ResponseWriter, _ *http.Request, v string) string {
			return v + "a"
		}, PriorityDefault)

		r := httptest.NewRequest("GET", "http://example.com/", nil)
		got := reg.ApplyFilters("chain", httptest.NewRecorder(), r, "")
		if got != "ab" {
			t.Errorf("got %q, expected %q", got, "ab")
		}
	})

	t.Run("equal priority runs in registration order", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.AddFilter("chain", func(_ http.ResponseWriter, _ *http.Request, v string) string {
			return v + "1"
		}, PriorityDefault)
		reg.AddFilter("chain", func(_ http.ResponseWriter, _ *http.Request, v string) string {
			return v + "2"
		}, PriorityDefault)

		r := httptest.NewRequest("GET", "http://example.com/", nil)
		got := reg.ApplyFilters("chain", httptest.NewRecorder(), r, "")
		if got != "12" {
			t.Errorf("got %q, expected %q", got, "12")
		}
	})

	t.Run("unknown chain returns the value unchanged", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		got := reg.ApplyFilters("missing", httptest.NewRecorder(), r, "value")
		if got != "value" {
			t.Errorf("got %q, expected %q", got, "value")
		}
	})

	t.Run("FilterCount reports registered filters", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		if got := reg.FilterCount("chain"); got != 0 {
			t.Errorf("got %d, expected 0", got)
		}
		reg.AddFilter("chain", func(_ http.ResponseWriter, _ *http.Request, v string) string {
			return v
		}, PriorityDefault)
		if got := reg.FilterCount("chain"); got != 1 {
			t.Errorf("got %d, expected 1", got)
		}
	})
}

// TestRedirect verifies redirect emission through the filter chain.
func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("emits Location and status", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/from", nil)

		if err := reg.Redirect(w, r, "http://example.com/to", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Code != http.StatusFound {
			t.Errorf("got status %d, expected %d", w.Code, http.StatusFound)
		}
		if got := w.Header().Get("Location"); got != "http://example.com/to" {
			t.Errorf("got Location %q, expected %q", got, "http://example.com/to")
		}
	})

	t.Run("rejects non-3xx status codes", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/", nil)

		err := reg.Redirect(w, r, "/to", http.StatusOK)
		if err == nil {
			t.Fatal("expected an error for a non-3xx status code")
		}
		if !strings.Contains(err.Error(), "200") {
			t.Errorf("got error %q, expected it to name the status code", err.Error())
		}
	})

	t.Run("filters may rewrite the target", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.AddFilter(FilterRedirectTarget, func(_ http.ResponseWriter, _ *http.Request, v string) string {
			return strings.Replace(v, "/old", "/new", 1)
		}, PriorityDefault)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/", nil)

		if err := reg.Redirect(w, r, "http://example.com/old", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "http://example.com/new" {
			t.Errorf("got Location %q, expected %q", got, "http://example.com/new")
		}
	})

	t.Run("empty filtered target cancels the redirect", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		reg.AddFilter(FilterRedirectTarget, func(_ http.ResponseWriter, _ *http.Request, _ string) string {
			return ""
		}, PriorityDefault)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/", nil)

		if err := reg.Redirect(w, r, "http://example.com/to", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "" {
			t.Errorf("got Location %q, expected no Location header", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("got status %d, expected no status written (recorder default %d)", w.Code, http.StatusOK)
		}
	})
}

// TestSafeRedirect verifies host validation and fallback substitution.
func TestSafeRedirect(t *testing.T) {
	t.Parallel()

	t.Run("relative target passes", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/from", nil)

		if err := reg.SafeRedirect(w, r, "/elsewhere", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "/elsewhere" {
			t.Errorf("got Location %q, expected %q", got, "/elsewhere")
		}
	})

	t.Run("same-host absolute target passes", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/from", nil)

		if err := reg.SafeRedirect(w, r, "http://example.com/to", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "http://example.com/to" {
			t.Errorf("got Location %q, expected %q", got, "http://example.com/to")
		}
	})

	t.Run("foreign host falls back", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry(WithFallbackURL("/home"))
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/from", nil)

		if err := reg.SafeRedirect(w, r, "http://evil.example.org/", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "/home" {
			t.Errorf("got Location %q, expected the fallback %q", got, "/home")
		}
	})

	t.Run("allow-listed host passes", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry(WithAllowedHosts(func(_ *http.Request) []string {
			return []string{"cdn.example.com"}
		}))
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/from", nil)

		if err := reg.SafeRedirect(w, r, "http://cdn.example.com/asset", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "http://cdn.example.com/asset" {
			t.Errorf("got Location %q, expected %q", got, "http://cdn.example.com/asset")
		}
	})

	t.Run("unparseable target falls back", func(t *testing.T) {
		t.Parallel()

		reg := NewRegistry()
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "http://example.com/from", nil)

		if err := reg.SafeRedirect(w, r, "http://exa mple.com/%zz", http.StatusFound); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := w.Header().Get("Location"); got != "/" {
			t.Errorf("got Location %q, expected the default fallback %q", got, "/")
		}
	})
}
