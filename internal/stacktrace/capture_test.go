package stacktrace

import (
	"strings"
	"testing"
)

// TestCapture verifies the call-record pairing of function names with their
// call-site locations.
func TestCapture(t *testing.T) {
	t.Parallel()

	t.Run("first frame names the calling function", func(t *testing.T) {
		t.Parallel()

		frames := Capture(0)
		if len(frames) == 0 {
			t.Fatal("expected a non-empty capture")
		}
		if !strings.Contains(frames[0].Function, "TestCapture") {
			t.Errorf("got function %q, expected it to contain %q", frames[0].Function, "TestCapture")
		}
	})

	t.Run("frame records the call site of its caller", func(t *testing.T) {
		t.Parallel()

		var frames []Frame
		func() {
			frames = Capture(0)
		}()

		if len(frames) < 2 {
			t.Fatalf("got %d frames, expected at least 2", len(frames))
		}
		// The anonymous function's frame carries the file of the test that
		// called it, which is this file.
		if !strings.HasSuffix(frames[0].File, "capture_test.go") {
			t.Errorf("got file %q, expected a capture_test.go call site", frames[0].File)
		}
	})

	t.Run("skip omits the immediate caller", func(t *testing.T) {
		t.Parallel()

		inner := func() []Frame { return Capture(1) }
		frames := inner()

		if len(frames) == 0 {
			t.Fatal("expected a non-empty capture")
		}
		if !strings.Contains(frames[0].Function, "TestCapture") {
			t.Errorf("got function %q, expected the skipped capture to start at the test", frames[0].Function)
		}
	})

	t.Run("indexes are sequential from zero", func(t *testing.T) {
		t.Parallel()

		frames := Capture(0)
		for i, f := range frames {
			if f.Index != i {
				t.Errorf("got index %d at position %d, expected them to match", f.Index, i)
			}
		}
	})
}

// TestNormalizeAgainst verifies prefix stripping with an explicit prefix
// table.
func TestNormalizeAgainst(t *testing.T) {
	t.Parallel()

	prefixes := []string{"/src/app", "/usr/local/go"}

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "module-root path is stripped",
			path:     "/src/app/internal/hook/redirect.go",
			expected: "/internal/hook/redirect.go",
		},
		{
			name:     "goroot path is stripped",
			path:     "/usr/local/go/src/net/http/server.go",
			expected: "/src/net/http/server.go",
		},
		{
			name:     "unknown root passes through unchanged",
			path:     "/opt/other/main.go",
			expected: "/opt/other/main.go",
		},
		{
			name:     "empty path passes through",
			path:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeAgainst(tt.path, prefixes)
			if got != tt.expected {
				t.Errorf("got %q, expected %q", got, tt.expected)
			}
		})
	}

	t.Run("empty prefix never matches", func(t *testing.T) {
		t.Parallel()
		got := normalizeAgainst("/src/app/main.go", []string{""})
		if got != "/src/app/main.go" {
			t.Errorf("got %q, expected the path unchanged", got)
		}
	})
}

// TestComputeRootPrefixes verifies the process-wide prefix table derivation.
func TestComputeRootPrefixes(t *testing.T) {
	t.Parallel()

	prefixes := computeRootPrefixes()
	if len(prefixes) == 0 {
		t.Fatal("expected at least one root prefix")
	}

	// The first prefix is the module root; joining it back with this file's
	// package path must name an existing capture path shape.
	if strings.HasSuffix(prefixes[0], "/internal/stacktrace") {
		t.Errorf("got %q, expected the module root without the package path", prefixes[0])
	}
}
