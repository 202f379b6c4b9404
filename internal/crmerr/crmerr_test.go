package crmerr

import (
	"errors"
	"testing"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", Validation("id", "bad"), 2},
		{"not_found", NotFound("E_NOT_FOUND", "missing"), 3},
		{"cycle", CyclicDependency([]string{"a", "a"}), 4},
		{"depth", DependencyDepth([]string{"a", "b"}, 5), 4},
		{"network", Network("boom", nil, nil), 5},
		{"path_security", PathSecurity("../x", "escapes root"), 6},
		{"plain error", errors.New("opaque"), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ExitCode(c.err); got != c.want {
				t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}

func TestRecoverable(t *testing.T) {
	if !Recoverable(Network("timeout", nil, nil)) {
		t.Error("network errors should be recoverable")
	}
	if !Recoverable(MissingDependency("foo")) {
		t.Error("missing dependency should be recoverable")
	}
	if Recoverable(PathSecurity("x", "escape")) {
		t.Error("path security errors should not be recoverable")
	}
	if Recoverable(errors.New("opaque")) {
		t.Error("non-crmerr errors should not be recoverable")
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	a := Validation("id", "bad")
	b := Validation("name", "also bad")
	if !errors.Is(a, b) {
		t.Error("two validation errors of the same kind should satisfy errors.Is")
	}
	if errors.Is(a, NotFound("E_NOT_FOUND", "x")) {
		t.Error("errors of different kinds should not match")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Decode("bad yaml", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}
