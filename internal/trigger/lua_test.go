package trigger

import (
	"errors"
	"testing"
)

func TestLuaPredicate(t *testing.T) {
	src := `
function is_trigger_command(name)
    return name == "self-insert" or name:find("^electric%-") ~= nil
end
`
	pred, err := NewLuaPredicate(src)
	if err != nil {
		t.Fatalf("NewLuaPredicate() error = %v", err)
	}
	defer pred.Close()

	tests := []struct {
		command string
		want    bool
	}{
		{command: "self-insert", want: true},
		{command: "electric-dot", want: true},
		{command: "move-cursor", want: false},
		{command: "", want: false},
	}

	for _, tt := range tests {
		got, err := pred.Check(tt.command)
		if err != nil {
			t.Fatalf("Check(%q) error = %v", tt.command, err)
		}
		if got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestLuaPredicateTruthiness(t *testing.T) {
	// Non-boolean returns follow Lua truthiness.
	pred, err := NewLuaPredicate(`function is_trigger_command(name) return "yes" end`)
	if err != nil {
		t.Fatalf("NewLuaPredicate() error = %v", err)
	}
	defer pred.Close()

	got, err := pred.Check("anything")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !got {
		t.Error("Check() = false for truthy string return")
	}
}

func TestLuaPredicateBadSource(t *testing.T) {
	if _, err := NewLuaPredicate("function ("); err == nil {
		t.Error("NewLuaPredicate() accepted unparsable source")
	}
}

func TestLuaPredicateMissingFunction(t *testing.T) {
	_, err := NewLuaPredicate(`x = 1`)
	if !errors.Is(err, ErrNoPredicate) {
		t.Errorf("NewLuaPredicate() error = %v, want %v", err, ErrNoPredicate)
	}
}

func TestLuaPredicateRuntimeError(t *testing.T) {
	pred, err := NewLuaPredicate(`function is_trigger_command(name) error("boom") end`)
	if err != nil {
		t.Fatalf("NewLuaPredicate() error = %v", err)
	}
	defer pred.Close()

	if _, err := pred.Check("self-insert"); err == nil {
		t.Error("Check() did not surface the script error")
	}

	// The Predicate adapter reads errors as "not a trigger".
	if pred.Func()("self-insert") {
		t.Error("Func() returned true for an erroring script")
	}
}

func TestLuaPredicateSandbox(t *testing.T) {
	// Scripts must not reach code loading or the filesystem.
	if _, err := NewLuaPredicate(`dofile("/etc/hosts")`); err == nil {
		t.Error("NewLuaPredicate() allowed dofile")
	}

	pred, err := NewLuaPredicate(`function is_trigger_command(name) return io.open(name) end`)
	if err != nil {
		t.Fatalf("NewLuaPredicate() error = %v", err)
	}
	defer pred.Close()

	if _, err := pred.Check("x"); err == nil {
		t.Error("Check() allowed io access")
	}
}

func TestLuaPredicateClosed(t *testing.T) {
	pred, err := NewLuaPredicate(`function is_trigger_command(name) return true end`)
	if err != nil {
		t.Fatalf("NewLuaPredicate() error = %v", err)
	}

	pred.Close()
	pred.Close() // idempotent

	if _, err := pred.Check("self-insert"); !errors.Is(err, ErrPredicateClosed) {
		t.Errorf("Check() after Close error = %v, want %v", err, ErrPredicateClosed)
	}
	if pred.Func()("self-insert") {
		t.Error("Func() returned true after Close")
	}
}
