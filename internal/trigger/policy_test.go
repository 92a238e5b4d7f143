package trigger

import (
	"testing"

	"github.com/dshills/kibitz/internal/host"
)

func TestIsTriggerCommand(t *testing.T) {
	policy := NewPolicy(
		WithCommands("self-insert", "complete-at-point"),
		WithPrefixes("electric-"),
		WithPredicate(func(name string) bool { return name == "custom-complete" }),
	)

	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{name: "allow-list hit", command: "self-insert", want: true},
		{name: "second allow-list hit", command: "complete-at-point", want: true},
		{name: "prefix hit", command: "electric-semicolon", want: true},
		{name: "predicate hit", command: "custom-complete", want: true},
		{name: "miss", command: "move-cursor", want: false},
		{name: "prefix must anchor at start", command: "not-electric-", want: false},
		{name: "empty name", command: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.IsTriggerCommand(tt.command); got != tt.want {
				t.Errorf("IsTriggerCommand(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestIsTriggerCommandEmptyPolicy(t *testing.T) {
	policy := NewPolicy()
	if policy.IsTriggerCommand("self-insert") {
		t.Error("empty policy triggered on self-insert")
	}
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	if !policy.IsTriggerCommand("self-insert") {
		t.Error("default policy refused self-insert")
	}
	if !policy.IsTriggerCommand("electric-dot") {
		t.Error("default policy refused electric-dot")
	}
	if policy.IsTriggerCommand("scroll-down") {
		t.Error("default policy triggered on scroll-down")
	}

	ops := policy.Operators()
	if len(ops) != 3 || ops[0] != "." || ops[1] != "->" || ops[2] != "::" {
		t.Errorf("Operators() = %v, want [. -> ::]", ops)
	}
}

func TestShouldRequest(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name   string
		text   string
		offset int
		want   bool
	}{
		{name: "after dot", text: "obj.", offset: 4, want: true},
		{name: "after arrow", text: "ptr->", offset: 5, want: true},
		{name: "after scope", text: "std::", offset: 5, want: true},
		{name: "mid identifier start", text: "obj.fie", offset: 4, want: true},
		{name: "plain identifier", text: "word", offset: 0, want: false},
		{name: "whitespace after dot", text: "obj. ", offset: 5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := host.NewTextBuffer(tt.text)
			if got := policy.ShouldRequest(buf, tt.offset); got != tt.want {
				t.Errorf("ShouldRequest(offset=%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestOperatorsReturnsCopy(t *testing.T) {
	policy := NewPolicy(WithOperators("."))
	ops := policy.Operators()
	ops[0] = "##"

	buf := host.NewTextBuffer("x.")
	if !policy.ShouldRequest(buf, 2) {
		t.Error("mutating Operators() result changed the policy")
	}
}
