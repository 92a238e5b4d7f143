package trigger

import (
	"strings"

	"github.com/dshills/kibitz/internal/host"
)

// Predicate is a pluggable command test consulted after the allow-list
// and prefix checks.
type Predicate func(command string) bool

// Policy decides whether a command may trigger completion and whether a
// context position warrants a backend request.
type Policy struct {
	commands  map[string]bool
	prefixes  []string
	predicate Predicate
	operators []string
}

// Option configures a Policy.
type Option func(*Policy)

// WithCommands adds exact command names to the allow-list.
func WithCommands(names ...string) Option {
	return func(p *Policy) {
		for _, n := range names {
			p.commands[n] = true
		}
	}
}

// WithPrefixes adds command-name prefixes that trigger completion.
func WithPrefixes(prefixes ...string) Option {
	return func(p *Policy) {
		p.prefixes = append(p.prefixes, prefixes...)
	}
}

// WithPredicate sets the pluggable command predicate.
func WithPredicate(pred Predicate) Option {
	return func(p *Policy) {
		p.predicate = pred
	}
}

// WithOperators replaces the member-access operator set.
func WithOperators(ops ...string) Option {
	return func(p *Policy) {
		p.operators = append([]string(nil), ops...)
	}
}

// NewPolicy builds a policy from options. A policy with no options
// triggers on nothing; see DefaultPolicy for the stock rules.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{commands: make(map[string]bool)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultPolicy returns a policy with the stock command allow-list,
// electric prefix, and C-family member-access operators.
func DefaultPolicy() *Policy {
	return NewPolicy(
		WithCommands("self-insert"),
		WithPrefixes("electric-"),
		WithOperators(".", "->", "::"),
	)
}

// IsTriggerCommand reports whether the named command may trigger a
// completion request.
func (p *Policy) IsTriggerCommand(name string) bool {
	if p.commands[name] {
		return true
	}
	for _, prefix := range p.prefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	if p.predicate != nil && p.predicate(name) {
		return true
	}
	return false
}

// ShouldRequest reports whether the context at offset warrants a backend
// request: the text immediately before it must end with a member-access
// operator.
func (p *Policy) ShouldRequest(buf host.Buffer, offset int) bool {
	return buf.HasOperatorBefore(offset, p.operators)
}

// Operators returns a copy of the configured operator set.
func (p *Policy) Operators() []string {
	return append([]string(nil), p.operators...)
}
