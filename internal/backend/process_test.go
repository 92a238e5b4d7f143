package backend

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/dshills/kibitz/internal/logger"
)

// cat echoes request envelopes back verbatim. The decoder reads them as
// response envelopes — the id key matches and the rest is ignored — so
// an echo child exercises the full spawn/write/read/close path without
// a real backend binary.
func TestProcessEcho(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	p, err := NewProcess("cat", nil, WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewProcess() error = %v", err)
	}
	defer p.Close()

	if err := p.Complete(Request{Line: 2, Col: 5, Token: 77}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	select {
	case resp := <-p.Responses():
		if resp.Token != 77 {
			t.Errorf("Token = %d, want 77", resp.Token)
		}
		if len(resp.Candidates) != 0 {
			t.Errorf("Candidates = %+v, want none", resp.Candidates)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no echo from child")
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The stream ends with the child, closing the channel.
	select {
	case _, ok := <-p.Responses():
		if ok {
			t.Error("unexpected response after Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("response channel did not close")
	}

	if err := p.Complete(Request{Token: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Complete() after Close error = %v, want %v", err, ErrClosed)
	}
}

func TestNewProcessMissingBinary(t *testing.T) {
	if _, err := NewProcess("kibitz-no-such-backend-binary", nil, WithLogger(logger.Discard())); err == nil {
		t.Error("NewProcess() started a nonexistent binary")
	}
}

func TestProcessID(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}

	p, err := NewProcess("cat", nil, WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewProcess() error = %v", err)
	}
	defer p.Close()

	if p.ID() == "" {
		t.Error("ID() is empty")
	}
}
