package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/kibitz/internal/candidate"
)

func TestStubScriptedReply(t *testing.T) {
	stub := NewStub(WithScript(func(req Request) []candidate.Candidate {
		return []candidate.Candidate{{TypedText: "size", Signature: "size() const"}}
	}))
	defer stub.Close()

	if err := stub.Complete(Request{Line: 2, Col: 5, Token: 9}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	select {
	case resp := <-stub.Responses():
		if resp.Token != 9 {
			t.Errorf("Token = %d, want 9", resp.Token)
		}
		if len(resp.Candidates) != 1 || resp.Candidates[0].TypedText != "size" {
			t.Errorf("Candidates = %+v", resp.Candidates)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no scripted reply")
	}

	reqs := stub.Requests()
	if len(reqs) != 1 || reqs[0] != (Request{Line: 2, Col: 5, Token: 9}) {
		t.Errorf("Requests() = %+v", reqs)
	}
}

func TestStubDelayedReply(t *testing.T) {
	stub := NewStub(
		WithScript(func(Request) []candidate.Candidate { return nil }),
		WithDelay(20*time.Millisecond),
	)
	defer stub.Close()

	if err := stub.Complete(Request{Token: 1}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	select {
	case <-stub.Responses():
	case <-time.After(2 * time.Second):
		t.Fatal("delayed reply never arrived")
	}
}

func TestStubManualMode(t *testing.T) {
	stub := NewStub()
	defer stub.Close()

	if err := stub.Complete(Request{Token: 4}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	// No script: nothing arrives until Reply.
	select {
	case resp := <-stub.Responses():
		t.Fatalf("unexpected reply %+v", resp)
	case <-time.After(50 * time.Millisecond):
	}

	stub.Reply(Response{Token: 4})
	select {
	case resp := <-stub.Responses():
		if resp.Token != 4 {
			t.Errorf("Token = %d, want 4", resp.Token)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("manual reply never arrived")
	}
}

func TestStubClose(t *testing.T) {
	stub := NewStub()
	if err := stub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := stub.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if err := stub.Complete(Request{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Complete() after Close error = %v, want %v", err, ErrClosed)
	}

	// Reply after Close must not deliver or panic.
	stub.Reply(Response{Token: 1})
	select {
	case resp := <-stub.Responses():
		t.Fatalf("reply delivered after Close: %+v", resp)
	case <-time.After(50 * time.Millisecond):
	}
}
