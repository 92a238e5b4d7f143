package backend

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dshills/kibitz/internal/logger"
)

const (
	// responseBuffer absorbs bursts between backend replies and session
	// dispatch turns.
	responseBuffer = 16

	// closeTimeout bounds how long Close waits for the child to exit
	// after stdin closes before killing it.
	closeTimeout = 3 * time.Second
)

// ProcessOption configures a subprocess backend.
type ProcessOption func(*Process)

// WithLogger routes transport logging.
func WithLogger(lg *log.Logger) ProcessOption {
	return func(p *Process) { p.log = lg }
}

// WithDir sets the child's working directory.
func WithDir(dir string) ProcessOption {
	return func(p *Process) { p.dir = dir }
}

// WithEnv appends environment entries (KEY=VALUE) to the child's
// inherited environment.
func WithEnv(env ...string) ProcessOption {
	return func(p *Process) { p.env = append(p.env, env...) }
}

// Process runs the completion backend as a child process speaking
// msgpack over stdio. Requests go to the child's stdin, responses come
// back on stdout, and stderr drains into the debug log. The response
// channel closes when the child's stream ends.
type Process struct {
	id  string
	cmd *exec.Cmd
	dir string
	env []string
	log *log.Logger

	writeMu sync.Mutex
	stdin   io.WriteCloser
	enc     *msgpack.Encoder

	responses chan Response
	closed    atomic.Bool
	quit      chan struct{}
	pipeWG    sync.WaitGroup
	pipesDone chan struct{}
}

// NewProcess spawns the backend command and starts its stream readers.
// The caller owns the returned process and must Close it.
func NewProcess(command string, args []string, opts ...ProcessOption) (*Process, error) {
	p := &Process{
		id:        uuid.New().String(),
		responses: make(chan Response, responseBuffer),
		quit:      make(chan struct{}),
		pipesDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Default("backend")
	}

	p.cmd = exec.Command(command, args...)
	if p.dir != "" {
		p.cmd.Dir = p.dir
	}
	if len(p.env) > 0 {
		p.cmd.Env = append(p.cmd.Environ(), p.env...)
	}

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("backend stdin: %w", err)
	}
	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("backend stdout: %w", err)
	}
	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("backend stderr: %w", err)
	}

	if err := p.cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("backend start %q: %w", command, err)
	}

	p.stdin = stdin
	p.enc = msgpack.NewEncoder(stdin)

	p.pipeWG.Add(2)
	go p.readLoop(stdout)
	go p.drainStderr(stderr)
	go func() {
		p.pipeWG.Wait()
		close(p.pipesDone)
		close(p.responses)
	}()

	p.log.Debug("backend started", "id", p.id, "command", command, "pid", p.cmd.Process.Pid)
	return p, nil
}

// ID returns the instance id used in log correlation.
func (p *Process) ID() string { return p.id }

// Complete dispatches one request to the child. The write is small and
// synchronous; correlation and staleness are the session's concern.
func (p *Process) Complete(req Request) error {
	if p.closed.Load() {
		return ErrClosed
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := p.enc.Encode(wireRequest{ID: req.Token, Line: req.Line, Col: req.Col}); err != nil {
		return fmt.Errorf("dispatch request: %w", err)
	}
	return nil
}

// Responses returns the reply channel. It closes once the child's
// stdout stream ends.
func (p *Process) Responses() <-chan Response { return p.responses }

// Close stops deliveries, closes the child's stdin, and waits for it to
// exit, killing it after a timeout. Safe to call more than once.
func (p *Process) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(p.quit)

	p.writeMu.Lock()
	err := p.stdin.Close()
	p.writeMu.Unlock()

	select {
	case <-p.pipesDone:
	case <-time.After(closeTimeout):
		p.log.Warn("backend did not exit, killing", "id", p.id)
		if kerr := p.cmd.Process.Kill(); kerr != nil && err == nil {
			err = kerr
		}
		<-p.pipesDone
	}

	if werr := p.cmd.Wait(); werr != nil {
		p.log.Debug("backend exited", "id", p.id, "err", werr)
	}
	return err
}

// readLoop decodes response envelopes until the stream ends or Close is
// requested.
func (p *Process) readLoop(r io.Reader) {
	defer p.pipeWG.Done()

	dec := msgpack.NewDecoder(bufio.NewReader(r))
	for {
		resp, skipped, err := decodeResponse(dec)
		if err != nil {
			if !p.closed.Load() && !errors.Is(err, io.EOF) {
				p.log.Warn("backend stream ended", "id", p.id, "err", err)
			}
			return
		}
		if skipped > 0 {
			p.log.Warn("dropped malformed candidates", "id", p.id, "count", skipped, "token", resp.Token)
		}

		select {
		case p.responses <- resp:
		case <-p.quit:
			return
		}
	}
}

// drainStderr forwards the child's stderr lines to the debug log so a
// misbehaving backend can be diagnosed without attaching to it.
func (p *Process) drainStderr(r io.Reader) {
	defer p.pipeWG.Done()

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.log.Debug("backend stderr", "id", p.id, "line", sc.Text())
	}
}
