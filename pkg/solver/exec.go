package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/placerlab/placer/pkg/errors"
)

// Exec adapts an external executable to the Solver interface.
//
// Each call starts the program once and writes a JSON request to its stdin:
//
//	{"op": "estimate", "input": "/tmp/in.txt", "output": "/tmp/out.txt", "params": {"k": "v"}}
//
// The program answers on stdout with a JSON array of rows,
// [{"key": "...", "value": "...", "optional": false}]. A non-zero exit
// status fails the call with the program's stderr as the message.
type Exec struct {
	name    string
	path    string
	params  []Field
	timeout time.Duration
}

type execRequest struct {
	Op     string `json:"op"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	Params Params `json:"params,omitempty"`
}

// NewExec probes the executable at path for its parameter list. The solver
// name is the file name without extension. A zero timeout means no limit.
func NewExec(ctx context.Context, path string, timeout time.Duration) (*Exec, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if err := errors.ValidateSolverName(name); err != nil {
		return nil, err
	}
	e := &Exec{name: name, path: path, timeout: timeout}
	params, err := e.run(ctx, execRequest{Op: "params"})
	if err != nil {
		return nil, err
	}
	if msg, failed := Failed(params); failed {
		return nil, errors.New(errors.ErrCodeSolverFailed, "%s: %s", name, msg)
	}
	e.params = params
	return e, nil
}

func (e *Exec) Name() string { return e.name }

// Path returns the executable path.
func (e *Exec) Path() string { return e.path }

func (e *Exec) Params() []Field { return e.params }

func (e *Exec) Estimate(ctx context.Context, input, output string, params Params) ([]Field, error) {
	return e.run(ctx, execRequest{Op: "estimate", Input: input, Output: output, Params: params})
}

func (e *Exec) Solve(ctx context.Context, input, output string, params Params) ([]Field, error) {
	return e.run(ctx, execRequest{Op: "solve", Input: input, Output: output, Params: params})
}

func (e *Exec) run(ctx context.Context, req execRequest) ([]Field, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.path)
	cmd.Stdin = bytes.NewReader(body)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeSolverFailed, ctx.Err(), "%s %s: %v", e.name, req.Op, ctx.Err())
		}
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "%s", msg)
	}

	var rows []Field
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverFailed, err, "%s %s: malformed reply", e.name, req.Op)
	}
	return rows, nil
}

var _ Solver = (*Exec)(nil)
