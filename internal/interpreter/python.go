package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/cellgridgo/internal/ctxlog"
	"github.com/vk/cellgridgo/internal/operation"
	"github.com/vk/cellgridgo/internal/value"
)

// ErrInterpreterFailed wraps an error raised inside interpreted source, as
// opposed to a failure launching the interpreter itself.
var ErrInterpreterFailed = errors.New("interpreter: execution failed")

// PythonInterpreter runs cell source in a Python subprocess, exchanging
// values as JSON over stdio. Each Run launches a fresh process; nothing is
// shared between invocations.
type PythonInterpreter struct {
	binary string
}

// NewPythonInterpreter creates the backend. An empty binary defaults to
// "python3" resolved from PATH.
func NewPythonInterpreter(binary string) *PythonInterpreter {
	if binary == "" {
		binary = "python3"
	}
	return &PythonInterpreter{binary: binary}
}

// pythonDriver is executed with `python3 -c`. It reads one JSON document on
// stdin, executes the cell source with redirected stdout/stderr, and writes
// one JSON result document to the real stdout.
const pythonDriver = `
import contextlib, io, json, sys, traceback

_real_stdout = sys.stdout
payload = json.load(sys.stdin)
env = dict(payload.get("globals") or {})
out, err = io.StringIO(), io.StringIO()
result = None
ok = True
error = None
with contextlib.redirect_stdout(out), contextlib.redirect_stderr(err):
    try:
        exec(payload["source"], env)
        if payload.get("function_invocation"):
            fn_name = payload.get("fn") or ""
            if not fn_name:
                defined = [k for k, v in env.items() if callable(v) and hasattr(v, "__code__")]
                if not defined:
                    raise NameError("no function defined in cell")
                fn_name = defined[-1]
            result = env[fn_name](*(payload.get("args") or []))
        else:
            exposed = {}
            for k, v in env.items():
                if k.startswith("_") or callable(v):
                    continue
                try:
                    json.dumps(v)
                except (TypeError, ValueError):
                    continue
                exposed[k] = v
            result = exposed
    except BaseException as e:
        ok = False
        error = "%s: %s" % (type(e).__name__, e)
        traceback.print_exc(file=err)

json.dump({
    "ok": ok,
    "error": error,
    "value": result,
    "stdout": out.getvalue().splitlines(),
    "stderr": err.getvalue().splitlines(),
}, _real_stdout)
`

// driverResult is the document the driver writes back.
type driverResult struct {
	OK     bool     `json:"ok"`
	Error  string   `json:"error"`
	Value  any      `json:"value"`
	Stdout []string `json:"stdout"`
	Stderr []string `json:"stderr"`
}

// Run executes the source. An error raised by the cell is returned as
// ErrInterpreterFailed with the diagnostics captured before the failure
// preserved in the result.
func (p *PythonInterpreter) Run(ctx context.Context, state *operation.ExecutionState, source string, input cty.Value, invokeAsFunction bool) (*RunResult, error) {
	logger := ctxlog.FromContext(ctx)

	parts, err := splitInput(input)
	if err != nil {
		return nil, err
	}
	globals := stateBindings(state)
	if globals == nil {
		globals = make(map[string]any)
	}
	for k, v := range parts.globals {
		globals[k] = v
	}

	payload, err := json.Marshal(map[string]any{
		"source":              source,
		"globals":             globals,
		"args":                parts.args,
		"fn":                  parts.fn,
		"function_invocation": invokeAsFunction,
	})
	if err != nil {
		return nil, fmt.Errorf("interpreter: failed to encode payload: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.binary, "-c", pythonDriver)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Launching python interpreter.", "binary", p.binary, "function_invocation", invokeAsFunction)
	if err := cmd.Run(); err != nil {
		// The driver captures cell errors itself; reaching here means the
		// process could not run or crashed outside the driver's control.
		return &RunResult{
				Value:  value.Null(),
				Stderr: splitLines(stderr.String()),
			}, fmt.Errorf("%w: interpreter process: %v", ErrInterpreterFailed, err)
	}

	var res driverResult
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, fmt.Errorf("interpreter: malformed driver output: %w", err)
	}

	result := &RunResult{
		Value:  value.Null(),
		Stdout: res.Stdout,
		Stderr: res.Stderr,
	}
	if !res.OK {
		return result, fmt.Errorf("%w: %s", ErrInterpreterFailed, res.Error)
	}
	v, err := value.FromNative(res.Value)
	if err != nil {
		return result, fmt.Errorf("interpreter: unrepresentable result: %w", err)
	}
	result.Value = v
	return result, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
