// Package engine provides the Lisp evaluation engine for Kerf.
// It wraps zygomys in a sandboxed environment and produces a shape
// Collection from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/kerf/pkg/topo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for Kerf evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	env        *topo.Env
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine that builds shapes against the given
// environment. A nil env is allowed; kernel-backed operations degrade.
func NewEngine(env *topo.Env) *Engine {
	return &Engine{env: env}
}

// Evaluate takes Lisp source code and produces a shape collection.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns collection + nil errors + nil error
//   - On parse/eval failure: returns nil collection + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*topo.Collection, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- evalResult{collection: c, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*topo.Collection, []EvalError, error) {
	// Empty source is a valid program that produces an empty collection.
	if strings.TrimSpace(source) == "" {
		return topo.NewCollection(e.env), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	zenv := zygo.NewZlispSandbox()
	defer zenv.Stop()

	out := topo.NewCollection(e.env)
	registerBuiltins(zenv, e.env, out)

	err := zenv.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = zenv.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return out, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
