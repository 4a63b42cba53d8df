package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/qir-alliance/qirlib/linker"
)

// CrashCode is the exit-style code reported when an invocation crashes
// without carrying its own code, matching the sysexits software-error value
// command-line tools exit with on internal errors.
const CrashCode = 70

// Main is a library-friendly tool entry point: argv-style arguments, output
// sinks, success as a boolean.
type Main func(args []string, stdout, stderr io.Writer) bool

// Result reports the outcome of one contained invocation.
type Result struct {
	// Code is 0 on success, 1 on an ordinary reported failure, and the
	// crash's own code (or CrashCode) when an invocation crashed.
	Code int

	// CanRunAgain is false once this or any earlier invocation crashed.
	// When false the process must be restarted before linking again.
	CanRunAgain bool

	Stdout []byte
	Stderr []byte
}

// poisoned latches after any crash; see Poisoned.
var poisoned atomic.Bool

// Poisoned reports whether a previous invocation crashed, leaving global
// linker state unusable for the rest of the process lifetime.
func Poisoned() bool {
	return poisoned.Load()
}

// Invoke runs the embedded linker on args with crash containment and
// context teardown. args does not include a program name.
func Invoke(args []string) Result {
	argv := append([]string{"qirlink"}, args...)
	return InvokeMain(linker.Run, linker.DestroyContext, argv)
}

// InvokeMain runs main under crash containment, then teardown. args follows
// argv convention, program name first.
//
// The body and the teardown each run in their own recovery scope. When the
// body crashes, teardown is still attempted so partially built global state
// is not left behind for a caller that ignores CanRunAgain.
func InvokeMain(main Main, teardown func(), args []string) Result {
	var stdout, stderr bytes.Buffer

	result := func(code int, again bool) Result {
		return Result{Code: code, CanRunAgain: again, Stdout: owned(&stdout), Stderr: owned(&stderr)}
	}

	if poisoned.Load() {
		fmt.Fprintln(&stderr, "driver: a previous invocation crashed; restart the process")
		return result(CrashCode, false)
	}

	ok := true
	code, crashed := runSafely(func() {
		ok = main(args, &stdout, &stderr)
	})

	if crashed {
		poisoned.Store(true)
		fmt.Fprintln(&stderr, "driver: invocation crashed; process state is unreliable")
		if _, tearCrash := runSafely(teardown); tearCrash {
			Logger().Warn("teardown crashed after invocation crash")
		}
		return result(code, false)
	}

	code = 0
	if !ok {
		code = 1
	}

	// A teardown crash poisons the process but never masks the driver's own
	// return code.
	if _, tearCrash := runSafely(teardown); tearCrash {
		poisoned.Store(true)
		fmt.Fprintln(&stderr, "driver: teardown crashed; process state is unreliable")
		return result(code, false)
	}

	return result(code, true)
}

// owned copies a buffer's contents into a fresh, never-nil slice.
func owned(b *bytes.Buffer) []byte {
	out := make([]byte, b.Len())
	copy(out, b.Bytes())
	return out
}

// runSafely calls fn under recover. On a crash it returns the fatal error's
// own code when the panic value carries one, otherwise CrashCode.
func runSafely(fn func()) (code int, crashed bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		crashed = true
		code = CrashCode
		if err, isErr := r.(error); isErr {
			var fe *linker.FatalError
			if errors.As(err, &fe) {
				code = fe.Code
			}
			Logger().Warn("contained crash", zap.Error(err))
			return
		}
		Logger().Warn("contained crash", zap.Any("panic", r))
	}()
	fn()
	return 0, false
}
