package linker

import "fmt"

// FatalExitCode is the diagnostic code carried by the linker's abort-style
// failures, mirroring the sysexits software-error convention the wrapped
// toolchain reports from its crash handler.
const FatalExitCode = 70

// FatalError is the payload of the linker's fatal path. It signals an
// internal invariant violation or unusable process state, not a diagnosable
// input problem; those are reported through Run's normal return.
type FatalError struct {
	Code int
	Msg  string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("linker: fatal: %s", e.Msg)
}

// fatal aborts the current invocation through a panic carrying a FatalError.
// The driver package converts it into a returned status.
func fatal(format string, args ...any) {
	panic(&FatalError{Code: FatalExitCode, Msg: fmt.Sprintf(format, args...)})
}
