package driver

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qir-alliance/qirlib/linker"
)

// resetPoison clears the crash latch so tests do not leak state into each
// other.
func resetPoison(t *testing.T) {
	t.Helper()
	poisoned.Store(false)
	t.Cleanup(func() { poisoned.Store(false) })
}

func okMain(args []string, stdout, stderr io.Writer) bool {
	io.WriteString(stdout, "linked\n")
	return true
}

func failMain(args []string, stdout, stderr io.Writer) bool {
	io.WriteString(stderr, "bad input\n")
	return false
}

func noTeardown() {}

func TestInvokeMainSuccess(t *testing.T) {
	resetPoison(t)

	res := InvokeMain(okMain, noTeardown, []string{"tool"})
	if res.Code != 0 || !res.CanRunAgain {
		t.Fatalf("got code=%d canRunAgain=%v, want 0 true", res.Code, res.CanRunAgain)
	}
	if !bytes.Contains(res.Stdout, []byte("linked")) {
		t.Errorf("stdout not captured: %q", res.Stdout)
	}
	if res.Stderr == nil {
		t.Error("captured buffers must never be nil")
	}
	if Poisoned() {
		t.Error("clean run must not poison the process")
	}
}

func TestInvokeMainOrdinaryFailure(t *testing.T) {
	resetPoison(t)

	res := InvokeMain(failMain, noTeardown, []string{"tool"})
	if res.Code != 1 || !res.CanRunAgain {
		t.Fatalf("got code=%d canRunAgain=%v, want 1 true", res.Code, res.CanRunAgain)
	}
	if !bytes.Contains(res.Stderr, []byte("bad input")) {
		t.Errorf("stderr not captured: %q", res.Stderr)
	}
}

func TestInvokeMainContainsFatal(t *testing.T) {
	resetPoison(t)

	fatalMain := func(args []string, stdout, stderr io.Writer) bool {
		panic(&linker.FatalError{Code: linker.FatalExitCode, Msg: "bookkeeping corrupt"})
	}
	tornDown := false
	res := InvokeMain(fatalMain, func() { tornDown = true }, []string{"tool"})
	if res.Code != linker.FatalExitCode {
		t.Errorf("code = %d, want %d", res.Code, linker.FatalExitCode)
	}
	if res.CanRunAgain {
		t.Error("a crashed invocation must clear CanRunAgain")
	}
	if !tornDown {
		t.Error("teardown must still be attempted after a crash")
	}
	if !Poisoned() {
		t.Error("a crash must poison the process")
	}
}

func TestInvokeMainContainsArbitraryPanic(t *testing.T) {
	resetPoison(t)

	res := InvokeMain(func(args []string, stdout, stderr io.Writer) bool {
		panic("index out of range")
	}, noTeardown, []string{"tool"})
	if res.Code != CrashCode || res.CanRunAgain {
		t.Errorf("got code=%d canRunAgain=%v, want %d false", res.Code, res.CanRunAgain, CrashCode)
	}
}

func TestInvokeMainTeardownCrash(t *testing.T) {
	resetPoison(t)

	crashTeardown := func() { panic("teardown exploded") }

	// The body's own code survives a teardown crash; only CanRunAgain flips.
	res := InvokeMain(okMain, crashTeardown, []string{"tool"})
	if res.Code != 0 {
		t.Errorf("clean body, crashed teardown: got code=%d, want 0", res.Code)
	}
	if res.CanRunAgain {
		t.Error("a teardown crash must clear CanRunAgain")
	}
	if !Poisoned() {
		t.Error("a teardown crash must poison the process")
	}

	resetPoison(t)
	res = InvokeMain(failMain, crashTeardown, []string{"tool"})
	if res.Code != 1 || res.CanRunAgain {
		t.Errorf("failed body, crashed teardown: got code=%d canRunAgain=%v, want 1 false",
			res.Code, res.CanRunAgain)
	}
}

func TestInvokeMainFatalThenTeardownCrash(t *testing.T) {
	resetPoison(t)

	res := InvokeMain(func(args []string, stdout, stderr io.Writer) bool {
		panic(&linker.FatalError{Code: linker.FatalExitCode, Msg: "corrupt"})
	}, func() { panic("teardown exploded too") }, []string{"tool"})
	if res.Code != linker.FatalExitCode || res.CanRunAgain {
		t.Errorf("got code=%d canRunAgain=%v, want %d false",
			res.Code, res.CanRunAgain, linker.FatalExitCode)
	}
}

func TestPoisonedProcessRejectsInvocations(t *testing.T) {
	resetPoison(t)

	InvokeMain(func(args []string, stdout, stderr io.Writer) bool {
		panic("first crash")
	}, noTeardown, []string{"tool"})
	if !Poisoned() {
		t.Fatal("crash should poison the process")
	}

	called := false
	res := InvokeMain(func(args []string, stdout, stderr io.Writer) bool {
		called = true
		return true
	}, noTeardown, []string{"tool"})
	if called {
		t.Error("a poisoned process must not reach the tool body")
	}
	if res.Code != CrashCode || res.CanRunAgain {
		t.Errorf("got code=%d canRunAgain=%v, want %d false", res.Code, res.CanRunAgain, CrashCode)
	}
	if !strings.Contains(string(res.Stderr), "restart the process") {
		t.Errorf("stderr should say to restart, got %q", res.Stderr)
	}
}

func TestInvokeLinksObjects(t *testing.T) {
	resetPoison(t)
	t.Cleanup(linker.DestroyContext)

	dir := t.TempDir()
	// smallest valid module: magic and version only
	empty := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	a := filepath.Join(dir, "a.o.wasm")
	b := filepath.Join(dir, "b.o.wasm")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, empty, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(dir, "out.wasm")

	res := Invoke([]string{"-o", out, a, b})
	if res.Code != 0 || !res.CanRunAgain {
		t.Fatalf("got code=%d canRunAgain=%v stderr=%q", res.Code, res.CanRunAgain, res.Stderr)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if linker.HasContext() {
		t.Error("Invoke must tear the linker context down")
	}
}

func TestInvokeReportsUsageErrors(t *testing.T) {
	resetPoison(t)
	t.Cleanup(linker.DestroyContext)

	res := Invoke([]string{"--frobnicate"})
	if res.Code != 1 || !res.CanRunAgain {
		t.Errorf("got code=%d canRunAgain=%v, want 1 true", res.Code, res.CanRunAgain)
	}
	if !strings.Contains(string(res.Stderr), "unknown flag") {
		t.Errorf("stderr missing diagnostic: %q", res.Stderr)
	}
}
