package linker

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/qir-alliance/qirlib"
	"github.com/qir-alliance/qirlib/linker/internal/wasm"
)

// Run is the linker driver entry point: it links the objects named by args
// and reports success. args follows argv convention, program name first.
// Diagnostics go to the stderr sink; informational output to stdout.
//
// Run never exits the process. Ordinary failures return false; internal
// invariant violations panic with *FatalError and are expected to be
// contained by the driver package.
func Run(args []string, stdout, stderr io.Writer) bool {
	prog := "qirlink"
	var rest []string
	if len(args) > 0 {
		if args[0] != "" {
			prog = args[0]
		}
		rest = args[1:]
	}

	ctx := acquire()

	opts, err := parseArgs(rest)
	if err != nil {
		ctx.diag(stderr, "%s: %v", prog, err)
		fmt.Fprint(stderr, usage)
		return false
	}
	if opts.printHelp {
		fmt.Fprint(stdout, usage)
		return true
	}
	if opts.printVersion {
		fmt.Fprintf(stdout, "%s (qirlib) %s\n", prog, qirlib.Version)
		return true
	}

	for _, path := range opts.inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			ctx.diag(stderr, "%s: cannot read %s: %v", prog, path, err)
			return false
		}
		obj, err := wasm.Decode(path, data)
		if err != nil {
			ctx.diag(stderr, "%s: %v", prog, err)
			return false
		}
		ctx.objects = append(ctx.objects, obj)
	}

	merged, err := wasm.Link(ctx.objects)
	if err != nil {
		ctx.diag(stderr, "%s: %v", prog, err)
		return false
	}

	if opts.entry != "" && !exportsFunc(merged, opts.entry) {
		ctx.diag(stderr, "%s: entry symbol %q not exported by linked module", prog, opts.entry)
		return false
	}

	out := wasm.Encode(merged)

	// The output must survive its own decoder; anything else means the
	// merge bookkeeping is corrupt.
	if _, err := wasm.Decode("<output>", out); err != nil {
		fatal("linked output failed self-check: %v", err)
	}

	if opts.verify {
		if err := verifyOutput(out); err != nil {
			ctx.diag(stderr, "%s: %v", prog, err)
			return false
		}
	}

	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		ctx.diag(stderr, "%s: cannot write %s: %v", prog, opts.output, err)
		return false
	}

	ctx.linksDone++
	Logger().Info("link complete",
		zap.String("output", opts.output),
		zap.Int("objects", len(ctx.objects)),
		zap.Int("bytes", len(out)))
	return true
}

// diag reports one diagnostic through the stderr sink.
func (c *Context) diag(w io.Writer, format string, args ...any) {
	c.diagnostics++
	fmt.Fprintf(w, format+"\n", args...)
}

func exportsFunc(m *wasm.Module, name string) bool {
	for _, e := range m.Exports {
		if e.Name == name && e.Kind == wasm.KindFunc {
			return true
		}
	}
	return false
}
