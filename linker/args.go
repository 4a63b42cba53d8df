package linker

import (
	"os"
	"strings"

	"github.com/qir-alliance/qirlib/errors"
)

// options is the parsed form of one invocation's argument vector.
type options struct {
	output       string
	entry        string
	verify       bool
	printVersion bool
	printHelp    bool
	inputs       []string
}

const usage = `usage: qirlink [options] <objects...>
  -o <path>        output file path (required)
  --entry <name>   require the linked module to export this function
  --verify         validate the linked output before writing it
  --version        print version and exit
  -h, --help       print this message
  @<file>          read additional arguments from a response file
`

// parseArgs parses everything after the program name. Response files are
// expanded before flag handling.
func parseArgs(argv []string) (*options, error) {
	expanded, err := expandResponseFiles(argv)
	if err != nil {
		return nil, err
	}

	opts := &options{}
	for i := 0; i < len(expanded); i++ {
		arg := expanded[i]
		switch arg {
		case "-o", "--output":
			i++
			if i >= len(expanded) {
				return nil, errors.Usage("%s requires a path", arg)
			}
			opts.output = expanded[i]
		case "--entry":
			i++
			if i >= len(expanded) {
				return nil, errors.Usage("--entry requires a name")
			}
			opts.entry = expanded[i]
		case "--verify":
			opts.verify = true
		case "--version":
			opts.printVersion = true
		case "-h", "--help":
			opts.printHelp = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, errors.Usage("unknown flag %q", arg)
			}
			opts.inputs = append(opts.inputs, arg)
		}
	}

	if opts.printVersion || opts.printHelp {
		return opts, nil
	}
	if opts.output == "" {
		return nil, errors.Usage("no output path; use -o <path>")
	}
	if len(opts.inputs) == 0 {
		return nil, errors.Usage("no input objects")
	}
	return opts, nil
}

// expandResponseFiles replaces every @file argument with the
// whitespace-separated arguments the file contains.
func expandResponseFiles(argv []string) ([]string, error) {
	var out []string
	for _, arg := range argv {
		if !strings.HasPrefix(arg, "@") {
			out = append(out, arg)
			continue
		}
		path := arg[1:]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.IO(errors.PhaseLink, path, err)
		}
		out = append(out, strings.Fields(string(data))...)
	}
	return out, nil
}
