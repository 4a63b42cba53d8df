package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/qir-alliance/qirlib"
	"github.com/qir-alliance/qirlib/driver"
	"github.com/qir-alliance/qirlib/ir"
	"github.com/qir-alliance/qirlib/linker"
	"github.com/qir-alliance/qirlib/targets"
)

func main() {
	var (
		output  = flag.String("o", "", "Output file path")
		entry   = flag.String("entry", "", "Require the linked module to export this function")
		verify  = flag.Bool("verify", false, "Validate the linked output before writing it")
		version = flag.Bool("version", false, "Print version and exit")
		verbose = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *version {
		fmt.Printf("qirlink (qirlib) %s\n", qirlib.Version)
		return
	}

	if err := loadConfig(output, entry, verify, verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// os.Exit skips deferred calls, so the logger is flushed explicitly on
	// every exit path below.
	var log *zap.Logger
	if *verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		linker.SetLogger(log)
		driver.SetLogger(log)
		targets.SetLogger(log)
		ir.SetLogger(log)
	}
	exit := func(code int) {
		if log != nil {
			log.Sync()
		}
		os.Exit(code)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: qirlink -o <output.wasm> [options] <objects...>")
		fmt.Fprintln(os.Stderr, "       qirlink -o <output.wasm> @args.rsp")
		exit(1)
	}

	args := []string{"-o", *output}
	if *entry != "" {
		args = append(args, "--entry", *entry)
	}
	if *verify {
		args = append(args, "--verify")
	}
	args = append(args, flag.Args()...)

	res := driver.Invoke(args)
	os.Stdout.Write(res.Stdout)
	os.Stderr.Write(res.Stderr)
	if !res.CanRunAgain {
		fmt.Fprintln(os.Stderr, "qirlink: restart the process before linking again")
	}
	exit(res.Code)
}

// loadConfig fills in flags the user did not set from qirlink.yaml, when one
// exists next to the working directory.
func loadConfig(output, entry *string, verify, verbose *bool) error {
	v := viper.New()
	v.SetConfigName("qirlink")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["o"] && v.IsSet("output") {
		*output = v.GetString("output")
	}
	if !set["entry"] && v.IsSet("entry") {
		*entry = v.GetString("entry")
	}
	if !set["verify"] && v.IsSet("verify") {
		*verify = v.GetBool("verify")
	}
	if !set["v"] && v.IsSet("verbose") {
		*verbose = v.GetBool("verbose")
	}
	return nil
}
