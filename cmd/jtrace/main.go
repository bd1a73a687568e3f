package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/retronym/asm/bytecode"
	"github.com/retronym/asm/classfile"
	"github.com/retronym/asm/trace"
)

var log = commonlog.GetLogger("jtrace")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		classpath string
		skipDebug bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:           "jtrace <class name | path/to/File.class>",
		Short:         "Print a disassembled view of a JVM class",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity := 0
			if verbose {
				verbosity = 2
			}
			commonlog.Configure(verbosity, nil)

			data, err := readClass(args[0], classpath)
			if err != nil {
				return err
			}
			cf, err := classfile.Parse(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			log.Debugf("parsed %s: %d fields, %d methods", cf.ThisClass, len(cf.Fields), len(cf.Methods))

			tracer := trace.NewClassTracer(nil, cmd.OutOrStdout())
			if err := bytecode.Accept(cf, tracer, bytecode.Options{SkipDebug: skipDebug}); err != nil {
				return fmt.Errorf("disassemble %s: %w", cf.ThisClass, err)
			}
			return tracer.Err()
		},
	}

	cmd.Flags().StringVarP(&classpath, "classpath", "c", defaultClasspath(), "classpath entries searched for named classes")
	cmd.Flags().BoolVar(&skipDebug, "skip-debug", false, "omit line numbers, local variables and debug info")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging")

	return cmd
}

func defaultClasspath() string {
	if cp := os.Getenv("CLASSPATH"); cp != "" {
		return cp
	}
	return "."
}

func readClass(name, classpath string) ([]byte, error) {
	if strings.HasSuffix(name, ".class") {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	log.Debugf("resolving %s on classpath %q", name, classpath)
	return classfile.Load(name, classpath)
}
