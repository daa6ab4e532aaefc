package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pagekit/internal/format"
	"github.com/joshuapare/pagekit/internal/logger"
	"github.com/joshuapare/pagekit/kalloc"
	"github.com/joshuapare/pagekit/phys"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	memMiB    int
	kernelLen int
	logDir    string
	logLevel  string
	logStderr bool
)

var rootCmd = &cobra.Command{
	Use:   "pagectl",
	Short: "Exercise the physical page allocator on a simulated machine",
	Long: `pagectl builds a simulated machine (RAM starting at 0x80000000 with a
kernel image at the bottom), seeds the physical page allocator from it and
runs checks and workloads against the allocator.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Options{
			Enabled: logDir != "" || logStderr,
			LogDir:  logDir,
			Level:   logger.ParseLevel(logLevel),
			Stderr:  logStderr,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		IntVar(&memMiB, "mem", phys.DefaultMemory/format.MiB, "RAM size in MiB")
	rootCmd.PersistentFlags().
		IntVar(&kernelLen, "kernel", phys.DefaultKernelImage, "Size of the kernel image in bytes")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON logs to this directory")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "Write text logs to stderr")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("pagectl: command failed", "err", err)
		printError("%v\n", err)
		os.Exit(1)
	}
}

// machineLayout returns the layout selected by the global flags.
func machineLayout() (phys.Layout, error) {
	if memMiB <= 0 {
		return phys.Layout{}, fmt.Errorf("--mem must be positive, got %d", memMiB)
	}
	l := phys.NewLayout(memMiB*format.MiB, kernelLen)
	if err := l.Validate(); err != nil {
		return phys.Layout{}, err
	}
	return l, nil
}

// bootAllocator maps RAM for the selected layout and seeds an allocator
// over it. The returned cleanup unmaps RAM.
func bootAllocator() (*kalloc.Allocator, func() error, error) {
	l, err := machineLayout()
	if err != nil {
		return nil, nil, err
	}
	mem, err := phys.New(l)
	if err != nil {
		return nil, nil, err
	}
	ka, err := kalloc.New(mem, &kalloc.Options{Logger: logger.L})
	if err != nil {
		mem.Close()
		return nil, nil, err
	}
	printVerbose("kinit: %s\n", l)
	logger.Debug("pagectl: booting allocator", "layout", l.String())
	ka.Init()
	return ka, mem.Close, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
