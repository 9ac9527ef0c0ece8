package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/allocator"
	"github.com/vkngwrapper/fitsim/config"
	"github.com/vkngwrapper/fitsim/partition"
	"github.com/vkngwrapper/fitsim/report"
	"github.com/vkngwrapper/fitsim/script"
)

const scriptName = "datafile"

var errUsage = errors.New("usage: fitsim datafile")

var diagnostics = []struct {
	sentinel error
	message  string
}{
	{fitsim.ErrOversizeRequest, "Chunk size exceeded maximum partition size"},
	{fitsim.ErrHeapExhausted, "Failed to create new space"},
	{fitsim.ErrNothingToFree, "No memory to deallocate"},
	{fitsim.ErrUnknownAddress, "Fatal error: attempting to free memory not allocated."},
}

type flags struct {
	configPath string
	partitions string
	heapKind   string
	heapLimit  int
	jsonOut    bool
	stats      bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "fitsim datafile",
		Short: "Run an allocation script against a fixed-partition first-fit allocator",
		Long: `fitsim reads the file named datafile from the working directory, where each
line is either "alloc: <size>" or "dealloc", and replays it against a fixed-partition
first-fit allocator. The allocated and free chunk lists are printed when the script ends.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || args[0] != scriptName {
				return errUsage
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, &f, args[0])
		},
	}

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.WithSecondaryError(errUsage, err)
	})

	cmd.Flags().StringVar(&f.configPath, "config", "", "Load settings from a json config file")
	cmd.Flags().StringVar(&f.partitions, "partitions", "", "Comma-separated partition sizes, such as 32,64,128")
	cmd.Flags().StringVar(&f.heapKind, "heap", "", "Heap to grow: simulated or mapped")
	cmd.Flags().IntVar(&f.heapLimit, "heap-limit", 0, "Maximum heap growth in bytes, 0 for the default")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the chunk lists as json")
	cmd.Flags().BoolVar(&f.stats, "stats", false, "Print a usage summary after the chunk lists")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log every allocator operation to stderr")

	return cmd
}

// loadConfig reads the config file, if any, and applies flag overrides on top of it
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		cfg, err = config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
	}

	if f.partitions != "" {
		table, err := partition.Parse(f.partitions)
		if err != nil {
			return nil, err
		}
		cfg.Partitions = table.Sizes()
	}
	if f.heapKind != "" {
		cfg.Heap.Kind = f.heapKind
	}
	if cmd.Flags().Changed("heap-limit") {
		cfg.Heap.Limit = f.heapLimit
	}
	if f.verbose {
		cfg.LogLevel = slog.LevelDebug.String()
	}

	return cfg, cfg.Validate()
}

func runScript(cmd *cobra.Command, f *flags, path string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	options, closer, err := cfg.Options()
	if err != nil {
		return err
	}
	defer closer.Close()

	alloc, err := allocator.New(logger, options)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Debug("could not open script", slog.Any("error", err))
		fmt.Fprintf(cmd.ErrOrStderr(), "Could not open the file %s\n", path)
	} else {
		defer file.Close()

		err = script.Execute(file, alloc)
		if err != nil {
			logger.Debug("script failed", slog.String("error", fmt.Sprintf("%+v", err)))
			return err
		}
	}

	return printResults(cmd.OutOrStdout(), f, alloc)
}

func printResults(w io.Writer, f *flags, alloc *allocator.Allocator) error {
	var err error
	if f.jsonOut {
		err = report.WriteJSON(w, alloc)
	} else {
		err = report.WriteText(w, alloc)
	}
	if err != nil {
		return err
	}

	if f.stats {
		var stats fitsim.DetailedStatistics
		stats.Clear()
		alloc.AddDetailedStatistics(&stats)
		return report.WriteSummary(w, &stats)
	}

	return nil
}

// diagnostic returns the single line printed for a failed run
func diagnostic(err error) string {
	if errors.Is(err, errUsage) {
		return "Usage: fitsim datafile"
	}

	for _, d := range diagnostics {
		if errors.Is(err, d.sentinel) {
			return d.message
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// A help request is a usage error
	helpRequested := false
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		helpRequested = true
	})

	err := cmd.Execute()
	if err == nil && helpRequested {
		err = errUsage
	}
	if err != nil {
		fmt.Fprintln(stderr, diagnostic(err))
		return 1
	}
	return 0
}

func execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
