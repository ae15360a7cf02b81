package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joshuapare/dtreekit/dtree"
	"github.com/joshuapare/dtreekit/internal/config"
	"github.com/joshuapare/dtreekit/internal/logging"
	"github.com/joshuapare/dtreekit/pkg/types"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	treeRoot   string
	configPath string

	// Loaded before any command runs; tests set them directly.
	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dtreectl",
	Short: "Discover and access memory-mapped devices described by the device tree",
	Long: `dtreectl scans a device tree exposed as a directory hierarchy (normally
/proc/device-tree), lists the memory-mapped devices it describes and reads or
writes their registers through /dev/mem.

All numbers are hexadecimal, with or without a 0x prefix.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVarP(&treeRoot, "tree", "t", "", "Device tree root (default from config, /proc/device-tree)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./dtreectl.yaml)")
}

// errIssuesFound makes the process exit with status 2 without printing.
var errIssuesFound = errors.New("issues found")

func execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errIssuesFound) {
			os.Exit(2)
		}
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if treeRoot != "" {
		loaded.Tree.Root = treeRoot
	}
	if verbose {
		loaded.Logging.Level = zapcore.DebugLevel.String()
	}
	cfg = loaded

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	return nil
}

// sessionOptions maps the tree configuration to session options.
func sessionOptions() dtree.Options {
	return dtree.Options{
		MaxDepth:   cfg.Tree.MaxDepth,
		RegFile:    cfg.Tree.RegFile,
		CompatFile: cfg.Tree.CompatFile,
		Logger:     logger,
	}
}

// openSession scans the configured tree. Recoverable failures during the
// scan are reported and cleared, so a later nil lookup means "not found".
func openSession() (*dtree.Session, error) {
	printVerbose("Opening device tree: %s\n", cfg.Tree.Root)

	s := dtree.New(sessionOptions())
	if err := s.Open(cfg.Tree.Root); err != nil {
		return nil, fmt.Errorf("failed to open device tree %s: %w", cfg.Tree.Root, err)
	}
	if s.IsError() {
		printVerbose("Warning: %d node(s) could not be read: %s\n",
			len(s.Diagnostics().Diagnostics), s.ErrorText())
		s.ClearError()
	}
	return s, nil
}

// findDevice looks a device up by name from the start of the list.
func findDevice(s *dtree.Session, name string) (*dtree.Device, error) {
	if err := s.Reset(); err != nil {
		return nil, err
	}
	d := s.FindByName(name)
	if d != nil {
		return d, nil
	}
	if s.IsError() {
		return nil, fmt.Errorf("lookup of %q failed: %w", name, s.Err())
	}
	return nil, types.ErrNotFound.Withf("%q", name)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
