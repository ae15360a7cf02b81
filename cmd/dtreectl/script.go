package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dtreekit/script"
)

func init() {
	rootCmd.AddCommand(newScriptCmd())
}

func newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <file.star>",
		Short: "Run a Starlark script against the device tree",
		Long: `The script command runs a Starlark script with a "dtree" module that opens
the tree, iterates devices and looks them up by name or compatible string.
dtree.open() without arguments opens the configured tree.

Example:
  dtreectl script list.star
  dtreectl script --tree test/device-tree probe.star`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
	return cmd
}

func runScript(ctx context.Context, out io.Writer, args []string) error {
	env := script.New(script.Options{
		Session:     sessionOptions(),
		DefaultRoot: cfg.Tree.Root,
		Stdout:      out,
		Logger:      logger,
	})
	defer env.Close()

	printVerbose("Running script: %s\n", args[0])
	_, err := env.ExecFile(ctx, args[0], nil)
	return err
}
