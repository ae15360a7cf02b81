package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dtreekit/dtree"
	"github.com/joshuapare/dtreekit/pkg/types"
)

var (
	findCompatible string
	findName       string
)

func init() {
	cmd := newFindCmd()
	cmd.Flags().StringVarP(&findCompatible, "compatible", "c", "", "Compatible string to match")
	cmd.Flags().StringVarP(&findName, "name", "n", "", "Device name to match")
	cmd.MarkFlagsOneRequired("compatible", "name")
	cmd.MarkFlagsMutuallyExclusive("compatible", "name")
	rootCmd.AddCommand(cmd)
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find devices by compatible string or name",
		Long: `The find command prints every device listing the given compatible string,
or the device with the given name.

Example:
  dtreectl find --compatible xlnx,xps-uartlite-1.00.a
  dtreectl find --name serial-00 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind()
		},
	}
	return cmd
}

func runFind() error {
	if (findCompatible == "") == (findName == "") {
		return errors.New("exactly one of --compatible or --name is required")
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	find := func() *dtree.Device { return s.FindByCompatible(findCompatible) }
	if findName != "" {
		find = func() *dtree.Device { return s.FindByName(findName) }
	}

	matches := []deviceJSON{}
	count := 0
	for d := find(); d != nil; d = find() {
		if jsonOut {
			matches = append(matches, toJSON(d))
		} else {
			printInfo("%s\n", formatDevice(d))
		}
		s.Free(d)
		count++
	}
	if s.IsError() {
		return s.Err()
	}
	if jsonOut {
		return printJSON(map[string]any{"devices": matches, "count": count})
	}
	if count == 0 {
		if findName != "" {
			return types.ErrNotFound.Withf("name %q", findName)
		}
		return types.ErrNotFound.Withf("compatible %q", findCompatible)
	}
	return nil
}
