package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all devices in the device tree",
		Long: `The list command prints every device found in the device tree with its
address range and compatible strings, most recently discovered first.

Example:
  dtreectl list
  dtreectl list --tree test/device-tree
  dtreectl list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	return cmd
}

func runList() error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if jsonOut {
		devices := []deviceJSON{}
		for d := s.Next(); d != nil; d = s.Next() {
			devices = append(devices, toJSON(d))
			s.Free(d)
		}
		return printJSON(map[string]any{
			"root":    cfg.Tree.Root,
			"devices": devices,
			"count":   len(devices),
		})
	}

	count := 0
	for d := s.Next(); d != nil; d = s.Next() {
		printInfo("%s\n", formatDevice(d))
		s.Free(d)
		count++
	}
	printVerbose("\nTotal: %d devices\n", count)
	return nil
}
