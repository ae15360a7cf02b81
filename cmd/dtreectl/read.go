package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dtreekit/bus"
	"github.com/joshuapare/dtreekit/dtree/props"
)

var (
	readAddr  string
	readWidth int
)

func init() {
	cmd := newReadCmd()
	cmd.Flags().StringVarP(&readAddr, "addr", "a", "", "Offset from the device base (hex)")
	cmd.Flags().IntVarP(&readWidth, "width", "w", 4, "Access width in bytes: 1, 2 or 4")
	rootCmd.AddCommand(cmd)
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <device>",
		Short: "Read a device register",
		Long: `The read command reads one register of a device through /dev/mem and
prints its value. The offset is relative to the device base address.

Example:
  dtreectl read plb --addr 0x00
  dtreectl read timer --addr 0x04 --width 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(args)
		},
	}
	return cmd
}

func runRead(args []string) error {
	name := args[0]
	if readAddr == "" {
		return errors.New("address option (--addr) is missing")
	}
	off, err := props.ParseHex(readAddr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", readAddr, err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := findDevice(s, name)
	if err != nil {
		return err
	}
	defer s.Free(d)

	printVerbose("Action: read, device: '%s', offset: '0x%08X', width: %d\n", name, off, readWidth)

	b := bus.Open(bus.Options{MemPath: cfg.Bus.MemPath, Logger: logger})
	value, err := b.Read(d, off, readWidth)
	if err != nil {
		return fmt.Errorf("read %s+0x%X: %w", name, off, err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"device": name,
			"offset": fmt.Sprintf("0x%08X", off),
			"width":  readWidth,
			"value":  fmt.Sprintf("0x%08X", value),
		})
	}
	fmt.Printf("0x%08X\n", value)
	return nil
}
