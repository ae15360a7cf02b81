package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dtreekit/bus"
	"github.com/joshuapare/dtreekit/dtree/props"
)

var (
	writeAddr  string
	writeData  string
	writeWidth int
)

func init() {
	cmd := newWriteCmd()
	cmd.Flags().StringVarP(&writeAddr, "addr", "a", "", "Offset from the device base (hex)")
	cmd.Flags().StringVarP(&writeData, "data", "d", "", "Value to write (hex); read from stdin when omitted")
	cmd.Flags().IntVarP(&writeWidth, "width", "w", 4, "Access width in bytes: 1, 2 or 4")
	rootCmd.AddCommand(cmd)
}

func newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <device>",
		Short: "Write device registers",
		Long: `The write command writes a value to one register of a device through
/dev/mem. Without --data, values are read from stdin, one hexadecimal number
per line, and written to consecutive registers starting at --addr.

Example:
  dtreectl write plb --addr 0x00 --data 0xFF
  dtreectl write timer --addr 0x08 --data 0xFF --width 2
  seq 1 8 | dtreectl write timer --addr 0x08`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(args, cmd.InOrStdin())
		},
	}
	return cmd
}

func runWrite(args []string, stdin io.Reader) error {
	name := args[0]
	if writeAddr == "" {
		return errors.New("address option (--addr) is missing")
	}
	off, err := props.ParseHex(writeAddr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", writeAddr, err)
	}
	var value uint32
	if writeData != "" {
		if value, err = props.ParseHex(writeData); err != nil {
			return fmt.Errorf("invalid data %q: %w", writeData, err)
		}
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

	b := bus.Open(bus.Options{MemPath: cfg.Bus.MemPath, Logger: logger})

	if writeData != "" {
		printVerbose("Action: write, device: '%s', offset: '0x%08X', data: '0x%08X', width: %d\n",
			name, off, value, writeWidth)
		if err := b.Write(d, off, writeWidth, value); err != nil {
			return fmt.Errorf("write %s+0x%X: %w", name, off, err)
		}
		return nil
	}

	if stdin == nil {
		stdin = os.Stdin
	}
	printVerbose("Reading values from <stdin>\n")
	n, err := b.WriteStream(d, off, writeWidth, stdin)
	printVerbose("Wrote %d value(s)\n", n)
	if err != nil {
		return fmt.Errorf("write %s+0x%X: %w", name, off+uint32(n*writeWidth), err)
	}
	return nil
}
