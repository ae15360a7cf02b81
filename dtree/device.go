package dtree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshuapare/dtreekit/dtree/props"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// Device is one peripheral discovered in the device tree. Records handed out
// by a Session are copies owned by the caller, who releases each one with
// Session.Free exactly once.
type Device struct {
	name   string
	base   types.Addr
	high   types.Addr
	compat []string
	path   string

	owner *Session
	gen   uint64
	freed bool
}

// Name returns the device name, with a "-NN" discriminator when several
// devices share the same identifier.
func (d *Device) Name() string { return d.name }

// Base returns the first address of the device.
func (d *Device) Base() types.Addr { return d.base }

// High returns the last address of the device. It equals Base when the
// size is unknown, meaning the range is unbounded.
func (d *Device) High() types.Addr { return d.high }

// Compat returns a copy of the compatible strings in property order. Bytes
// above 0x7F in the property are decoded as ISO-8859-1.
func (d *Device) Compat() []string { return slices.Clone(d.compat) }

// Path returns the OS path of the node directory.
func (d *Device) Path() string { return d.path }

// Bounded reports whether the device has a known upper address.
func (d *Device) Bounded() bool { return d.high != d.base }

// Contains reports whether base+off is a valid address of the device.
// Unbounded devices accept any offset that does not wrap the address space.
func (d *Device) Contains(off uint32) bool {
	addr := d.base + off
	if addr < d.base {
		return false
	}
	return !d.Bounded() || addr <= d.high
}

// IsCompatible reports whether tag is one of the device's compatible strings.
// tag may be given decoded, as returned by Compat, or as the raw property
// bytes.
func (d *Device) IsCompatible(tag string) bool {
	if slices.Contains(d.compat, tag) {
		return true
	}
	if decoded := props.Latin1(tag); decoded != tag {
		return slices.Contains(d.compat, decoded)
	}
	return false
}

// String formats the device like the list command: name, range and
// compatible strings.
func (d *Device) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at 0x%X..0x%X", d.name, d.base, d.high)
	if len(d.compat) > 0 {
		b.WriteString(" [" + strings.Join(d.compat, ", ") + "]")
	}
	return b.String()
}

// entry is the session-owned record behind every Device handed out.
type entry struct {
	dev Device
}

func (e *entry) clone() *Device {
	d := e.dev
	d.compat = slices.Clone(e.dev.compat)
	return &d
}
