package dtree

import (
	"github.com/joshuapare/dtreekit/dtree/props"
	"github.com/joshuapare/dtreekit/dtree/walker"
)

// buildDevice turns a device node and its raw properties into an entry.
// The unit address is the default base; a valid reg property overrides it
// and supplies the upper bound.
func buildDevice(n walker.Node) *entry {
	e := &entry{dev: Device{
		name: n.ID,
		base: n.UnitAddr,
		high: n.UnitAddr,
		path: n.Path,
	}}

	if base, size, ok := props.ParseReg(n.Reg); ok {
		e.dev.base = base
		e.dev.high = props.High(base, size)
	}
	e.dev.compat = props.ParseCompatible(n.Compatible)
	return e
}
