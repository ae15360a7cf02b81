package dtree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/dtreekit/pkg/types"
)

func entries(specs ...any) []*entry {
	var list []*entry
	for i := 0; i < len(specs); i += 2 {
		list = append(list, &entry{dev: Device{name: specs[i].(string), base: specs[i+1].(types.Addr)}})
	}
	return list
}

func entryNames(list []*entry) []string {
	names := make([]string, len(list))
	for i, e := range list {
		names[i] = e.dev.name
	}
	return names
}

func TestDisambiguate_RenamesByBaseAddress(t *testing.T) {
	list := entries(
		"serial", types.Addr(0x84000000),
		"gpio", types.Addr(0x81400000),
		"serial", types.Addr(0x83E00000),
		"serial", types.Addr(0x84010000),
	)
	disambiguate(list)

	// List order is untouched; suffixes follow ascending base address.
	assert.Equal(t, []string{"serial-01", "gpio", "serial-00", "serial-02"}, entryNames(list))
}

func TestDisambiguate_UniqueNamesUnchanged(t *testing.T) {
	list := entries("a", types.Addr(2), "b", types.Addr(1), "c", types.Addr(0))
	disambiguate(list)
	assert.Equal(t, []string{"a", "b", "c"}, entryNames(list))
}

func TestDisambiguate_EqualBasesKeepListOrder(t *testing.T) {
	list := entries("uart", types.Addr(0x10), "uart", types.Addr(0x10))
	disambiguate(list)
	assert.Equal(t, []string{"uart-00", "uart-01"}, entryNames(list))
}

func TestDisambiguate_ResolvesSecondaryCollisions(t *testing.T) {
	list := entries(
		"uart", types.Addr(0x20),
		"uart-00", types.Addr(0x30),
		"uart", types.Addr(0x10),
	)
	disambiguate(list)

	assert.Equal(t, []string{"uart-01", "uart-00-01", "uart-00-00"}, entryNames(list))
}

func TestDisambiguate_GroupLimit(t *testing.T) {
	group := func(n int) []*entry {
		list := make([]*entry, n)
		for i := range list {
			list[i] = &entry{dev: Device{name: "irq", base: types.Addr(i)}}
		}
		return list
	}

	full := group(types.MaxGroupSize)
	disambiguate(full)
	assert.Equal(t, "irq-00", full[0].dev.name)
	assert.Equal(t, fmt.Sprintf("irq-%02d", types.MaxGroupSize-1), full[len(full)-1].dev.name)

	assert.Panics(t, func() { disambiguate(group(types.MaxGroupSize + 1)) })
}
