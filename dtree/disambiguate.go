package dtree

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/joshuapare/dtreekit/internal/bcd"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// disambiguate gives every device a unique name. Devices sharing a name are
// ordered by base address and suffixed "-00", "-01", ... in that order;
// devices with a unique name are left alone. The order of list itself is
// not changed.
//
// A rename can collide with a device that was already named like the
// suffixed result ("uart-00@..." next to two "uart@..."), so passes repeat
// until one renames nothing.
func disambiguate(list []*entry) {
	sorted := slices.Clone(list)
	for disambiguatePass(sorted) {
	}
}

func disambiguatePass(sorted []*entry) bool {
	slices.SortStableFunc(sorted, func(a, b *entry) int {
		if c := strings.Compare(a.dev.name, b.dev.name); c != 0 {
			return c
		}
		return cmp.Compare(a.dev.base, b.dev.base)
	})

	renamed := false
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].dev.name == sorted[i].dev.name {
			j++
		}
		if j-i > 1 {
			renameGroup(sorted[i:j])
			renamed = true
		}
		i = j
	}
	return renamed
}

func renameGroup(group []*entry) {
	if len(group) > types.MaxGroupSize {
		panic(fmt.Sprintf("dtree: %d devices named %q exceed the %d discriminators available",
			len(group), group[0].dev.name, types.MaxGroupSize))
	}

	n := bcd.New()
	for _, e := range group {
		e.dev.name += "-" + n.String()
		n.Inc()
	}
}
