package types

// Defaults for scanning a device tree exposed as a pseudo-filesystem.
const (
	// DefaultRoot is where Linux exposes the decoded device tree.
	DefaultRoot = "/proc/device-tree"

	// DefaultMaxDepth bounds how many directory levels below the root are
	// visited. Directories at this depth are visited but not descended.
	DefaultMaxDepth = 4

	// RegFile names the register geometry property: two big-endian cells,
	// base address then size.
	RegFile = "reg"

	// RegSize is the only reg length understood; other lengths are ignored.
	RegSize = 8

	// CompatFile names the compatibility property: NUL-terminated strings.
	CompatFile = "compatible"

	// MaxGroupSize is the largest number of devices that may share one name
	// before discriminators would wrap.
	MaxGroupSize = 100
)
