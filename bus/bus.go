package bus

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/joshuapare/dtreekit/dtree/props"
	"github.com/joshuapare/dtreekit/internal/buf"
	"github.com/joshuapare/dtreekit/internal/mmfile"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// DefaultMemPath is the physical memory device.
const DefaultMemPath = "/dev/mem"

// Target is the address range of a device. *dtree.Device implements it.
type Target interface {
	Name() string
	Base() types.Addr
	High() types.Addr
	Contains(off uint32) bool
}

// Region is a mapped window of physical memory.
type Region interface {
	Bytes() []byte
	Close() error
}

// Mapper maps length bytes of physical memory at addr.
type Mapper func(addr types.Addr, length int, writable bool) (Region, error)

// Options configures a Bus.
type Options struct {
	// MemPath is the memory device to map. Defaults to DefaultMemPath.
	MemPath string
	// Mapper overrides how windows are mapped. Defaults to mapping MemPath.
	Mapper Mapper
	Logger *zap.Logger
}

// Bus performs register accesses on memory-mapped devices. Every access
// maps the page holding the register, touches it once and unmaps it.
type Bus struct {
	mapper Mapper
	log    *zap.Logger
}

// Open creates a bus over the configured memory device. Nothing is mapped
// until the first access.
func Open(opts Options) *Bus {
	if opts.MemPath == "" {
		opts.MemPath = DefaultMemPath
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	mapper := opts.Mapper
	if mapper == nil {
		path := opts.MemPath
		mapper = func(addr types.Addr, length int, writable bool) (Region, error) {
			return mmfile.MapRegion(path, int64(addr), length, writable)
		}
	}
	return &Bus{mapper: mapper, log: opts.Logger}
}

// Read returns the width-byte register at off within dev. Width is 1, 2 or
// 4; the result holds only the low width bytes.
func (b *Bus) Read(dev Target, off uint32, width int) (uint32, error) {
	addr, err := b.check(dev, off, width)
	if err != nil {
		return 0, err
	}

	r, err := b.mapper(addr, width, false)
	if err != nil {
		return 0, types.ErrBusAccess.With(err)
	}
	defer r.Close()

	p, err := window(r, width)
	if err != nil {
		return 0, err
	}
	value := load(p, width)
	b.log.Debug("bus read",
		zap.String("device", dev.Name()),
		zap.Uint32("addr", addr),
		zap.Int("width", width),
		zap.Uint32("value", value))
	return value, nil
}

// Write stores the low width bytes of value at off within dev.
func (b *Bus) Write(dev Target, off uint32, width int, value uint32) error {
	addr, err := b.check(dev, off, width)
	if err != nil {
		return err
	}

	r, err := b.mapper(addr, width, true)
	if err != nil {
		return types.ErrBusAccess.With(err)
	}

	p, err := window(r, width)
	if err != nil {
		r.Close()
		return err
	}
	value &= Mask(width)
	store(p, width, value)
	b.log.Debug("bus write",
		zap.String("device", dev.Name()),
		zap.Uint32("addr", addr),
		zap.Int("width", width),
		zap.Uint32("value", value))
	return r.Close()
}

// WriteStream writes one hex value per line of r, starting at off and
// advancing by width after each value. Blank lines are skipped. It returns
// the number of values written.
func (b *Bus) WriteStream(dev Target, off uint32, width int, r io.Reader) (int, error) {
	if _, err := b.check(dev, off, width); err != nil {
		return 0, err
	}

	sc := bufio.NewScanner(r)
	n, line := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		value, err := props.ParseHex(text)
		if err != nil {
			return n, types.ErrInvalidArgument.Withf("line %d: %q: %w", line, text, err)
		}
		if err := b.Write(dev, off, width, value); err != nil {
			return n, err
		}
		n++
		off += uint32(width)
	}
	if err := sc.Err(); err != nil {
		return n, types.ErrBusAccess.With(err)
	}
	return n, nil
}

// check validates width and off against dev and returns the absolute
// address. Devices without a known size accept any offset.
func (b *Bus) check(dev Target, off uint32, width int) (types.Addr, error) {
	if Mask(width) == 0 {
		return 0, types.ErrInvalidWidth.Withf("%d (want 1, 2 or 4)", width)
	}
	if !dev.Contains(off) {
		return 0, types.ErrOutOfRange.Withf("%s: 0x%08X (high: 0x%08X)",
			dev.Name(), uint64(dev.Base())+uint64(off), dev.High())
	}
	return dev.Base() + off, nil
}

// window returns the first width bytes of r.
func window(r Region, width int) ([]byte, error) {
	p, ok := buf.Slice(r.Bytes(), 0, width)
	if !ok {
		return nil, types.ErrBusAccess.Withf("mapped window holds %d bytes, need %d", len(r.Bytes()), width)
	}
	return p, nil
}

// Mask returns the value mask for an access width, or 0 for an invalid one.
func Mask(width int) uint32 {
	switch width {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 4:
		return 0xFFFFFFFF
	default:
		return 0
	}
}

// Registers are accessed in the CPU's byte order, as a pointer
// dereference would.
func load(p []byte, width int) uint32 {
	switch width {
	case 1:
		return uint32(p[0])
	case 2:
		return uint32(binary.NativeEndian.Uint16(p))
	default:
		return binary.NativeEndian.Uint32(p)
	}
}

func store(p []byte, width int, value uint32) {
	switch width {
	case 1:
		p[0] = byte(value)
	case 2:
		binary.NativeEndian.PutUint16(p, uint16(value))
	default:
		binary.NativeEndian.PutUint32(p, value)
	}
}
