// Package bus reads and writes registers of memory-mapped devices found in
// the device tree.
//
// Accesses are 1, 2 or 4 bytes wide and addressed by an offset from the
// device's base. Devices with a known size reject offsets past their high
// address; devices whose size is unknown accept any offset.
//
//	b := bus.Open(bus.Options{})
//	v, err := b.Read(dev, 0x04, 4)
package bus
