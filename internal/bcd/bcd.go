// Package bcd implements the fixed-width decimal counter used to build
// discriminator suffixes for colliding device names.
package bcd

// Digits is the rendered width of a Counter.
const Digits = 2

// Max is the largest value a Counter holds before wrapping to zero.
const Max = 99

// Counter is a two-digit decimal counter. The zero value reads "00".
type Counter struct {
	v uint8
}

// New returns a counter initialized to "00".
func New() Counter { return Counter{} }

// Init resets the counter to "00".
func (c *Counter) Init() { c.v = 0 }

// Inc adds one, carrying from the least significant digit. It reports
// whether the counter wrapped from 99 back to 00.
func (c *Counter) Inc() (overflow bool) {
	if c.v == Max {
		c.v = 0
		return true
	}
	c.v++
	return false
}

// IsZero reports whether the counter reads "00".
func (c Counter) IsZero() bool { return c.v == 0 }

// Value returns the counter as an integer in [0, Max].
func (c Counter) Value() int { return int(c.v) }

// String renders the counter zero padded to Digits characters.
func (c Counter) String() string {
	return string([]byte{'0' + c.v/10, '0' + c.v%10})
}
