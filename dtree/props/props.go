// Package props decodes the property encodings found in a device tree that
// has been exposed as a pseudo-filesystem: unit names of the form
// <identifier>@<hex>, the binary reg cell pair and the NUL-separated
// compatible string list.
package props

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/dtreekit/internal/buf"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// maxUnitDigits caps the parsed unit-address run. Longer runs are 64-bit
// addresses and are truncated to their low 32 bits.
const maxUnitDigits = 16

// ParseUnitName splits a node directory name into its identifier and the
// hexadecimal unit address following the first '@'. The address may carry a
// 0x or 0X prefix. ok is false for names that do not describe a device: no
// '@', an empty identifier, or an address with no hex digit after the
// optional prefix. Trailing non-hex characters (",1" in "pci@0,1") are
// ignored.
func ParseUnitName(name string) (id string, addr types.Addr, ok bool) {
	at := strings.IndexByte(name, '@')
	if at <= 0 || at+1 >= len(name) {
		return "", 0, false
	}

	digits := name[at+1:]
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') && isHex(digits[2]) {
		digits = digits[2:]
	}
	n := 0
	for n < len(digits) && isHex(digits[n]) {
		n++
	}
	if n == 0 {
		return "", 0, false
	}
	if n > maxUnitDigits {
		digits = digits[n-maxUnitDigits : n]
	} else {
		digits = digits[:n]
	}

	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return "", 0, false
	}
	// #nosec G115 - unit addresses wider than 32 bits keep their low word
	return name[:at], types.Addr(v), true
}

// ParseReg decodes a reg property holding exactly one (base, size) pair of
// big-endian cells. Any other length reports ok = false.
func ParseReg(b []byte) (base, size types.Addr, ok bool) {
	if len(b) != types.RegSize {
		return 0, 0, false
	}
	base, _ = buf.CellAt(b, 0)
	size, _ = buf.CellAt(b, 1)
	return base, size, true
}

// High returns the inclusive upper address of a region. A zero size has no
// upper bound and reports base itself. The sum wraps at 32 bits.
func High(base, size types.Addr) types.Addr {
	if size == 0 {
		return base
	}
	return base + size - 1
}

// ParseCompatible splits a compatible property into its strings. End of
// input terminates the last string even without a trailing NUL, and empty
// strings are dropped. Bytes are decoded as ISO-8859-1 (see Latin1) so the
// result is always valid UTF-8; plain ASCII passes through unchanged.
func ParseCompatible(b []byte) []string {
	if len(b) == 0 {
		return nil
	}

	out := make([]string, 0, bytes.Count(b, []byte{0})+1)
	for part := range bytes.SplitSeq(b, []byte{0}) {
		if len(part) == 0 {
			continue
		}
		out = append(out, Latin1(string(part)))
	}
	return out
}

// Latin1 decodes raw property text as ISO-8859-1, the form ParseCompatible
// stores. Strings without bytes above 0x7F are returned unchanged.
func Latin1(raw string) string {
	if isASCII(raw) {
		return raw
	}
	s, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		// ISO-8859-1 maps every byte; keep the raw text regardless.
		return raw
	}
	return s
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

var errNoDigits = errors.New("no hex digits")

// ParseHex parses a 32-bit hexadecimal number with an optional 0x or 0X
// prefix, as accepted for addresses and data on the command line.
func ParseHex(s string) (uint32, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	if t == "" {
		return 0, fmt.Errorf("parse hex %q: %w", s, errNoDigits)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse hex %q: %w", s, err)
	}
	return uint32(v), nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
