package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dtreekit/internal/buf"
	"github.com/joshuapare/dtreekit/pkg/types"
)

func TestParseUnitName(t *testing.T) {
	tests := []struct {
		name   string
		wantID string
		want   types.Addr
		wantOK bool
	}{
		{name: "serial@84000000", wantID: "serial", want: 0x84000000, wantOK: true},
		{name: "plb@0", wantID: "plb", want: 0, wantOK: true},
		{name: "ethernet@81C00000", wantID: "ethernet", want: 0x81c00000, wantOK: true},
		{name: "serial@0x84000000", wantID: "serial", want: 0x84000000, wantOK: true},
		{name: "gpio@0X81400000", wantID: "gpio", want: 0x81400000, wantOK: true},
		{name: "cpu@0", wantID: "cpu", want: 0, wantOK: true},
		{name: "timer@0x", wantID: "timer", want: 0, wantOK: true},
		{name: "pci@0,1", wantID: "pci", want: 0, wantOK: true},
		{name: "memory@100000000", wantID: "memory", want: 0, wantOK: true},
		{name: "cpus", wantOK: false},
		{name: "@1000", wantOK: false},
		{name: "timer@", wantOK: false},
		{name: "timer@xyz", wantOK: false},
		{name: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, addr, ok := ParseUnitName(tt.name)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.want, addr)
		})
	}
}

func TestParseReg(t *testing.T) {
	base, size, ok := ParseReg(buf.PutCellsBE(0x84000000, 0x00010000))
	require.True(t, ok)
	assert.Equal(t, types.Addr(0x84000000), base)
	assert.Equal(t, types.Addr(0x00010000), size)
	assert.Equal(t, types.Addr(0x8400FFFF), High(base, size))

	for _, n := range []int{0, 4, 7, 9, 16} {
		_, _, ok := ParseReg(make([]byte, n))
		assert.Falsef(t, ok, "length %d must be ignored", n)
	}
}

func TestHigh(t *testing.T) {
	assert.Equal(t, types.Addr(0x1000), High(0x1000, 0))
	assert.Equal(t, types.Addr(0x1000), High(0x1000, 1))
	assert.Equal(t, types.Addr(0xFFFFFFFF), High(0xFFFF0000, 0x10000))
}

func TestParseCompatible(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []string
	}{
		{"empty", nil, nil},
		{"single", []byte("simple-bus\x00"), []string{"simple-bus"}},
		{"list", []byte("xlnx,xps-uartlite-1.00.a\x00xlnx,uartlite\x00"), []string{"xlnx,xps-uartlite-1.00.a", "xlnx,uartlite"}},
		{"missing terminator", []byte("a\x00b"), []string{"a", "b"}},
		{"empty entries dropped", []byte("\x00a\x00\x00b\x00"), []string{"a", "b"}},
		{"only nul", []byte{0}, []string{}},
		{"latin1", []byte{'c', 0xE9, 0}, []string{"cé"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCompatible(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
			for _, s := range got {
				assert.NotEmpty(t, s)
			}
		})
	}
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "ns16550a", Latin1("ns16550a"))
	assert.Equal(t, "cé", Latin1("c\xe9"))
	assert.Equal(t, ParseCompatible([]byte("acme,c\xe9\x00"))[0], Latin1("acme,c\xe9"))
}

func TestParseHex(t *testing.T) {
	for in, want := range map[string]uint32{
		"0xDEEDBEAF": 0xDEEDBEAF,
		"DEEDBEAF":   0xDEEDBEAF,
		"0Xff":       0xFF,
		" 10\n":      0x10,
		"0":          0,
	} {
		got, err := ParseHex(in)
		require.NoErrorf(t, err, "input %q", in)
		assert.Equalf(t, want, got, "input %q", in)
	}

	for _, in := range []string{"", "0x", "zz", "100000000"} {
		_, err := ParseHex(in)
		assert.Errorf(t, err, "input %q", in)
	}
}
