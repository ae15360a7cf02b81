package buf

import "testing"

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x84, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00}

	if got := U32BE(data); got != 0x84000000 {
		t.Fatalf("U32BE = 0x%x, want 0x84000000", got)
	}
	if got, ok := CellAt(data, 1); !ok || got != 0x00010000 {
		t.Fatalf("CellAt(1) = 0x%x, %v, want 0x10000, true", got, ok)
	}
	if _, ok := CellAt(data, 2); ok {
		t.Fatalf("CellAt(2) should be out of bounds")
	}
	if _, ok := CellAt(data, -1); ok {
		t.Fatalf("CellAt(-1) should be rejected")
	}

	short := []byte{0xAA}
	if U32BE(short) != 0 {
		t.Fatalf("short reads should return 0")
	}
}

func TestPutCellsBE(t *testing.T) {
	got := PutCellsBE(0x84000000, 0x00010000)
	want := []byte{0x84, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00}
	if string(got) != string(want) {
		t.Fatalf("PutCellsBE = % x, want % x", got, want)
	}
	if len(PutCellsBE()) != 0 {
		t.Fatalf("PutCellsBE() should be empty")
	}
}
