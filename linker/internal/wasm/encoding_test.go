package wasm

import (
	"bytes"
	"testing"
)

func TestU32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 300, 16384, 0xffffffff}
	for _, v := range values {
		enc := appendU32(nil, v)
		r := &reader{buf: enc}
		got, err := r.u32()
		if err != nil {
			t.Fatalf("u32(%d): %v", v, err)
		}
		if got != v || !r.eof() {
			t.Errorf("round trip of %d returned %d (pos %d/%d)", v, got, r.pos, len(enc))
		}
	}
}

func TestSLEBRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, 64, -64, -65, 300, -300, 1 << 40, -(1 << 40)}
	for _, v := range values {
		enc := appendSLEB(nil, v)
		r := &reader{buf: enc}
		got, err := r.s64()
		if err != nil {
			t.Fatalf("s64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %d returned %d", v, got)
		}
	}
}

func TestS32SignExtension(t *testing.T) {
	// -1 encodes as a single 0x7f byte
	r := &reader{buf: []byte{0x7f}}
	v, err := r.s32()
	if err != nil || v != -1 {
		t.Errorf("s32(0x7f) = %d, %v; want -1", v, err)
	}
}

func TestS33BlockTypeValues(t *testing.T) {
	// valtype i32 encodes as 0x7f, which reads back as -1 in s33
	r := &reader{buf: []byte{0x7f}}
	v, err := r.s33()
	if err != nil || v != -1 {
		t.Errorf("s33(0x7f) = %d, %v; want -1", v, err)
	}

	// a type index round-trips non-negative
	enc := appendSLEB(nil, 5)
	r = &reader{buf: enc}
	if v, _ := r.s33(); v != 5 {
		t.Errorf("s33 round trip of 5 returned %d", v)
	}
}

func TestU32Overflow(t *testing.T) {
	r := &reader{buf: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}}
	if _, err := r.u32(); err != ErrOverflow {
		t.Errorf("want ErrOverflow, got %v", err)
	}
}

func TestReaderTruncation(t *testing.T) {
	r := &reader{buf: []byte{0x80}}
	if _, err := r.u32(); err == nil {
		t.Error("unterminated LEB should fail")
	}

	r = &reader{buf: []byte{0x02, 'h'}}
	if _, err := r.name(); err == nil {
		t.Error("short name should fail")
	}
}

func TestAppendSection(t *testing.T) {
	got := appendSection(nil, secType, []byte{0xaa, 0xbb})
	want := []byte{secType, 0x02, 0xaa, 0xbb}
	if !bytes.Equal(got, want) {
		t.Errorf("appendSection = % x, want % x", got, want)
	}
}
