package wasm

import (
	"bytes"
	stderrors "errors"
	"testing"

	qirerrors "github.com/qir-alliance/qirlib/errors"
)

func TestRewriteCodeRemapsCalls(t *testing.T) {
	rm := &remap{funcs: []uint32{7, 3}}
	body := []byte{
		0x00,       // no locals
		0x10, 0x00, // call 0
		0x10, 0x01, // call 1
		0x0b,
	}

	got, err := rewriteCode(body, rm)
	if err != nil {
		t.Fatalf("rewriteCode: %v", err)
	}
	want := []byte{0x00, 0x10, 0x07, 0x10, 0x03, 0x0b}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestRewriteCodeRemapsGlobalsAndRefs(t *testing.T) {
	rm := &remap{funcs: []uint32{9}, globals: []uint32{4, 2}}
	body := []byte{
		0x00,
		0x23, 0x01, // global.get 1
		0x24, 0x00, // global.set 0
		0xd2, 0x00, // ref.func 0
		0x1a, // drop
		0x0b,
	}

	got, err := rewriteCode(body, rm)
	if err != nil {
		t.Fatalf("rewriteCode: %v", err)
	}
	want := []byte{0x00, 0x23, 0x02, 0x24, 0x04, 0xd2, 0x09, 0x1a, 0x0b}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestRewriteCodeRemapsTypeImmediates(t *testing.T) {
	rm := &remap{types: []uint32{5, 0}}
	body := []byte{
		0x00,
		0x02, 0x00, // block with type index 0
		0x11, 0x01, 0x00, // call_indirect type 1, table 0
		0x0b, // end of block
		0x0b,
	}

	got, err := rewriteCode(body, rm)
	if err != nil {
		t.Fatalf("rewriteCode: %v", err)
	}
	want := []byte{0x00, 0x02, 0x05, 0x11, 0x00, 0x00, 0x0b, 0x0b}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestRewriteCodePreservesNegativeBlockTypes(t *testing.T) {
	rm := &remap{types: []uint32{5}}
	body := []byte{
		0x00,
		0x02, 0x7f, // block returning i32 (valtype, not a type index)
		0x41, 0x01, // i32.const 1
		0x0b,
		0x1a, // drop
		0x0b,
	}

	got, err := rewriteCode(body, rm)
	if err != nil {
		t.Fatalf("rewriteCode: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("got % x, want unchanged % x", got, body)
	}
}

func TestRewriteCodePreservesConstsAndMemargs(t *testing.T) {
	body := []byte{
		0x00,
		0x41, 0x7f, // i32.const -1
		0x42, 0xc0, 0x00, // i64.const 64
		0x43, 0x00, 0x00, 0x80, 0x3f, // f32.const 1.0
		0x28, 0x02, 0x10, // i32.load align=2 offset=16
		0x1a,
		0x0b,
	}

	got, err := rewriteCode(body, &remap{})
	if err != nil {
		t.Fatalf("rewriteCode: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("got % x, want unchanged % x", got, body)
	}
}

func TestRewriteCodeErrors(t *testing.T) {
	unsupported := &qirerrors.Error{Phase: qirerrors.PhaseLink, Kind: qirerrors.KindUnsupported}

	t.Run("simd rejected", func(t *testing.T) {
		body := []byte{0x00, 0xfd, 0x00, 0x0b}
		if _, err := rewriteCode(body, nil); !stderrors.Is(err, unsupported) {
			t.Errorf("want unsupported, got %v", err)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		rm := &remap{funcs: []uint32{0}}
		body := []byte{0x00, 0x10, 0x05, 0x0b}
		if _, err := rewriteCode(body, rm); err == nil {
			t.Error("call index beyond remap table should fail")
		}
	})

	t.Run("truncated body", func(t *testing.T) {
		if _, err := rewriteCode([]byte{0x00, 0x10}, nil); err == nil {
			t.Error("truncated body should fail")
		}
	})
}

func TestScanExprStopsAtMatchingEnd(t *testing.T) {
	buf := []byte{
		0x41, 0x2a, // i32.const 42
		0x0b, // end of expression
		0xaa, // trailing byte that is not part of the expression
	}
	r := &reader{buf: buf}
	expr, err := scanExpr(r)
	if err != nil {
		t.Fatalf("scanExpr: %v", err)
	}
	if !bytes.Equal(expr, buf[:3]) {
		t.Errorf("expr = % x, want % x", expr, buf[:3])
	}
	if r.pos != 3 {
		t.Errorf("reader stopped at %d, want 3", r.pos)
	}
}
