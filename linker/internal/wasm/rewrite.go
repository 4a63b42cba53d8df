package wasm

import (
	"fmt"

	"github.com/qir-alliance/qirlib/errors"
)

// remap carries old-to-new index tables for one input module. A nil table
// means identity for that index space.
type remap struct {
	funcs   []uint32
	globals []uint32
	types   []uint32
}

func (rm *remap) fn(old uint32) (uint32, error) {
	if rm == nil {
		return old, nil
	}
	return lookup(rm.funcs, old, "function")
}

func (rm *remap) global(old uint32) (uint32, error) {
	if rm == nil {
		return old, nil
	}
	return lookup(rm.globals, old, "global")
}

func (rm *remap) typ(old uint32) (uint32, error) {
	if rm == nil {
		return old, nil
	}
	return lookup(rm.types, old, "type")
}

func lookup(table []uint32, old uint32, space string) (uint32, error) {
	if table == nil {
		return old, nil
	}
	if int(old) >= len(table) {
		return 0, errors.InvalidData(errors.PhaseLink, "",
			fmt.Sprintf("%s index %d out of range", space, old))
	}
	return table[old], nil
}

// scanExpr reads one expression (through its terminating end) and returns it
// re-encoded without remapping.
func scanExpr(r *reader) ([]byte, error) {
	return rewriteExpr(r, nil, nil)
}

// rewriteCode rewrites a function body: locals declarations pass through,
// every index immediate in the expression is remapped.
func rewriteCode(body []byte, rm *remap) ([]byte, error) {
	r := &reader{buf: body}
	var out []byte

	// locals: vec of (count, valtype)
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	out = appendU32(out, n)
	for i := uint32(0); i < n; i++ {
		count, err := r.u32()
		if err != nil {
			return nil, err
		}
		vt, err := r.byte()
		if err != nil {
			return nil, err
		}
		out = appendU32(out, count)
		out = append(out, vt)
	}

	return rewriteExpr(r, out, rm)
}

// rewriteExpr appends the re-encoded expression at r to out, remapping index
// immediates through rm. The expression ends at the end opcode that closes
// the outermost level.
func rewriteExpr(r *reader, out []byte, rm *remap) ([]byte, error) {
	depth := 0
	for {
		op, err := r.byte()
		if err != nil {
			return nil, err
		}
		out = append(out, op)

		switch op {
		case 0x02, 0x03, 0x04: // block, loop, if
			bt, err := r.s33()
			if err != nil {
				return nil, err
			}
			if bt >= 0 {
				// non-negative block types are type indices
				nt, err := rm.typ(uint32(bt))
				if err != nil {
					return nil, err
				}
				bt = int64(nt)
			}
			out = appendSLEB(out, bt)
			depth++

		case 0x0b: // end
			if depth == 0 {
				return out, nil
			}
			depth--

		case 0x0c, 0x0d: // br, br_if
			if out, err = copyU32(r, out); err != nil {
				return nil, err
			}

		case 0x0e: // br_table
			n, err := r.u32()
			if err != nil {
				return nil, err
			}
			out = appendU32(out, n)
			for i := uint32(0); i <= n; i++ {
				if out, err = copyU32(r, out); err != nil {
					return nil, err
				}
			}

		case 0x10: // call
			if out, err = mapU32(r, out, rm.fn); err != nil {
				return nil, err
			}

		case 0x11: // call_indirect
			if out, err = mapU32(r, out, rm.typ); err != nil {
				return nil, err
			}
			if out, err = copyU32(r, out); err != nil { // table index
				return nil, err
			}

		case 0x1c: // select with types
			n, err := r.u32()
			if err != nil {
				return nil, err
			}
			out = appendU32(out, n)
			vts, err := r.bytes(int(n))
			if err != nil {
				return nil, err
			}
			out = append(out, vts...)

		case 0x20, 0x21, 0x22: // local.get/set/tee
			if out, err = copyU32(r, out); err != nil {
				return nil, err
			}

		case 0x23, 0x24: // global.get/set
			if out, err = mapU32(r, out, rm.global); err != nil {
				return nil, err
			}

		case 0x25, 0x26: // table.get/set
			if out, err = copyU32(r, out); err != nil {
				return nil, err
			}

		case 0x3f, 0x40: // memory.size, memory.grow
			b, err := r.byte()
			if err != nil {
				return nil, err
			}
			out = append(out, b)

		case 0x41: // i32.const
			v, err := r.s32()
			if err != nil {
				return nil, err
			}
			out = appendSLEB(out, int64(v))

		case 0x42: // i64.const
			v, err := r.s64()
			if err != nil {
				return nil, err
			}
			out = appendSLEB(out, v)

		case 0x43: // f32.const
			b, err := r.bytes(4)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)

		case 0x44: // f64.const
			b, err := r.bytes(8)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)

		case 0xd0: // ref.null
			b, err := r.byte()
			if err != nil {
				return nil, err
			}
			out = append(out, b)

		case 0xd2: // ref.func
			if out, err = mapU32(r, out, rm.fn); err != nil {
				return nil, err
			}

		case 0xfc:
			if out, err = rewriteMiscOp(r, out); err != nil {
				return nil, err
			}

		case 0xfd:
			return nil, errors.Unsupported(errors.PhaseLink, "", "SIMD instructions")

		case 0xfe:
			return nil, errors.Unsupported(errors.PhaseLink, "", "atomic instructions")

		default:
			if op >= 0x28 && op <= 0x3e { // loads and stores: memarg
				if out, err = copyU32(r, out); err != nil {
					return nil, err
				}
				if out, err = copyU32(r, out); err != nil {
					return nil, err
				}
				break
			}
			// remaining one-byte opcodes carry no immediates
			if !plainOpcode(op) {
				return nil, errors.Unsupported(errors.PhaseLink, "",
					fmt.Sprintf("opcode 0x%02x", op))
			}
		}
	}
}

// rewriteMiscOp handles the 0xfc-prefixed opcode space. Data and element
// indices pass through: segments travel only with their defining module.
func rewriteMiscOp(r *reader, out []byte) ([]byte, error) {
	sub, err := r.u32()
	if err != nil {
		return nil, err
	}
	out = appendU32(out, sub)

	var extra int
	switch {
	case sub <= 7: // saturating truncations
		extra = 0
	case sub == 8: // memory.init: dataidx, mem
		extra = 2
	case sub == 9: // data.drop: dataidx
		extra = 1
	case sub == 10: // memory.copy: mem, mem
		extra = 2
	case sub == 11: // memory.fill: mem
		extra = 1
	case sub == 12 || sub == 14: // table.init, table.copy
		extra = 2
	case sub >= 13 && sub <= 17: // elem.drop, table.grow/size/fill
		extra = 1
	default:
		return nil, errors.Unsupported(errors.PhaseLink, "",
			fmt.Sprintf("opcode 0xfc %d", sub))
	}

	for i := 0; i < extra; i++ {
		if out, err = copyU32(r, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func copyU32(r *reader, out []byte) ([]byte, error) {
	v, err := r.u32()
	if err != nil {
		return nil, err
	}
	return appendU32(out, v), nil
}

func mapU32(r *reader, out []byte, f func(uint32) (uint32, error)) ([]byte, error) {
	v, err := r.u32()
	if err != nil {
		return nil, err
	}
	nv, err := f(v)
	if err != nil {
		return nil, err
	}
	return appendU32(out, nv), nil
}

// plainOpcode reports whether op is a known immediate-free instruction.
func plainOpcode(op byte) bool {
	switch {
	case op <= 0x01: // unreachable, nop
		return true
	case op == 0x05: // else
		return true
	case op == 0x0f: // return
		return true
	case op == 0x1a || op == 0x1b: // drop, select
		return true
	case op >= 0x45 && op <= 0xc4: // numeric ops
		return true
	case op == 0xd1: // ref.is_null
		return true
	}
	return false
}
