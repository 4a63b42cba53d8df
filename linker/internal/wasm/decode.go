package wasm

import (
	"bytes"
	"fmt"

	"github.com/qir-alliance/qirlib/errors"
)

// Decode parses a wasm object into its section-level form. name is the input
// path, used only for diagnostics.
func Decode(name string, data []byte) (*Module, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], magic) {
		return nil, errors.InvalidData(errors.PhaseParse, name, "not a wasm object (bad magic or version)")
	}

	m := &Module{Name: name}
	r := &reader{buf: data, pos: 8}

	for !r.eof() {
		id, err := r.byte()
		if err != nil {
			return nil, errors.InvalidData(errors.PhaseParse, name, "truncated section header")
		}
		size, err := r.u32()
		if err != nil {
			return nil, errors.InvalidData(errors.PhaseParse, name, "truncated section header")
		}
		payload, err := r.bytes(int(size))
		if err != nil {
			return nil, errors.InvalidData(errors.PhaseParse, name, fmt.Sprintf("section %d exceeds object size", id))
		}
		pr := &reader{buf: payload}

		switch id {
		case secCustom:
			// Linking strips custom sections, including names.
		case secType:
			err = m.decodeTypes(pr)
		case secImport:
			err = m.decodeImports(pr)
		case secFunc:
			err = m.decodeFuncs(pr)
		case secTable:
			m.TableRaw = payload
		case secMemory:
			m.MemoryRaw = payload
		case secGlobal:
			err = m.decodeGlobals(pr)
		case secExport:
			err = m.decodeExports(pr)
		case secStart:
			err = m.decodeStart(pr)
		case secElem:
			err = m.decodeElems(pr)
		case secCode:
			err = m.decodeCode(pr)
		case secData:
			err = m.decodeData(pr)
		case secDataCount:
			m.HasDataCount = true
		default:
			return nil, errors.Unsupported(errors.PhaseParse, name, fmt.Sprintf("section id %d", id))
		}
		if err != nil {
			return nil, decodeErr(name, id, err)
		}
	}

	if len(m.Codes) != len(m.FuncTypeIdx) {
		return nil, errors.InvalidData(errors.PhaseParse, name, "function and code section counts differ")
	}
	return m, nil
}

func decodeErr(name string, section byte, err error) error {
	if qe, ok := err.(*errors.Error); ok {
		if qe.Object == "" {
			qe.Object = name
		}
		return qe
	}
	return errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err,
		fmt.Sprintf("malformed section %d in %s", section, name))
}

func (m *Module) decodeTypes(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		form, err := r.byte()
		if err != nil {
			return err
		}
		if form != 0x60 {
			return errors.Unsupported(errors.PhaseParse, "", fmt.Sprintf("type form 0x%02x", form))
		}
		params, err := r.valtypes()
		if err != nil {
			return err
		}
		results, err := r.valtypes()
		if err != nil {
			return err
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func (r *reader) valtypes() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	return r.bytes(int(n))
}

func (m *Module) decodeImports(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		mod, err := r.name()
		if err != nil {
			return err
		}
		field, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.byte()
		if err != nil {
			return err
		}
		imp := Import{Module: mod, Name: field, Kind: kind}
		switch kind {
		case KindFunc:
			if imp.TypeIndex, err = r.u32(); err != nil {
				return err
			}
		case KindGlobal:
			if imp.GlobalType, err = r.byte(); err != nil {
				return err
			}
			if imp.GlobalMut, err = r.byte(); err != nil {
				return err
			}
		case KindTable, KindMemory:
			return errors.Unsupported(errors.PhaseParse, "",
				fmt.Sprintf("%s import %s.%s", kindName(kind), mod, field))
		default:
			return errors.InvalidData(errors.PhaseParse, "", fmt.Sprintf("import kind 0x%02x", kind))
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func kindName(kind byte) string {
	switch kind {
	case KindFunc:
		return "function"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	}
	return "unknown"
}

func (m *Module) decodeFuncs(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, err := r.u32()
		if err != nil {
			return err
		}
		m.FuncTypeIdx = append(m.FuncTypeIdx, idx)
	}
	return nil
}

func (m *Module) decodeGlobals(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		typ, err := r.byte()
		if err != nil {
			return err
		}
		mut, err := r.byte()
		if err != nil {
			return err
		}
		init, err := scanExpr(r)
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, Global{Type: typ, Mut: mut, Init: init})
	}
	return nil
}

func (m *Module) decodeExports(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.byte()
		if err != nil {
			return err
		}
		idx, err := r.u32()
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: idx})
	}
	return nil
}

func (m *Module) decodeStart(r *reader) error {
	idx, err := r.u32()
	if err != nil {
		return err
	}
	m.Start = &idx
	return nil
}

func (m *Module) decodeElems(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		flag, err := r.u32()
		if err != nil {
			return err
		}
		if flag != 0 {
			return errors.Unsupported(errors.PhaseParse, "",
				fmt.Sprintf("element segment flag %d", flag))
		}
		offset, err := scanExpr(r)
		if err != nil {
			return err
		}
		n, err := r.u32()
		if err != nil {
			return err
		}
		funcs := make([]uint32, n)
		for j := range funcs {
			if funcs[j], err = r.u32(); err != nil {
				return err
			}
		}
		m.Elems = append(m.Elems, Elem{Offset: offset, Funcs: funcs})
	}
	return nil
}

func (m *Module) decodeCode(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		size, err := r.u32()
		if err != nil {
			return err
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return err
		}
		m.Codes = append(m.Codes, body)
	}
	return nil
}

func (m *Module) decodeData(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		start := r.pos
		flag, err := r.u32()
		if err != nil {
			return err
		}
		switch flag {
		case 0:
			if _, err := scanExpr(r); err != nil {
				return err
			}
		case 1:
			// passive; bytes follow directly
		default:
			return errors.Unsupported(errors.PhaseParse, "",
				fmt.Sprintf("data segment flag %d", flag))
		}
		n, err := r.u32()
		if err != nil {
			return err
		}
		if _, err := r.bytes(int(n)); err != nil {
			return err
		}
		m.Datas = append(m.Datas, r.buf[start:r.pos])
	}
	return nil
}
