package wasm

// Encode serializes the module back into wasm binary form. Sections appear
// in canonical order; empty sections are omitted.
func Encode(m *Module) []byte {
	out := append([]byte(nil), magic...)

	if len(m.Types) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Types)))
		for _, t := range m.Types {
			p = append(p, 0x60)
			p = appendU32(p, uint32(len(t.Params)))
			p = append(p, t.Params...)
			p = appendU32(p, uint32(len(t.Results)))
			p = append(p, t.Results...)
		}
		out = appendSection(out, secType, p)
	}

	if len(m.Imports) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			p = appendName(p, imp.Module)
			p = appendName(p, imp.Name)
			p = append(p, imp.Kind)
			switch imp.Kind {
			case KindFunc:
				p = appendU32(p, imp.TypeIndex)
			case KindGlobal:
				p = append(p, imp.GlobalType, imp.GlobalMut)
			}
		}
		out = appendSection(out, secImport, p)
	}

	if len(m.FuncTypeIdx) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.FuncTypeIdx)))
		for _, idx := range m.FuncTypeIdx {
			p = appendU32(p, idx)
		}
		out = appendSection(out, secFunc, p)
	}

	if m.TableRaw != nil {
		out = appendSection(out, secTable, m.TableRaw)
	}
	if m.MemoryRaw != nil {
		out = appendSection(out, secMemory, m.MemoryRaw)
	}

	if len(m.Globals) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Globals)))
		for _, g := range m.Globals {
			p = append(p, g.Type, g.Mut)
			p = append(p, g.Init...)
		}
		out = appendSection(out, secGlobal, p)
	}

	if len(m.Exports) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Exports)))
		for _, e := range m.Exports {
			p = appendName(p, e.Name)
			p = append(p, e.Kind)
			p = appendU32(p, e.Index)
		}
		out = appendSection(out, secExport, p)
	}

	if m.Start != nil {
		var p []byte
		p = appendU32(p, *m.Start)
		out = appendSection(out, secStart, p)
	}

	if len(m.Elems) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Elems)))
		for _, e := range m.Elems {
			p = appendU32(p, 0) // MVP active segment, table 0
			p = append(p, e.Offset...)
			p = appendU32(p, uint32(len(e.Funcs)))
			for _, f := range e.Funcs {
				p = appendU32(p, f)
			}
		}
		out = appendSection(out, secElem, p)
	}

	// memory.init and data.drop require the section even with zero segments.
	if m.HasDataCount {
		var p []byte
		p = appendU32(p, uint32(len(m.Datas)))
		out = appendSection(out, secDataCount, p)
	}

	if len(m.Codes) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Codes)))
		for _, body := range m.Codes {
			p = appendU32(p, uint32(len(body)))
			p = append(p, body...)
		}
		out = appendSection(out, secCode, p)
	}

	if len(m.Datas) > 0 {
		var p []byte
		p = appendU32(p, uint32(len(m.Datas)))
		for _, d := range m.Datas {
			p = append(p, d...)
		}
		out = appendSection(out, secData, p)
	}

	return out
}
