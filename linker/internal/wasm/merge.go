package wasm

import (
	"fmt"

	"github.com/qir-alliance/qirlib/errors"
)

// sym is one exported symbol in the global symbol table.
type sym struct {
	mod   int
	kind  byte
	index uint32
}

// importRes records how one function or global import resolves: either to a
// definition in another input, or to a surviving import in the output.
type importRes struct {
	resolved  bool
	targetMod int
	targetIdx uint32
	keptIdx   uint32
}

// Link merges the decoded objects into a single module. Inputs are processed
// in order; the result owns no memory of the inputs' custom sections.
func Link(mods []*Module) (*Module, error) {
	if len(mods) == 0 {
		return nil, errors.InvalidData(errors.PhaseLink, "", "no input objects")
	}

	exports, err := buildSymbolTable(mods)
	if err != nil {
		return nil, err
	}

	merged := &Module{Name: "<linked>"}

	// Deduplicate type signatures across all inputs.
	typeRemap := make([][]uint32, len(mods))
	typeIndex := make(map[string]uint32)
	for i, m := range mods {
		typeRemap[i] = make([]uint32, len(m.Types))
		for ti, t := range m.Types {
			k := t.key()
			idx, ok := typeIndex[k]
			if !ok {
				idx = uint32(len(merged.Types))
				merged.Types = append(merged.Types, t)
				typeIndex[k] = idx
			}
			typeRemap[i][ti] = idx
		}
	}

	// Per-kind import lists preserve each module's per-kind index order.
	funcImports := make([][]Import, len(mods))
	globalImports := make([][]Import, len(mods))
	for i, m := range mods {
		for _, imp := range m.Imports {
			switch imp.Kind {
			case KindFunc:
				funcImports[i] = append(funcImports[i], imp)
			case KindGlobal:
				globalImports[i] = append(globalImports[i], imp)
			}
		}
	}

	funcRes, keptFuncs, err := resolveFuncImports(mods, funcImports, typeRemap, exports)
	if err != nil {
		return nil, err
	}
	globalRes, keptGlobals, err := resolveGlobalImports(mods, globalImports, exports)
	if err != nil {
		return nil, err
	}

	// Final index assignment: surviving imports first, then definitions in
	// input order.
	defFuncBase := make([]uint32, len(mods))
	next := uint32(len(keptFuncs))
	for i, m := range mods {
		defFuncBase[i] = next
		next += uint32(len(m.FuncTypeIdx))
	}
	defGlobalBase := make([]uint32, len(mods))
	next = uint32(len(keptGlobals))
	for i, m := range mods {
		defGlobalBase[i] = next
		next += uint32(len(m.Globals))
	}

	funcRemap, err := finalIndexes(mods, funcRes, defFuncBase, funcCount, "function")
	if err != nil {
		return nil, err
	}
	globalRemap, err := finalIndexes(mods, globalRes, defGlobalBase, globalCount, "global")
	if err != nil {
		return nil, err
	}

	merged.Imports = append(merged.Imports, keptFuncs...)
	merged.Imports = append(merged.Imports, keptGlobals...)

	remaps := make([]*remap, len(mods))
	for i := range mods {
		remaps[i] = &remap{funcs: funcRemap[i], globals: globalRemap[i], types: typeRemap[i]}
	}

	if err := mergeSingletons(merged, mods, remaps); err != nil {
		return nil, err
	}

	for i, m := range mods {
		for _, ti := range m.FuncTypeIdx {
			nt, err := remaps[i].typ(ti)
			if err != nil {
				return nil, objectErr(err, m.Name)
			}
			merged.FuncTypeIdx = append(merged.FuncTypeIdx, nt)
		}
		for _, body := range m.Codes {
			nb, err := rewriteCode(body, remaps[i])
			if err != nil {
				return nil, objectErr(err, m.Name)
			}
			merged.Codes = append(merged.Codes, nb)
		}
		for _, g := range m.Globals {
			r := &reader{buf: g.Init}
			init, err := rewriteExpr(r, nil, remaps[i])
			if err != nil {
				return nil, objectErr(err, m.Name)
			}
			merged.Globals = append(merged.Globals, Global{Type: g.Type, Mut: g.Mut, Init: init})
		}
		for _, e := range m.Exports {
			ne := e
			switch e.Kind {
			case KindFunc:
				if ne.Index, err = remaps[i].fn(e.Index); err != nil {
					return nil, objectErr(err, m.Name)
				}
			case KindGlobal:
				if ne.Index, err = remaps[i].global(e.Index); err != nil {
					return nil, objectErr(err, m.Name)
				}
			}
			merged.Exports = append(merged.Exports, ne)
		}
	}

	return merged, nil
}

func buildSymbolTable(mods []*Module) (map[string]sym, error) {
	exports := make(map[string]sym)
	for i, m := range mods {
		for _, e := range m.Exports {
			if prev, ok := exports[e.Name]; ok {
				return nil, errors.DuplicateSymbol(e.Name, mods[prev.mod].Name, m.Name)
			}
			exports[e.Name] = sym{mod: i, kind: e.Kind, index: e.Index}
		}
	}
	return exports, nil
}

func resolveFuncImports(mods []*Module, funcImports [][]Import, typeRemap [][]uint32,
	exports map[string]sym) ([][]importRes, []Import, error) {

	res := make([][]importRes, len(mods))
	var kept []Import
	keptIdx := make(map[string]uint32)

	for i, m := range mods {
		for _, imp := range funcImports[i] {
			impType, err := lookup(typeRemap[i], imp.TypeIndex, "type")
			if err != nil {
				return nil, nil, objectErr(err, m.Name)
			}

			if s, ok := exports[imp.Name]; ok {
				if s.kind != KindFunc {
					return nil, nil, errors.Conflict(errors.PhaseLink, imp.Name,
						fmt.Sprintf("imported as a function by %s but exported as a %s by %s",
							m.Name, kindName(s.kind), mods[s.mod].Name))
				}
				expType, err := funcTypeAt(mods[s.mod], funcImports[s.mod], typeRemap[s.mod], s.index)
				if err != nil {
					return nil, nil, objectErr(err, mods[s.mod].Name)
				}
				if impType != expType {
					return nil, nil, errors.Conflict(errors.PhaseLink, imp.Name,
						fmt.Sprintf("signature mismatch between %s and %s", m.Name, mods[s.mod].Name))
				}
				res[i] = append(res[i], importRes{resolved: true, targetMod: s.mod, targetIdx: s.index})
				continue
			}

			key := imp.Module + "\x00" + imp.Name
			if fi, ok := keptIdx[key]; ok {
				if kept[fi].TypeIndex != impType {
					return nil, nil, errors.Conflict(errors.PhaseLink, imp.Name,
						"imported with different signatures")
				}
				res[i] = append(res[i], importRes{keptIdx: fi})
				continue
			}
			ki := imp
			ki.TypeIndex = impType
			fi := uint32(len(kept))
			kept = append(kept, ki)
			keptIdx[key] = fi
			res[i] = append(res[i], importRes{keptIdx: fi})
		}
	}
	return res, kept, nil
}

func resolveGlobalImports(mods []*Module, globalImports [][]Import,
	exports map[string]sym) ([][]importRes, []Import, error) {

	res := make([][]importRes, len(mods))
	var kept []Import
	keptIdx := make(map[string]uint32)

	for i, m := range mods {
		for _, imp := range globalImports[i] {
			if s, ok := exports[imp.Name]; ok {
				if s.kind != KindGlobal {
					return nil, nil, errors.Conflict(errors.PhaseLink, imp.Name,
						fmt.Sprintf("imported as a global by %s but exported as a %s by %s",
							m.Name, kindName(s.kind), mods[s.mod].Name))
				}
				typ, mut, err := globalTypeAt(mods[s.mod], globalImports[s.mod], s.index)
				if err != nil {
					return nil, nil, objectErr(err, mods[s.mod].Name)
				}
				if typ != imp.GlobalType || mut != imp.GlobalMut {
					return nil, nil, errors.Conflict(errors.PhaseLink, imp.Name,
						fmt.Sprintf("global type mismatch between %s and %s", m.Name, mods[s.mod].Name))
				}
				res[i] = append(res[i], importRes{resolved: true, targetMod: s.mod, targetIdx: s.index})
				continue
			}

			key := imp.Module + "\x00" + imp.Name
			if gi, ok := keptIdx[key]; ok {
				if kept[gi].GlobalType != imp.GlobalType || kept[gi].GlobalMut != imp.GlobalMut {
					return nil, nil, errors.Conflict(errors.PhaseLink, imp.Name,
						"imported with different global types")
				}
				res[i] = append(res[i], importRes{keptIdx: gi})
				continue
			}
			gi := uint32(len(kept))
			kept = append(kept, imp)
			keptIdx[key] = gi
			res[i] = append(res[i], importRes{keptIdx: gi})
		}
	}
	return res, kept, nil
}

func funcCount(m *Module) int   { return len(m.FuncTypeIdx) }
func globalCount(m *Module) int { return len(m.Globals) }

// finalIndexes builds full old-to-new index tables for one index space,
// chasing imports resolved to re-exported imports and rejecting cycles.
func finalIndexes(mods []*Module, res [][]importRes, defBase []uint32,
	count func(*Module) int, space string) ([][]uint32, error) {

	type slot struct {
		mod int
		idx uint32
	}

	var resolve func(mod int, old uint32, seen map[slot]bool) (uint32, error)
	resolve = func(mod int, old uint32, seen map[slot]bool) (uint32, error) {
		nImp := uint32(len(res[mod]))
		if old >= nImp {
			d := old - nImp
			if int(d) >= count(mods[mod]) {
				return 0, errors.InvalidData(errors.PhaseLink, mods[mod].Name,
					fmt.Sprintf("%s index %d out of range", space, old))
			}
			return defBase[mod] + d, nil
		}
		r := res[mod][old]
		if !r.resolved {
			return r.keptIdx, nil
		}
		s := slot{mod: mod, idx: old}
		if seen[s] {
			return 0, errors.Conflict(errors.PhaseLink, "",
				fmt.Sprintf("%s import resolution cycle in %s", space, mods[mod].Name))
		}
		seen[s] = true
		return resolve(r.targetMod, r.targetIdx, seen)
	}

	tables := make([][]uint32, len(mods))
	for i, m := range mods {
		n := len(res[i]) + count(m)
		tables[i] = make([]uint32, n)
		for old := 0; old < n; old++ {
			v, err := resolve(i, uint32(old), make(map[slot]bool))
			if err != nil {
				return nil, err
			}
			tables[i][old] = v
		}
	}
	return tables, nil
}

// funcTypeAt returns the merged type index of the function at old combined
// index in m.
func funcTypeAt(m *Module, imps []Import, typeRemap []uint32, old uint32) (uint32, error) {
	if old < uint32(len(imps)) {
		return lookup(typeRemap, imps[old].TypeIndex, "type")
	}
	d := int(old) - len(imps)
	if d >= len(m.FuncTypeIdx) {
		return 0, errors.InvalidData(errors.PhaseLink, m.Name,
			fmt.Sprintf("function index %d out of range", old))
	}
	return lookup(typeRemap, m.FuncTypeIdx[d], "type")
}

func globalTypeAt(m *Module, imps []Import, old uint32) (typ, mut byte, err error) {
	if old < uint32(len(imps)) {
		return imps[old].GlobalType, imps[old].GlobalMut, nil
	}
	d := int(old) - len(imps)
	if d >= len(m.Globals) {
		return 0, 0, errors.InvalidData(errors.PhaseLink, m.Name,
			fmt.Sprintf("global index %d out of range", old))
	}
	return m.Globals[d].Type, m.Globals[d].Mut, nil
}

// mergeSingletons carries over the sections only one input may own: memory,
// table, start, element and data segments.
func mergeSingletons(merged *Module, mods []*Module, remaps []*remap) error {
	single := func(what string, has func(*Module) bool) (int, error) {
		owner := -1
		for i, m := range mods {
			if !has(m) {
				continue
			}
			if owner >= 0 {
				return 0, errors.Conflict(errors.PhaseLink, what,
					fmt.Sprintf("defined by both %s and %s", mods[owner].Name, m.Name))
			}
			owner = i
		}
		return owner, nil
	}

	memMod, err := single("memory", func(m *Module) bool { return m.MemoryRaw != nil })
	if err != nil {
		return err
	}
	if memMod >= 0 {
		merged.MemoryRaw = mods[memMod].MemoryRaw
	}

	tblMod, err := single("table", func(m *Module) bool { return m.TableRaw != nil })
	if err != nil {
		return err
	}
	if tblMod >= 0 {
		merged.TableRaw = mods[tblMod].TableRaw
	}

	elemMod, err := single("element segments", func(m *Module) bool { return len(m.Elems) > 0 })
	if err != nil {
		return err
	}
	if elemMod >= 0 {
		if elemMod != tblMod {
			return errors.InvalidData(errors.PhaseLink, mods[elemMod].Name,
				"element segments without a table definition")
		}
		for _, e := range mods[elemMod].Elems {
			r := &reader{buf: e.Offset}
			offset, err := rewriteExpr(r, nil, remaps[elemMod])
			if err != nil {
				return objectErr(err, mods[elemMod].Name)
			}
			funcs := make([]uint32, len(e.Funcs))
			for j, f := range e.Funcs {
				if funcs[j], err = remaps[elemMod].fn(f); err != nil {
					return objectErr(err, mods[elemMod].Name)
				}
			}
			merged.Elems = append(merged.Elems, Elem{Offset: offset, Funcs: funcs})
		}
	}

	dataMod, err := single("data segments", func(m *Module) bool { return len(m.Datas) > 0 })
	if err != nil {
		return err
	}
	if dataMod >= 0 {
		for _, d := range mods[dataMod].Datas {
			nd, err := rewriteData(d, remaps[dataMod])
			if err != nil {
				return objectErr(err, mods[dataMod].Name)
			}
			merged.Datas = append(merged.Datas, nd)
		}
	}
	for _, m := range mods {
		if m.HasDataCount {
			merged.HasDataCount = true
			break
		}
	}

	startMod, err := single("start function", func(m *Module) bool { return m.Start != nil })
	if err != nil {
		return err
	}
	if startMod >= 0 {
		idx, err := remaps[startMod].fn(*mods[startMod].Start)
		if err != nil {
			return objectErr(err, mods[startMod].Name)
		}
		merged.Start = &idx
	}

	return nil
}

// rewriteData re-encodes one data segment, remapping the globals an active
// segment's offset expression may reference.
func rewriteData(raw []byte, rm *remap) ([]byte, error) {
	r := &reader{buf: raw}
	flag, err := r.u32()
	if err != nil {
		return nil, err
	}
	out := appendU32(nil, flag)
	if flag == 0 {
		if out, err = rewriteExpr(r, out, rm); err != nil {
			return nil, err
		}
	}
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	payload, err := r.bytes(int(n))
	if err != nil {
		return nil, err
	}
	out = appendU32(out, n)
	return append(out, payload...), nil
}

// objectErr attributes an error to the input it came from.
func objectErr(err error, object string) error {
	if qe, ok := err.(*errors.Error); ok && qe.Object == "" {
		qe.Object = object
	}
	return err
}
