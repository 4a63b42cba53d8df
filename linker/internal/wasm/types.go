package wasm

// Section ids per the wasm binary format.
const (
	secCustom    = 0
	secType      = 1
	secImport    = 2
	secFunc      = 3
	secTable     = 4
	secMemory    = 5
	secGlobal    = 6
	secExport    = 7
	secStart     = 8
	secElem      = 9
	secCode      = 10
	secData      = 11
	secDataCount = 12
)

// External kinds for imports and exports.
const (
	KindFunc   byte = 0x00
	KindTable  byte = 0x01
	KindMemory byte = 0x02
	KindGlobal byte = 0x03
)

var magic = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// FuncType is a function signature: parameter and result value types, one
// byte each in wasm encoding.
type FuncType struct {
	Params  []byte
	Results []byte
}

// key returns a comparable signature identity used for deduplication.
func (t FuncType) key() string {
	return string(t.Params) + "\x00" + string(t.Results)
}

// Import is one function or global import. Table and memory imports are
// rejected at decode time.
type Import struct {
	Module string
	Name   string
	Kind   byte

	TypeIndex uint32 // functions: index into the module's type section

	GlobalType byte // globals: value type
	GlobalMut  byte // globals: mutability flag
}

// Global is one defined global: its type and raw init expression
// (terminated by end).
type Global struct {
	Type byte
	Mut  byte
	Init []byte
}

// Export is one exported symbol. Index is in the module's combined
// (imports-first) index space for its kind.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// Elem is one active element segment in MVP encoding: an offset expression
// and a list of function indices.
type Elem struct {
	Offset []byte
	Funcs  []uint32
}

// Module is the section-level view of one wasm object.
type Module struct {
	Name string // input path, for diagnostics

	Types       []FuncType
	Imports     []Import
	FuncTypeIdx []uint32 // type index of each defined function

	TableRaw  []byte // raw table section payload, nil when absent
	MemoryRaw []byte // raw memory section payload, nil when absent

	Globals []Global
	Exports []Export
	Start   *uint32
	Elems   []Elem
	Codes   [][]byte // locals + expr per defined function
	Datas   [][]byte // raw data segment bytes

	HasDataCount bool
}

// NumFuncImports returns the number of function imports.
func (m *Module) NumFuncImports() uint32 {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Kind == KindFunc {
			n++
		}
	}
	return n
}

// NumGlobalImports returns the number of global imports.
func (m *Module) NumGlobalImports() uint32 {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Kind == KindGlobal {
			n++
		}
	}
	return n
}
