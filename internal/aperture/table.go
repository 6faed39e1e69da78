package aperture

import (
	"fmt"
	"sort"
)

// FirstCode is the first aperture code allocated by a fresh Table
// (spec §4.2: "allocates the next free Dnnn code, starting at D10").
const FirstCode = 10

// Table is the global aperture table (GAT): a content-addressed dictionary
// from Dnn code to Shape, plus the reverse index needed for Find.
type Table struct {
	byCode  map[string]Shape
	byKey   map[string]string // content key -> code
	nextNum int
}

// NewTable constructs an empty GAT.
func NewTable() *Table {
	return &Table{
		byCode:  make(map[string]Shape),
		byKey:   make(map[string]string),
		nextNum: FirstCode,
	}
}

// Find returns the code already assigned to shape, if any.
func (t *Table) Find(shape Shape) (string, bool) {
	code, ok := t.byKey[shape.key()]
	return code, ok
}

// FindOrAdd returns the existing code for shape, or allocates and returns a
// new one.
func (t *Table) FindOrAdd(shape Shape) string {
	if code, ok := t.Find(shape); ok {
		return code
	}
	code := fmt.Sprintf("D%d", t.nextNum)
	t.nextNum++
	t.byCode[code] = shape
	t.byKey[shape.key()] = code
	return code
}

// Insert forces shape to be stored under an explicit code, used when
// importing a job's apertures as parsed (the parser may have already
// assigned codes that must be preserved verbatim). If an equal shape is
// already present under a different code, the existing code wins and is
// returned instead so the two jobs share one entry.
func (t *Table) Insert(code string, shape Shape) string {
	if existing, ok := t.Find(shape); ok {
		return existing
	}
	t.byCode[code] = shape
	t.byKey[shape.key()] = code
	if n := codeNumber(code); n >= t.nextNum {
		t.nextNum = n + 1
	}
	return code
}

// Get returns the definition stored under code.
func (t *Table) Get(code string) (Shape, bool) {
	s, ok := t.byCode[code]
	return s, ok
}

// GetAdjusted returns the shape stored under code with changed=false if it
// already meets minDim in every linear dimension, otherwise it returns a
// grown Shape with changed=true (not yet
// inserted into the table -- the caller is expected to FindOrAdd it, per
// spec §4.2: "get_adjusted... returns either 'already meets min_dim' or a
// new aperture...").
func (t *Table) GetAdjusted(code string, minDim float64) (shape Shape, changed bool, err error) {
	s, ok := t.Get(code)
	if !ok {
		return nil, false, fmt.Errorf("aperture: unknown code %q", code)
	}
	grown, ok := s.Grow(minDim)
	return grown, ok, nil
}

// Codes returns every allocated code in ascending key order (spec §4.7 and
// §5: "aperture and tool codes are emitted in ascending key order").
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.byCode))
	for c := range t.byCode {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codeNumber(codes[i]) < codeNumber(codes[j])
	})
	return codes
}

func codeNumber(code string) int {
	var n int
	fmt.Sscanf(code, "D%d", &n)
	return n
}

// MacroTable is the global aperture macro table (GAMT): a dictionary from
// macro name to its primitive definition. Macro bodies are opaque here
// (they are produced by the parser, which is out of scope); the table only
// manages naming and content-addressing of macros that are textually
// identical.
type MacroTable struct {
	byName map[string]string // name -> definition body (Gerber %AMxxx* primitives, newline-joined)
	byBody map[string]string // body -> name
}

// NewMacroTable constructs an empty GAMT.
func NewMacroTable() *MacroTable {
	return &MacroTable{byName: make(map[string]string), byBody: make(map[string]string)}
}

// FindOrAdd returns the name already bound to body, or binds name to body
// and returns name.
func (m *MacroTable) FindOrAdd(name, body string) string {
	if existing, ok := m.byBody[body]; ok {
		return existing
	}
	m.byName[name] = body
	m.byBody[body] = name
	return name
}

// Get returns the macro body bound to name.
func (m *MacroTable) Get(name string) (string, bool) {
	b, ok := m.byName[name]
	return b, ok
}

// Names returns every macro name in ascending lexical order.
func (m *MacroTable) Names() []string {
	names := make([]string, 0, len(m.byName))
	for n := range m.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
