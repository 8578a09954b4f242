package ifc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/model"
)

// Model is the read-only view of an IFC instance graph used by the
// extractor. Instances are returned in file order.
type Model interface {
	Schema() string
	Instances() []*Instance
	ByType(typ string) []*Instance
	Get(id int) (*Instance, bool)
	Inverse(id int) []*Instance
}

// Instance is one entity instance. Type is upper case.
type Instance struct {
	ID   int
	Type string
	Args List
	Line int
}

// Is reports whether the instance has one of the given types, ignoring case
func (i *Instance) Is(types ...string) bool {
	for _, t := range types {
		if strings.EqualFold(i.Type, t) {
			return true
		}
	}
	return false
}

// Arg returns parameter n, or nil when out of range
func (i *Instance) Arg(n int) Value {
	if n < 0 || n >= len(i.Args) {
		return nil
	}
	return i.Args[n]
}

// Ref returns parameter n as an instance reference
func (i *Instance) Ref(n int) (int, bool) { return AsRef(i.Arg(n)) }

// Float returns parameter n as a number
func (i *Instance) Float(n int) (float64, bool) { return AsFloat(i.Arg(n)) }

// Int returns parameter n as an integer
func (i *Instance) Int(n int) (int, bool) { return AsInt(i.Arg(n)) }

// String returns parameter n as a string
func (i *Instance) String(n int) (string, bool) { return AsString(i.Arg(n)) }

// Enum returns parameter n as an enumeration
func (i *Instance) Enum(n int) (string, bool) { return AsEnum(i.Arg(n)) }

// List returns parameter n as an aggregate
func (i *Instance) List(n int) (List, bool) { return AsList(i.Arg(n)) }

// IsUnset reports whether parameter n is $ or missing
func (i *Instance) IsUnset(n int) bool { return IsUnset(i.Arg(n)) }

// Refs returns the references held in aggregate parameter n
func (i *Instance) Refs(n int) []int {
	l, ok := i.List(n)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(l))
	for _, v := range l {
		if id, ok := AsRef(v); ok {
			out = append(out, id)
		}
	}
	return out
}

// File is a parsed exchange file
type File struct {
	Path      string
	Header    map[string]List
	instances []*Instance
	byID      map[int]*Instance
	byType    map[string][]*Instance
	inverse   map[int][]*Instance
}

func newFile() *File {
	return &File{
		Header: make(map[string]List),
		byID:   make(map[int]*Instance),
	}
}

func (f *File) add(inst *Instance) {
	f.instances = append(f.instances, inst)
	f.byID[inst.ID] = inst
}

// index builds the type and inverse reference tables
func (f *File) index() {
	f.byType = make(map[string][]*Instance)
	f.inverse = make(map[int][]*Instance)
	for _, inst := range f.instances {
		f.byType[inst.Type] = append(f.byType[inst.Type], inst)
		seen := make(map[int]bool)
		collectRefs(inst.Args, func(id int) {
			if seen[id] {
				return
			}
			seen[id] = true
			f.inverse[id] = append(f.inverse[id], inst)
		})
	}
}

func collectRefs(v Value, fn func(int)) {
	switch t := v.(type) {
	case Ref:
		fn(int(t))
	case List:
		for _, e := range t {
			collectRefs(e, fn)
		}
	case Typed:
		collectRefs(t.Value, fn)
	}
}

// Schema returns the first schema named in FILE_SCHEMA, upper case
func (f *File) Schema() string {
	args, ok := f.Header["FILE_SCHEMA"]
	if !ok || len(args) == 0 {
		return ""
	}
	l, ok := AsList(args[0])
	if !ok || len(l) == 0 {
		return ""
	}
	s, _ := AsString(l[0])
	return strings.ToUpper(s)
}

// Instances returns all instances in file order
func (f *File) Instances() []*Instance {
	return f.instances
}

// ByType returns the instances of one entity type in file order
func (f *File) ByType(typ string) []*Instance {
	return f.byType[strings.ToUpper(typ)]
}

// Get returns an instance by id
func (f *File) Get(id int) (*Instance, bool) {
	inst, ok := f.byID[id]
	return inst, ok
}

// Inverse returns the instances referencing id, in file order
func (f *File) Inverse(id int) []*Instance {
	return f.inverse[id]
}

// Parse reads an exchange file from r
func Parse(r io.Reader) (*File, error) {
	return NewParser(r).Parse()
}

// Open reads and parses an IFC file
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &model.FileFormatError{Path: path, Err: err}
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		var ffe *model.FileFormatError
		if errors.As(err, &ffe) {
			ffe.Path = path
			return nil, ffe
		}
		return nil, &model.FileFormatError{Path: path, Err: err}
	}
	f.Path = path
	return f, nil
}

// Resolve follows a reference value to its instance
func Resolve(m Model, v Value) (*Instance, error) {
	id, ok := AsRef(v)
	if !ok {
		return nil, fmt.Errorf("expected reference, got %s", Format(v))
	}
	inst, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("dangling reference #%d", id)
	}
	return inst, nil
}
