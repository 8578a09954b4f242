package model

import "fmt"

// FileFormatError means the source could not be read as IFC at all.
// It aborts the run.
type FileFormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FileFormatError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("file format error in %s at line %d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("file format error in %s: %v", e.Path, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("file format error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("file format error: %v", e.Err)
}

func (e *FileFormatError) Unwrap() error { return e.Err }

// GeometryError means one element's geometry could not be resolved.
// The element is excluded and the run continues.
type GeometryError struct {
	Source SourceRef
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error for %s: %s", e.Source, e.Reason)
}

// PropertyResolutionWarning records a property replaced by its default
type PropertyResolutionWarning struct {
	Source   SourceRef
	Property string
	Default  float64
	Reason   string
}

func (e *PropertyResolutionWarning) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Detail())
}

// Detail describes the warning without its source
func (e *PropertyResolutionWarning) Detail() string {
	if e.Reason != "" {
		return fmt.Sprintf("property %s %s, using %g", e.Property, e.Reason, e.Default)
	}
	return fmt.Sprintf("property %s missing, using default %g", e.Property, e.Default)
}

// InternalConsistencyError is a broken identifier reference or dependency
// order inside the mesh builder or emitter. It indicates a bug.
type InternalConsistencyError struct {
	Op     string
	Detail string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency error (%s): %s", e.Op, e.Detail)
}

// DataMismatchError means solver output does not line up with the model
type DataMismatchError struct {
	What     string
	Expected int
	Got      int
}

func (e *DataMismatchError) Error() string {
	return fmt.Sprintf("data mismatch in %s: expected %d, got %d", e.What, e.Expected, e.Got)
}
