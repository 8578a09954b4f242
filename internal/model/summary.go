package model

import "fmt"

// Warning is a non-fatal problem recorded during a run
type Warning struct {
	Stage   string `json:"stage"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Source == "" {
		return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Stage, w.Source, w.Message)
}

// Summary aggregates element-level outcomes across stages
type Summary struct {
	Extracted  int       `json:"extracted"`
	Converted  int       `json:"converted"`
	Skipped    int       `json:"skipped"`
	Defaults   int       `json:"defaults"`
	Supports   int       `json:"supports"`
	LengthUnit string    `json:"length_unit,omitempty"`
	Warnings   []Warning `json:"warnings,omitempty"`
}

// Warn appends a warning
func (s *Summary) Warn(stage, source, format string, args ...any) {
	s.Warnings = append(s.Warnings, Warning{Stage: stage, Source: source, Message: fmt.Sprintf(format, args...)})
}

// Merge adds the counters and warnings of o into s
func (s *Summary) Merge(o Summary) {
	s.Extracted += o.Extracted
	s.Converted += o.Converted
	s.Skipped += o.Skipped
	s.Defaults += o.Defaults
	s.Supports += o.Supports
	if s.LengthUnit == "" {
		s.LengthUnit = o.LengthUnit
	}
	s.Warnings = append(s.Warnings, o.Warnings...)
}
