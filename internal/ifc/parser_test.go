package ifc

import (
	"errors"
	"strings"
	"testing"

	"github.com/alexiusacademia/ifcfem/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `ISO-10303-21;
HEADER;
FILE_SCHEMA(('IFC2X3'));
ENDSEC;
DATA;
#1=IFCCARTESIANPOINT((1.,2.,3.));
#2=IFCPROPERTYSINGLEVALUE('Name',$,IFCLABEL('x'),$);
#3=IFCPOLYLINE((#1,#1));
#4=(IFCA(1)IFCB(#1));
ENDSEC;
END-ISO-10303-21;
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(minimal))
	require.NoError(t, err)

	assert.Equal(t, "IFC2X3", f.Schema())
	require.Len(t, f.Instances(), 4)

	t.Run("Instances keep file order", func(t *testing.T) {
		for i, inst := range f.Instances() {
			assert.Equal(t, i+1, inst.ID)
		}
	})

	t.Run("Typed values", func(t *testing.T) {
		inst, ok := f.Get(2)
		require.True(t, ok)
		typed, ok := inst.Arg(2).(Typed)
		require.True(t, ok)
		assert.Equal(t, "IFCLABEL", typed.Type)
		s, ok := inst.String(2)
		assert.True(t, ok)
		assert.Equal(t, "x", s)
		assert.True(t, inst.IsUnset(1))
		assert.True(t, inst.IsUnset(9), "Expected out of range parameters to read as unset")
	})

	t.Run("Inverse references are unique per instance", func(t *testing.T) {
		inv := f.Inverse(1)
		require.Len(t, inv, 2)
		assert.Equal(t, 3, inv[0].ID)
		assert.Equal(t, 4, inv[1].ID)
	})

	t.Run("ByType ignores case", func(t *testing.T) {
		assert.Len(t, f.ByType("IfcPolyline"), 1)
		assert.Empty(t, f.ByType("IfcBeam"))
	})

	t.Run("Complex instance", func(t *testing.T) {
		inst, ok := f.Get(4)
		require.True(t, ok)
		assert.Equal(t, "IFCA+IFCB", inst.Type)
		assert.Len(t, inst.Args, 2)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not step", "hello world"},
		{"no data section", "ISO-10303-21;\nHEADER;\nENDSEC;\nEND-ISO-10303-21;"},
		{"missing semicolon", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCA(1)\nENDSEC;"},
		{"duplicate id", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCA(1);\n#1=IFCB(2);\nENDSEC;"},
		{"bad parameter", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCA(=);\nENDSEC;"},
		{"lexer error", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCA('open);\nENDSEC;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var ffe *model.FileFormatError
			assert.True(t, errors.As(err, &ffe), "Expected FileFormatError, got %v", err)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := Open("../../testdata/missing.ifc")
		var ffe *model.FileFormatError
		require.ErrorAs(t, err, &ffe)
		assert.Equal(t, "../../testdata/missing.ifc", ffe.Path)
	})

	t.Run("Sample frame", func(t *testing.T) {
		f, err := Open("../../testdata/frame.ifc")
		require.NoError(t, err)
		assert.Equal(t, "IFC4", f.Schema())
		assert.Len(t, f.ByType("IFCCOLUMN"), 2)
		assert.Len(t, f.ByType("IFCBEAM"), 1)
	})
}

func TestParseReal(t *testing.T) {
	for in, want := range map[string]float64{"1.": 1, "1.E-3": 0.001, "-2.5E2": -250, "0.": 0} {
		got, err := parseReal(in)
		assert.NoError(t, err)
		assert.InDelta(t, want, got, 1e-12, in)
	}
}
