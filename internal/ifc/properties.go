package ifc

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/model"
)

// PropertySets returns the properties and quantities attached to an object,
// occurrence sets first and then those of its type object
func PropertySets(m Model, id int) ([]model.Property, error) {
	var props []model.Property
	var typeProps []model.Property

	for _, rel := range m.Inverse(id) {
		switch rel.Type {
		case "IFCRELDEFINESBYPROPERTIES":
			if !containsRef(rel.Refs(4), id) {
				continue
			}
			def, err := Resolve(m, rel.Arg(5))
			if err != nil {
				return nil, fmt.Errorf("#%d relating definition: %w", rel.ID, err)
			}
			p, err := propertyDefinition(m, def)
			if err != nil {
				return nil, err
			}
			props = append(props, p...)
		case "IFCRELDEFINESBYTYPE":
			if !containsRef(rel.Refs(4), id) {
				continue
			}
			typ, err := Resolve(m, rel.Arg(5))
			if err != nil {
				return nil, fmt.Errorf("#%d relating type: %w", rel.ID, err)
			}
			for _, sid := range typ.Refs(5) {
				def, ok := m.Get(sid)
				if !ok {
					return nil, fmt.Errorf("dangling reference #%d", sid)
				}
				p, err := propertyDefinition(m, def)
				if err != nil {
					return nil, err
				}
				typeProps = append(typeProps, p...)
			}
		}
	}
	return append(props, typeProps...), nil
}

// propertyDefinition flattens an IfcPropertySet or IfcElementQuantity
func propertyDefinition(m Model, def *Instance) ([]model.Property, error) {
	setName, _ := def.String(2)
	switch def.Type {
	case "IFCPROPERTYSET":
		return singleValues(m, setName, def.Refs(4))
	case "IFCELEMENTQUANTITY":
		var out []model.Property
		for _, qid := range def.Refs(5) {
			q, ok := m.Get(qid)
			if !ok {
				return nil, fmt.Errorf("dangling reference #%d", qid)
			}
			if !q.Is("IFCQUANTITYLENGTH", "IFCQUANTITYAREA", "IFCQUANTITYVOLUME", "IFCQUANTITYWEIGHT", "IFCQUANTITYCOUNT") {
				continue
			}
			name, _ := q.String(0)
			v, ok := q.Float(3)
			out = append(out, model.Property{Set: setName, Name: name, Value: v, Numeric: ok})
		}
		return out, nil
	}
	return nil, nil
}

// singleValues decodes IfcPropertySingleValue entries
func singleValues(m Model, setName string, ids []int) ([]model.Property, error) {
	var out []model.Property
	for _, pid := range ids {
		p, ok := m.Get(pid)
		if !ok {
			return nil, fmt.Errorf("dangling reference #%d", pid)
		}
		if !p.Is("IFCPROPERTYSINGLEVALUE") {
			continue
		}
		name, _ := p.String(0)
		out = append(out, nominalValue(setName, name, p.Arg(2)))
	}
	return out, nil
}

func nominalValue(setName, name string, v Value) model.Property {
	prop := model.Property{Set: setName, Name: name}
	if f, ok := AsFloat(v); ok {
		prop.Value = f
		prop.Numeric = true
		return prop
	}
	if s, ok := AsString(v); ok {
		prop.Text = s
		return prop
	}
	if e, ok := AsEnum(v); ok {
		prop.Text = e
	}
	return prop
}

func containsRef(ids []int, id int) bool {
	for _, r := range ids {
		if r == id {
			return true
		}
	}
	return false
}

// Materials returns the materials associated with an object
func Materials(m Model, id int) ([]model.MaterialRef, error) {
	var out []model.MaterialRef
	for _, rel := range m.Inverse(id) {
		if rel.Type != "IFCRELASSOCIATESMATERIAL" || !containsRef(rel.Refs(4), id) {
			continue
		}
		def, err := Resolve(m, rel.Arg(5))
		if err != nil {
			return nil, fmt.Errorf("#%d relating material: %w", rel.ID, err)
		}
		refs, err := materialSelect(m, def, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, refs...)
	}
	return out, nil
}

func materialSelect(m Model, def *Instance, depth int) ([]model.MaterialRef, error) {
	if depth > 8 {
		return nil, fmt.Errorf("#%d: material definition nesting too deep", def.ID)
	}
	follow := func(v Value) ([]model.MaterialRef, error) {
		inst, err := Resolve(m, v)
		if err != nil {
			return nil, fmt.Errorf("#%d: %w", def.ID, err)
		}
		return materialSelect(m, inst, depth+1)
	}

	switch def.Type {
	case "IFCMATERIAL":
		ref, err := material(m, def)
		if err != nil {
			return nil, err
		}
		return []model.MaterialRef{ref}, nil
	case "IFCMATERIALLIST":
		var out []model.MaterialRef
		for _, mid := range def.Refs(0) {
			refs, err := follow(Ref(mid))
			if err != nil {
				return nil, err
			}
			out = append(out, refs...)
		}
		return out, nil
	case "IFCMATERIALLAYERSETUSAGE", "IFCMATERIALPROFILESETUSAGE", "IFCMATERIALPROFILESETUSAGETAPERING":
		return follow(def.Arg(0))
	case "IFCMATERIALLAYERSET":
		var out []model.MaterialRef
		for _, lid := range def.Refs(0) {
			refs, err := follow(Ref(lid))
			if err != nil {
				return nil, err
			}
			out = append(out, refs...)
		}
		return out, nil
	case "IFCMATERIALLAYER", "IFCMATERIALLAYERWITHOFFSETS":
		if def.IsUnset(0) {
			return nil, nil
		}
		refs, err := follow(def.Arg(0))
		if err != nil {
			return nil, err
		}
		thickness, _ := def.Float(1)
		for i := range refs {
			refs[i].LayerThickness = thickness
		}
		return refs, nil
	case "IFCMATERIALPROFILESET":
		var out []model.MaterialRef
		for _, pid := range def.Refs(2) {
			refs, err := follow(Ref(pid))
			if err != nil {
				return nil, err
			}
			out = append(out, refs...)
		}
		return out, nil
	case "IFCMATERIALCONSTITUENTSET":
		var out []model.MaterialRef
		for _, cid := range def.Refs(2) {
			refs, err := follow(Ref(cid))
			if err != nil {
				return nil, err
			}
			out = append(out, refs...)
		}
		return out, nil
	case "IFCMATERIALPROFILE", "IFCMATERIALPROFILEWITHOFFSETS", "IFCMATERIALCONSTITUENT":
		if def.IsUnset(2) {
			return nil, nil
		}
		return follow(def.Arg(2))
	}
	return nil, nil
}

// material decodes an IfcMaterial with the property sets that point at it
func material(m Model, mat *Instance) (model.MaterialRef, error) {
	ref := model.MaterialRef{}
	ref.Name, _ = mat.String(0)
	ref.Category, _ = mat.String(2)

	for _, inst := range m.Inverse(mat.ID) {
		switch inst.Type {
		case "IFCMATERIALPROPERTIES":
			if id, ok := inst.Ref(3); !ok || id != mat.ID {
				continue
			}
			setName, _ := inst.String(0)
			props, err := singleValues(m, setName, inst.Refs(2))
			if err != nil {
				return ref, err
			}
			ref.Properties = append(ref.Properties, props...)
		case "IFCEXTENDEDMATERIALPROPERTIES":
			setName, _ := inst.String(3)
			props, err := singleValues(m, setName, inst.Refs(1))
			if err != nil {
				return ref, err
			}
			ref.Properties = append(ref.Properties, props...)
		case "IFCMECHANICALMATERIALPROPERTIES", "IFCMECHANICALSTEELMATERIALPROPERTIES", "IFCMECHANICALCONCRETEMATERIALPROPERTIES":
			ref.Properties = append(ref.Properties, fixedProperties(inst, "Pset_MaterialMechanical", map[int]string{
				2: "YoungModulus",
				3: "ShearModulus",
				4: "PoissonRatio",
			})...)
		case "IFCGENERALMATERIALPROPERTIES":
			ref.Properties = append(ref.Properties, fixedProperties(inst, "Pset_MaterialCommon", map[int]string{
				3: "MassDensity",
			})...)
		}
	}
	return ref, nil
}

// fixedProperties reads positional IFC2x3 material attributes
func fixedProperties(inst *Instance, set string, names map[int]string) []model.Property {
	var out []model.Property
	for _, idx := range []int{2, 3, 4} {
		name, ok := names[idx]
		if !ok {
			continue
		}
		if v, ok := inst.Float(idx); ok {
			out = append(out, model.Property{Set: set, Name: name, Value: v, Numeric: true})
		}
	}
	return out
}

// siPrefixes scales SI units to the base unit
var siPrefixes = map[string]float64{
	"EXA": 1e18, "PETA": 1e15, "TERA": 1e12, "GIGA": 1e9, "MEGA": 1e6, "KILO": 1e3,
	"HECTO": 1e2, "DECA": 1e1, "DECI": 1e-1, "CENTI": 1e-2, "MILLI": 1e-3,
	"MICRO": 1e-6, "NANO": 1e-9, "PICO": 1e-12, "FEMTO": 1e-15, "ATTO": 1e-18,
}

// LengthUnit returns the project length unit name and its size in metres.
// An undeclared unit is reported as metres.
func LengthUnit(m Model) (string, float64) {
	for _, project := range m.ByType("IFCPROJECT") {
		ua, err := Resolve(m, project.Arg(8))
		if err != nil {
			continue
		}
		for _, uid := range ua.Refs(0) {
			u, ok := m.Get(uid)
			if !ok {
				continue
			}
			switch u.Type {
			case "IFCSIUNIT":
				if t, _ := u.Enum(1); t != "LENGTHUNIT" {
					continue
				}
				name, _ := u.Enum(3)
				prefix, _ := u.Enum(2)
				scale := 1.0
				if f, ok := siPrefixes[prefix]; ok {
					scale = f
				}
				return strings.ToUpper(prefix + name), scale
			case "IFCCONVERSIONBASEDUNIT":
				if t, _ := u.Enum(1); t != "LENGTHUNIT" {
					continue
				}
				name, _ := u.String(2)
				scale := 1.0
				if mwu, err := Resolve(m, u.Arg(3)); err == nil {
					if f, ok := mwu.Float(0); ok {
						scale = f
					}
				}
				return strings.ToUpper(name), scale
			}
		}
	}
	return "METRE", 1
}
