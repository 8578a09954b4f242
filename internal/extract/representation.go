package extract

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/ifcfem/internal/ifc"
	"github.com/alexiusacademia/ifcfem/internal/model"
)

// representation picks the first axis polyline and the first extruded
// body of a product
func representation(m ifc.Model, inst *ifc.Instance) (model.RawRepresentation, error) {
	var rep model.RawRepresentation

	reps, err := ifc.Representations(m, inst)
	if err != nil {
		return rep, err
	}

	for _, sr := range reps {
		switch strings.ToUpper(sr.Identifier) {
		case "AXIS":
			if rep.Axis != nil {
				continue
			}
			for _, item := range sr.Items {
				// mapped axes are skipped, the body is used instead
				if !item.Item.Is("IFCPOLYLINE") || len(item.Mapping) > 0 {
					continue
				}
				pts, err := ifc.Polyline(m, item.Item)
				if err != nil {
					return rep, fmt.Errorf("axis: %w", err)
				}
				rep.Axis = pts
				break
			}
		case "BODY", "":
			if rep.Body != nil {
				continue
			}
			for _, item := range sr.Items {
				solid := unwrapBoolean(m, item.Item)
				if solid == nil || !solid.Is("IFCEXTRUDEDAREASOLID") {
					continue
				}
				ex, err := extrusion(m, solid)
				if err != nil {
					return rep, fmt.Errorf("body: %w", err)
				}
				ex.Mapping = item.Mapping
				rep.Body = &ex
				break
			}
		}
	}
	return rep, nil
}

// unwrapBoolean follows the first operand of clipping results down to the
// swept solid being cut
func unwrapBoolean(m ifc.Model, inst *ifc.Instance) *ifc.Instance {
	for depth := 0; depth < 16 && inst != nil; depth++ {
		if !inst.Is("IFCBOOLEANCLIPPINGRESULT", "IFCBOOLEANRESULT") {
			return inst
		}
		next, err := ifc.Resolve(m, inst.Arg(1))
		if err != nil {
			return nil
		}
		inst = next
	}
	return nil
}

// extrusion decodes an IfcExtrudedAreaSolid
func extrusion(m ifc.Model, inst *ifc.Instance) (model.Extrusion, error) {
	var ex model.Extrusion

	profileDef, err := ifc.Resolve(m, inst.Arg(0))
	if err != nil {
		return ex, fmt.Errorf("swept area: %w", err)
	}
	ex.Profile, err = profile(m, profileDef)
	if err != nil {
		return ex, err
	}

	ex.Position, err = ifc.Axis2Placement(m, inst.Arg(1))
	if err != nil {
		return ex, fmt.Errorf("position: %w", err)
	}

	dir, err := ifc.Resolve(m, inst.Arg(2))
	if err != nil {
		return ex, fmt.Errorf("extruded direction: %w", err)
	}
	ex.Direction, err = ifc.Coordinates(dir)
	if err != nil {
		return ex, err
	}

	depth, ok := inst.Float(3)
	if !ok {
		return ex, fmt.Errorf("#%d: extrusion depth missing", inst.ID)
	}
	ex.Depth = depth
	return ex, nil
}

// profile decodes the supported profile definitions. Unknown profiles
// keep their name with NoProfile so linear members can still be placed.
func profile(m ifc.Model, inst *ifc.Instance) (model.Profile, error) {
	p := model.Profile{}
	p.Name, _ = inst.String(1)

	var err error
	switch inst.Type {
	case "IFCRECTANGLEPROFILEDEF", "IFCRECTANGLEHOLLOWPROFILEDEF", "IFCROUNDEDRECTANGLEPROFILEDEF":
		p.Kind = model.RectangleProfile
		p.XDim, _ = inst.Float(3)
		p.YDim, _ = inst.Float(4)
		if inst.Type == "IFCRECTANGLEHOLLOWPROFILEDEF" {
			p.WallThickness, _ = inst.Float(5)
		}
	case "IFCCIRCLEPROFILEDEF", "IFCCIRCLEHOLLOWPROFILEDEF":
		p.Kind = model.CircleProfile
		p.Radius, _ = inst.Float(3)
		if inst.Type == "IFCCIRCLEHOLLOWPROFILEDEF" {
			p.WallThickness, _ = inst.Float(4)
		}
	case "IFCISHAPEPROFILEDEF":
		p.Kind = model.IShapeProfile
		p.OverallWidth, _ = inst.Float(3)
		p.OverallDepth, _ = inst.Float(4)
		p.WebThickness, _ = inst.Float(5)
		p.FlangeThickness, _ = inst.Float(6)
	case "IFCARBITRARYCLOSEDPROFILEDEF", "IFCARBITRARYPROFILEDEFWITHVOIDS":
		p.Kind = model.ArbitraryProfile
		curve, err := ifc.Resolve(m, inst.Arg(2))
		if err != nil {
			return p, fmt.Errorf("outer curve: %w", err)
		}
		if !curve.Is("IFCPOLYLINE") {
			return p, fmt.Errorf("#%d: outer curve %s is not a polyline", curve.ID, curve.Type)
		}
		pts, err := ifc.Polyline(m, curve)
		if err != nil {
			return p, err
		}
		if n := len(pts); n > 1 && pts[0] == pts[n-1] {
			pts = pts[:n-1]
		}
		p.Outline = pts
		return p, nil
	default:
		p.Kind = model.NoProfile
		return p, nil
	}

	p.Position, err = ifc.Axis2Placement(m, inst.Arg(2))
	if err != nil {
		return p, fmt.Errorf("profile position: %w", err)
	}
	return p, nil
}
