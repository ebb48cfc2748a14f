package compose

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/wippyai/glb-compose/errors"
)

// TransformKind discriminates the resolved transform variants.
type TransformKind int

const (
	// TransformIdentity is the absence of placement metadata.
	TransformIdentity TransformKind = iota

	// TransformFlatMatrix is a flat 16-number matrix, already
	// column-major.
	TransformFlatMatrix

	// TransformRowMajorMatrix is a nested 4x4 matrix whose fourth row
	// is the translation row [tx, ty, tz, 1].
	TransformRowMajorMatrix

	// TransformColumnMajorMatrix is a nested 4x4 matrix given as four
	// column vectors.
	TransformColumnMajorMatrix

	// TransformTRS is a decomposed translation / rotation / scale.
	TransformTRS
)

// Transform is placement metadata resolved once into a closed variant.
// Heterogeneous key/value metadata is inspected only here; everything
// downstream works with the variant.
type Transform struct {
	Kind        TransformKind
	Elements    [16]float64 // matrix variants
	Translation [3]float64  // TRS
	Rotation    [4]float64  // TRS quaternion (x, y, z, w)
	Scale       [3]float64  // TRS
}

// ResolveTransform resolves free-form relationship metadata into a
// Transform. Resolution order, first match wins: "Matrix" (flat or
// nested), then "Translation"/"Transform" with optional "Rotation" and
// "Scale", then identity. Values may be wrapped as {"value": ...} and
// may be JSON-encoded or space-separated strings.
func ResolveTransform(metadata map[string]any) (Transform, error) {
	if v, ok := metadataValue(metadata, "Matrix"); ok {
		return resolveMatrix(v)
	}

	tv, hasT := metadataValue(metadata, "Translation")
	if !hasT {
		tv, hasT = metadataValue(metadata, "Transform")
	}
	rv, hasR := metadataValue(metadata, "Rotation")
	sv, hasS := metadataValue(metadata, "Scale")

	if !hasT && !hasR && !hasS {
		return Transform{Kind: TransformIdentity}, nil
	}

	t := Transform{
		Kind:     TransformTRS,
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
	if hasT {
		vec, err := parseVec3(tv, "Translation")
		if err != nil {
			return Transform{}, err
		}
		t.Translation = vec
	}
	if hasR {
		quat, err := parseRotation(rv)
		if err != nil {
			return Transform{}, err
		}
		t.Rotation = quat
	}
	if hasS {
		vec, err := parseVec3(sv, "Scale")
		if err != nil {
			return Transform{}, err
		}
		t.Scale = vec
	}
	return t, nil
}

// metadataValue fetches a metadata entry, unwrapping the provider's
// {"value": ...} envelope when present.
func metadataValue(metadata map[string]any, key string) (any, bool) {
	v, ok := metadata[key]
	if !ok {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner, true
		}
	}
	return v, true
}

func resolveMatrix(v any) (Transform, error) {
	// Space-separated number string.
	if s, ok := v.(string); ok {
		if strings.Contains(s, " ") && !strings.Contains(s, "[") {
			fields := strings.Fields(s)
			if len(fields) != 16 {
				return Transform{}, errors.MetadataFormat([]string{"Matrix"},
					"expected 16 numbers, got "+strconv.Itoa(len(fields)), v)
			}
			var t Transform
			t.Kind = TransformFlatMatrix
			for i, f := range fields {
				n, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return Transform{}, errors.MetadataFormat([]string{"Matrix"},
						"not a number: "+f, v)
				}
				t.Elements[i] = n
			}
			return t, nil
		}
		// JSON-encoded array.
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return Transform{}, errors.MetadataFormat([]string{"Matrix"},
				"unparseable matrix string", v)
		}
		v = decoded
	}

	arr, ok := v.([]any)
	if !ok {
		return Transform{}, errors.MetadataFormat([]string{"Matrix"}, "unsupported matrix value", v)
	}

	// Flat 16-element array, already column-major.
	if len(arr) == 16 {
		var t Transform
		t.Kind = TransformFlatMatrix
		for i, el := range arr {
			n, ok := toFloat(el)
			if !ok {
				return Transform{}, errors.MetadataFormat([]string{"Matrix"},
					"element "+strconv.Itoa(i)+" is not a number", v)
			}
			t.Elements[i] = n
		}
		return t, nil
	}

	// Nested 4x4.
	if len(arr) == 4 {
		var rows [4][4]float64
		for i, rowVal := range arr {
			row, ok := rowVal.([]any)
			if !ok || len(row) != 4 {
				return Transform{}, errors.MetadataFormat([]string{"Matrix"},
					"row "+strconv.Itoa(i)+" is not a 4-number array", v)
			}
			for j, el := range row {
				n, ok := toFloat(el)
				if !ok {
					return Transform{}, errors.MetadataFormat([]string{"Matrix"},
						"element is not a number", v)
				}
				rows[i][j] = n
			}
		}

		var t Transform
		if rows[3][3] == 1.0 {
			t.Kind = TransformRowMajorMatrix
		} else {
			t.Kind = TransformColumnMajorMatrix
		}
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				t.Elements[i*4+j] = rows[i][j]
			}
		}
		return t, nil
	}

	return Transform{}, errors.MetadataFormat([]string{"Matrix"},
		"expected 16 numbers or a 4x4 array, got length "+strconv.Itoa(len(arr)), v)
}

// parseVec3 accepts {x, y, z} mappings, 3-element arrays, and
// JSON-encoded strings of either.
func parseVec3(v any, key string) ([3]float64, error) {
	if s, ok := v.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return [3]float64{}, errors.MetadataFormat([]string{key}, "unparseable vector string", v)
		}
		v = decoded
	}

	switch val := v.(type) {
	case map[string]any:
		var out [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			if comp, ok := val[axis]; ok {
				n, ok := toFloat(comp)
				if !ok {
					return [3]float64{}, errors.MetadataFormat([]string{key, axis}, "not a number", comp)
				}
				out[i] = n
			} else if key == "Scale" {
				out[i] = 1
			}
		}
		return out, nil

	case []any:
		if len(val) != 3 {
			return [3]float64{}, errors.MetadataFormat([]string{key},
				"expected 3 elements, got "+strconv.Itoa(len(val)), v)
		}
		var out [3]float64
		for i, el := range val {
			n, ok := toFloat(el)
			if !ok {
				return [3]float64{}, errors.MetadataFormat([]string{key}, "not a number", el)
			}
			out[i] = n
		}
		return out, nil
	}

	return [3]float64{}, errors.MetadataFormat([]string{key}, "unsupported vector value", v)
}

// parseRotation accepts quaternion {x, y, z, w} mappings and 4-element
// arrays. A mapping without a w component is treated as the identity
// rotation.
func parseRotation(v any) ([4]float64, error) {
	identity := [4]float64{0, 0, 0, 1}

	if s, ok := v.(string); ok {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return identity, errors.MetadataFormat([]string{"Rotation"}, "unparseable rotation string", v)
		}
		v = decoded
	}

	switch val := v.(type) {
	case map[string]any:
		if _, ok := val["w"]; !ok {
			return identity, nil
		}
		var out [4]float64
		for i, comp := range []string{"x", "y", "z", "w"} {
			c, ok := val[comp]
			if !ok {
				if comp == "w" {
					out[i] = 1
				}
				continue
			}
			n, ok := toFloat(c)
			if !ok {
				return identity, errors.MetadataFormat([]string{"Rotation", comp}, "not a number", c)
			}
			out[i] = n
		}
		return out, nil

	case []any:
		if len(val) != 4 {
			return identity, errors.MetadataFormat([]string{"Rotation"},
				"expected 4 elements, got "+strconv.Itoa(len(val)), v)
		}
		var out [4]float64
		for i, el := range val {
			n, ok := toFloat(el)
			if !ok {
				return identity, errors.MetadataFormat([]string{"Rotation"}, "not a number", el)
			}
			out[i] = n
		}
		return out, nil
	}

	return identity, errors.MetadataFormat([]string{"Rotation"}, "unsupported rotation value", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
