package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Helpers for reading script and component props. Props come either from
// decoded JSON (numbers are float64, arrays are []any) or from Go code.

// FloatProp reads a number prop.
func FloatProp(props map[string]any, key string, fallback float32) float32 {
	switch v := props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	}
	return fallback
}

// BoolProp reads a boolean prop.
func BoolProp(props map[string]any, key string, fallback bool) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return fallback
}

// Vec3Prop reads a three-element array prop value.
func Vec3Prop(v any) (rl.Vector3, bool) {
	switch arr := v.(type) {
	case []any:
		if len(arr) != 3 {
			return rl.Vector3{}, false
		}
		var out [3]float32
		for i, e := range arr {
			f, ok := e.(float64)
			if !ok {
				return rl.Vector3{}, false
			}
			out[i] = float32(f)
		}
		return rl.Vector3{X: out[0], Y: out[1], Z: out[2]}, true
	case []float32:
		if len(arr) != 3 {
			return rl.Vector3{}, false
		}
		return rl.Vector3{X: arr[0], Y: arr[1], Z: arr[2]}, true
	case rl.Vector3:
		return arr, true
	}
	return rl.Vector3{}, false
}

// Vec3ToProp converts v to the array form Vec3Prop accepts.
func Vec3ToProp(v rl.Vector3) []float32 {
	return []float32{v.X, v.Y, v.Z}
}
