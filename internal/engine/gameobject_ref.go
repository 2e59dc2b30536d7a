package engine

// GameObjectRef is a serializable reference to a GameObject by UID. Scripts
// use it for links to other objects that must survive a save/load cycle.
type GameObjectRef struct {
	UID uint64 // UID of the referenced GameObject (0 = none)
}

// RefTo returns a reference to g. A nil g gives an empty reference.
func RefTo(g *GameObject) GameObjectRef {
	var r GameObjectRef
	r.Set(g)
	return r
}

// RefFromProp reads a reference from a decoded JSON prop value. JSON numbers
// decode as float64; other numeric types are accepted for props built in code.
func RefFromProp(v any) (GameObjectRef, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return GameObjectRef{}, false
		}
		return GameObjectRef{UID: uint64(n)}, true
	case uint64:
		return GameObjectRef{UID: n}, true
	case int:
		if n < 0 {
			return GameObjectRef{}, false
		}
		return GameObjectRef{UID: uint64(n)}, true
	}
	return GameObjectRef{}, false
}

// Get resolves the reference to the actual GameObject.
// Returns nil if the reference is empty (UID = 0) or if the GameObject doesn't exist.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// IsValid returns true if the reference points to something (UID != 0).
// Note: This doesn't check if the GameObject actually exists in the scene.
func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

// Set sets the reference to point to the given GameObject.
// Pass nil to clear the reference.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = 0
	} else {
		r.UID = g.UID
	}
}

// Clear clears the reference (sets UID to 0).
func (r *GameObjectRef) Clear() {
	r.UID = 0
}
