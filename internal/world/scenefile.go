package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"quatrig/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrDuplicateUID is returned when two objects in a scene file share a UID.
var ErrDuplicateUID = errors.New("duplicate object uid")

// ErrUnknownParent is returned when an object names a parent that is not in
// the scene file.
var ErrUnknownParent = errors.New("unknown parent")

// --- JSON types ---

type SceneFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name       string           `json:"name"`
	UID        uint64           `json:"uid,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	Parent     string           `json:"parent,omitempty"`
	Position   [3]float32       `json:"position"`
	Rotation   [4]float32       `json:"rotation"` // quaternion x, y, z, w
	Scale      [3]float32       `json:"scale"`
	Active     *bool            `json:"active,omitempty"`
	Components []map[string]any `json:"components"`
}

// --- Loading ---

func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	if err := w.LoadSceneData(data); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadSceneData adds the objects described by a JSON scene file to the world's
// scene. Saved UIDs are kept so GameObjectRef props still resolve. Nothing is
// added unless the whole file loads.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	// Objects without a saved UID must not be handed one the file declares.
	seen := make(map[uint64]bool, len(sf.Objects))
	var maxUID uint64
	for _, objDef := range sf.Objects {
		if objDef.UID == 0 {
			continue
		}
		if seen[objDef.UID] || w.Scene.FindByUID(objDef.UID) != nil {
			return fmt.Errorf("object %q: %w %d", objDef.Name, ErrDuplicateUID, objDef.UID)
		}
		seen[objDef.UID] = true
		maxUID = max(maxUID, objDef.UID)
	}
	engine.ReserveUID(maxUID)

	byName := make(map[string]*engine.GameObject, len(sf.Objects))
	loaded := make([]*engine.GameObject, 0, len(sf.Objects))
	for _, objDef := range sf.Objects {
		g := engine.NewGameObject(objDef.Name)
		if objDef.UID != 0 {
			g.UID = objDef.UID
		}
		g.Tags = objDef.Tags
		g.Transform.Position = rl.Vector3{X: objDef.Position[0], Y: objDef.Position[1], Z: objDef.Position[2]}

		// A missing rotation means no rotation.
		if objDef.Rotation != [4]float32{} {
			g.Transform.Rotation = rl.Quaternion{X: objDef.Rotation[0], Y: objDef.Rotation[1], Z: objDef.Rotation[2], W: objDef.Rotation[3]}
		}

		// A missing scale means unit scale.
		if objDef.Scale != [3]float32{} {
			g.Transform.Scale = rl.Vector3{X: objDef.Scale[0], Y: objDef.Scale[1], Z: objDef.Scale[2]}
		}
		if objDef.Active != nil {
			g.Active = *objDef.Active
		}

		for _, raw := range objDef.Components {
			if c := loadComponent(raw); c != nil {
				g.AddComponent(c)
			} else {
				log.Printf("Scene: skipping unknown component %v on %q", raw["type"], g.Name)
			}
		}

		byName[g.Name] = g
		loaded = append(loaded, g)
	}

	for i, objDef := range sf.Objects {
		if objDef.Parent == "" {
			continue
		}
		parent, ok := byName[objDef.Parent]
		if !ok {
			return fmt.Errorf("object %q: %w %q", objDef.Name, ErrUnknownParent, objDef.Parent)
		}
		parent.AddChild(loaded[i])
	}

	for _, g := range loaded {
		w.Scene.AddGameObject(g)
	}
	return nil
}

func loadComponent(raw map[string]any) engine.Component {
	typ, _ := raw["type"].(string)
	if typ != "Script" {
		if c := engine.CreateComponent(typ, raw); c != nil {
			return c
		}
		return nil
	}

	name, _ := raw["name"].(string)
	props, _ := raw["props"].(map[string]any)
	return engine.CreateScript(name, props)
}

// --- Saving ---

func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}

	return nil
}

// MarshalScene encodes the world's scene in the scene file format.
func (w *World) MarshalScene() ([]byte, error) {
	var sf SceneFile

	for _, g := range w.Scene.GameObjects {
		rot := g.Transform.Rotation
		objDef := ObjectDef{
			Name:     g.Name,
			UID:      g.UID,
			Tags:     g.Tags,
			Position: [3]float32{g.Transform.Position.X, g.Transform.Position.Y, g.Transform.Position.Z},
			Rotation: [4]float32{rot.X, rot.Y, rot.Z, rot.W},
			Scale:    [3]float32{g.Transform.Scale.X, g.Transform.Scale.Y, g.Transform.Scale.Z},
		}
		if g.Parent != nil {
			objDef.Parent = g.Parent.Name
		}
		if !g.Active {
			active := false
			objDef.Active = &active
		}

		for _, c := range g.Components() {
			if def := serializeComponent(c); def != nil {
				objDef.Components = append(objDef.Components, def)
			}
		}

		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

func serializeComponent(c engine.Component) map[string]any {
	if s, ok := c.(engine.Serializable); ok {
		return s.Serialize()
	}
	if name, props, ok := engine.SerializeScript(c); ok {
		return map[string]any{"type": "Script", "name": name, "props": props}
	}
	return nil
}
