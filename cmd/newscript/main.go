package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"unicode"
)

var tmpl = template.Must(template.New("script").Parse(`package scripts

import (
	"quatrig/internal/engine"
	"quatrig/internal/quat"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type {{.Name}} struct {
	engine.BaseComponent
	Axis  rl.Vector3
	Speed float32
}

func (s *{{.Name}}) Update(deltaTime float32) {
	g := s.GetGameObject()
	if g == nil || quat.IsZeroVec(s.Axis) {
		return
	}
	delta := quat.AxisAngle(quat.NormalizeVec(s.Axis), s.Speed*deltaTime/2)
	g.Transform.Rotation = quat.Normalize(quat.Hamilton(delta, g.Transform.Rotation))
}

func init() {
	engine.RegisterScriptWithApplier("{{.Name}}", {{.Lower}}Factory, {{.Lower}}Serializer, {{.Lower}}Applier)
}

func {{.Lower}}Factory(props map[string]any) engine.Component {
	s := &{{.Name}}{Axis: quat.UnitY, Speed: engine.FloatProp(props, "speed", 1)}
	if v, ok := engine.Vec3Prop(props["axis"]); ok {
		s.Axis = v
	}
	return s
}

func {{.Lower}}Serializer(c engine.Component) map[string]any {
	s, ok := c.(*{{.Name}})
	if !ok {
		return nil
	}
	return map[string]any{
		"axis":  engine.Vec3ToProp(s.Axis),
		"speed": s.Speed,
	}
}

func {{.Lower}}Applier(c engine.Component, propName string, value any) bool {
	s, ok := c.(*{{.Name}})
	if !ok {
		return false
	}
	switch propName {
	case "axis":
		if v, ok := engine.Vec3Prop(value); ok {
			s.Axis = v
			return true
		}
	case "speed":
		if v, ok := value.(float64); ok {
			s.Speed = float32(v)
			return true
		}
	}
	return false
}
`))

var errBadName = errors.New("script name must start with an uppercase letter")

func main() {
	dir := flag.String("dir", "internal/scripts", "directory to write the script into")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newscript [-dir path] <ScriptName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newscript Wobbler\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	name := flag.Arg(0)

	outPath, err := create(*dir, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	fmt.Printf("Script \"%s\" registered. Add it to a scene object:\n\n", name)
	fmt.Printf("  {\n")
	fmt.Printf("    \"type\": \"Script\",\n")
	fmt.Printf("    \"name\": \"%s\",\n", name)
	fmt.Printf("    \"props\": { \"axis\": [0, 1, 0], \"speed\": 1.0 }\n")
	fmt.Printf("  }\n")
}

// create writes the skeleton for name into dir and returns the file path. It
// refuses to overwrite an existing file.
func create(dir, name string) (string, error) {
	src, err := render(name)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, toSnakeCase(name)+".go")
	if _, err := os.Stat(outPath); err == nil {
		return "", fmt.Errorf("%s already exists", outPath)
	}
	if err := os.WriteFile(outPath, src, 0644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	return outPath, nil
}

func render(name string) ([]byte, error) {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return nil, errBadName
	}
	data := struct{ Name, Lower string }{
		Name:  name,
		Lower: string(unicode.ToLower(rune(name[0]))) + name[1:],
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
