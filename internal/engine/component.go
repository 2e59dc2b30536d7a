package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// Validator is implemented by components that have preconditions which must
// hold before the scene starts. Scene.Start returns the first failure.
type Validator interface {
	Validate() error
}

// Dependent is implemented by components that read other objects' transforms.
// The scene updates every returned object before the component's own object.
type Dependent interface {
	Dependencies() []*GameObject
}

// TransformOwner is implemented by components that write the transform
// themselves every tick, such as simulated rigid bodies.
type TransformOwner interface {
	OwnsTransform() bool
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
