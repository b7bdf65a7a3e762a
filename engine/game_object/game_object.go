package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
)

type gameObject struct {
	uuid     string
	typ      string
	name     string
	enabled  atomic.Bool
	userData document.UserData

	materials     []material.Material
	materialArray bool

	parent   GameObject
	children []GameObject
}

// GameObject defines the interface for a node of the resolved scene graph. A node holds
// either a single material or an ordered material array, mirroring the document's
// material member, and owns its children.
type GameObject interface {
	// UUID returns the object's document identifier.
	//
	// Returns:
	//   - string: the uuid
	UUID() string

	// Type returns the object type, e.g. "Mesh" or "Group".
	//
	// Returns:
	//   - string: the type name
	Type() string

	// Name returns the display name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is visible.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// UserData returns the object's annotations.
	//
	// Returns:
	//   - document.UserData: the annotation map, possibly nil
	UserData() document.UserData

	// Material returns the object's material, the first entry for array slots, or nil.
	//
	// Returns:
	//   - material.Material: the material or nil
	Material() material.Material

	// Materials returns a copy of the material slot contents.
	//
	// Returns:
	//   - []material.Material: the materials, in slot order
	Materials() []material.Material

	// MaterialIsArray reports whether the material slot is array-valued.
	//
	// Returns:
	//   - bool: true for array slots
	MaterialIsArray() bool

	// Parent returns the parent node, or nil for the root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns the child nodes in document order.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// SetEnabled sets whether the object is visible.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMaterial replaces the slot with a single material.
	//
	// Parameters:
	//   - m: the material
	SetMaterial(m material.Material)

	// SetMaterials replaces the slot with a material array.
	//
	// Parameters:
	//   - ms: the materials
	SetMaterials(ms []material.Material)

	// SetMaterialAt replaces one entry of the slot, keeping its shape. Out of range
	// indices are ignored.
	//
	// Parameters:
	//   - i: the slot index, 0 for single slots
	//   - m: the material
	SetMaterialAt(i int, m material.Material)

	// AddChild appends a child and sets its parent to this object.
	//
	// Parameters:
	//   - child: the child node
	AddChild(child GameObject)

	// Traverse visits this node and its descendants depth-first, parents before
	// children. Returning false from fn skips the node's children.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(GameObject) bool)

	setParent(parent GameObject)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject with the provided options applied. Objects start enabled.
//
// Parameters:
//   - options: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (obj *gameObject) UUID() string {
	return obj.uuid
}

func (obj *gameObject) Type() string {
	return obj.typ
}

func (obj *gameObject) Name() string {
	return obj.name
}

func (obj *gameObject) Enabled() bool {
	return obj.enabled.Load()
}

func (obj *gameObject) UserData() document.UserData {
	return obj.userData
}

func (obj *gameObject) Material() material.Material {
	if len(obj.materials) == 0 {
		return nil
	}
	return obj.materials[0]
}

func (obj *gameObject) Materials() []material.Material {
	return append([]material.Material(nil), obj.materials...)
}

func (obj *gameObject) MaterialIsArray() bool {
	return obj.materialArray
}

func (obj *gameObject) Parent() GameObject {
	return obj.parent
}

func (obj *gameObject) Children() []GameObject {
	return obj.children
}

func (obj *gameObject) SetEnabled(enabled bool) {
	obj.enabled.Store(enabled)
}

func (obj *gameObject) SetMaterial(m material.Material) {
	obj.materialArray = false
	if m == nil {
		obj.materials = nil
		return
	}
	obj.materials = []material.Material{m}
}

func (obj *gameObject) SetMaterials(ms []material.Material) {
	obj.materialArray = true
	obj.materials = append([]material.Material(nil), ms...)
}

func (obj *gameObject) SetMaterialAt(i int, m material.Material) {
	if i < 0 || i >= len(obj.materials) {
		return
	}
	obj.materials[i] = m
}

func (obj *gameObject) AddChild(child GameObject) {
	if child == nil {
		return
	}
	child.setParent(obj)
	obj.children = append(obj.children, child)
}

func (obj *gameObject) Traverse(fn func(GameObject) bool) {
	if !fn(obj) {
		return
	}
	for _, c := range obj.children {
		c.Traverse(fn)
	}
}

func (obj *gameObject) setParent(parent GameObject) {
	obj.parent = parent
}
