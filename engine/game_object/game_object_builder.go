package game_object

import (
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithUUID sets the document identifier of the GameObject.
//
// Parameters:
//   - uuid: the object uuid
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the UUID
func WithUUID(uuid string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.uuid = uuid
	}
}

// WithType sets the object type.
//
// Parameters:
//   - typ: the type name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Type
func WithType(typ string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.typ = typ
	}
}

// WithName sets the display name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is visible.
//
// Parameters:
//   - enabled: true to show the object, false to hide it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithUserData sets the object's annotations.
//
// Parameters:
//   - userData: the annotation map
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the UserData
func WithUserData(userData document.UserData) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.userData = userData
	}
}

// WithMaterial sets a single material slot.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Material
func WithMaterial(m material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.SetMaterial(m)
	}
}

// WithMaterials sets an array material slot.
//
// Parameters:
//   - ms: the materials
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Materials
func WithMaterials(ms []material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.SetMaterials(ms)
	}
}

// WithChildren appends children to the GameObject.
//
// Parameters:
//   - children: the child nodes
//
// Returns:
//   - GameObjectBuilderOption: functional option to add Children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, c := range children {
			obj.AddChild(c)
		}
	}
}
