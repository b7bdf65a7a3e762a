package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/engine/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialSlots(t *testing.T) {
	a, b := material.NewMaterial(material.WithName("a")), material.NewMaterial(material.WithName("b"))

	single := NewGameObject(WithMaterial(a))
	assert.False(t, single.MaterialIsArray())
	assert.Same(t, a, single.Material())
	single.SetMaterialAt(0, b)
	assert.Same(t, b, single.Material())
	single.SetMaterialAt(3, a)
	assert.Len(t, single.Materials(), 1)

	multi := NewGameObject(WithMaterials([]material.Material{a, b}))
	assert.True(t, multi.MaterialIsArray())
	multi.SetMaterialAt(1, a)
	ms := multi.Materials()
	require.Len(t, ms, 2)
	assert.Same(t, a, ms[1])

	empty := NewGameObject()
	assert.Nil(t, empty.Material())
	assert.True(t, empty.Enabled())
}

func TestTraverse(t *testing.T) {
	leaf := NewGameObject(WithUUID("leaf"))
	mid := NewGameObject(WithUUID("mid"), WithChildren(leaf))
	root := NewGameObject(WithUUID("root"), WithChildren(mid, NewGameObject(WithUUID("other"))))

	var order []string
	root.Traverse(func(o GameObject) bool {
		order = append(order, o.UUID())
		return true
	})
	assert.Equal(t, []string{"root", "mid", "leaf", "other"}, order)
	assert.Same(t, mid, leaf.Parent())

	order = nil
	root.Traverse(func(o GameObject) bool {
		order = append(order, o.UUID())
		return o.UUID() != "mid"
	})
	assert.Equal(t, []string{"root", "mid", "other"}, order)
}
