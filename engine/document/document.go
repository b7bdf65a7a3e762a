// Package document models the scene exchange document: texture, image and material
// tables plus the nested object graph. Only the fields the asset layer reads or
// rewrites are typed; every other field is kept verbatim so a repaired document
// re-serializes without loss.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
)

// UserData is the free-form annotation map attached to descriptors.
type UserData map[string]any

// AssetPath returns the userData.assetPath annotation, or "" if absent or not a string.
func (u UserData) AssetPath() string {
	if u == nil {
		return ""
	}
	s, _ := u["assetPath"].(string)
	return s
}

// Bool returns a boolean annotation, false if absent.
func (u UserData) Bool(key string) bool {
	if u == nil {
		return false
	}
	b, _ := u[key].(bool)
	return b
}

// Metadata is the document header.
type Metadata struct {
	Version   json.Number `json:"version,omitempty"`
	Type      string      `json:"type,omitempty"`
	Generator string      `json:"generator,omitempty"`
}

// Document is the root of a scene exchange document.
type Document struct {
	Metadata  *Metadata             `json:"metadata,omitempty"`
	Textures  []*TextureDescriptor  `json:"textures,omitempty"`
	Images    []*ImageDescriptor    `json:"images,omitempty"`
	Materials []*MaterialDescriptor `json:"materials,omitempty"`
	Object    *ObjectDescriptor     `json:"object,omitempty"`

	// Extra holds every top-level field not modelled above (geometries, animations, skeletons...).
	Extra map[string]json.RawMessage `json:"-"`
}

var documentFields = []string{"metadata", "textures", "images", "materials", "object"}

func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, documentFields)
	if err != nil {
		return err
	}
	*d = Document(a)
	d.Extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	return marshalWithExtra(alias(d), d.Extra)
}

// Texture looks up a texture descriptor by uuid.
func (d *Document) Texture(uuid string) *TextureDescriptor {
	for _, t := range d.Textures {
		if t != nil && t.UUID == uuid {
			return t
		}
	}
	return nil
}

// Image looks up an image descriptor by uuid.
func (d *Document) Image(uuid string) *ImageDescriptor {
	for _, img := range d.Images {
		if img != nil && img.UUID == uuid {
			return img
		}
	}
	return nil
}

// Material looks up a material descriptor by uuid.
func (d *Document) Material(uuid string) *MaterialDescriptor {
	for _, m := range d.Materials {
		if m != nil && m.UUID == uuid {
			return m
		}
	}
	return nil
}

// Walk visits every object descriptor depth-first, parents before children.
// Returning false from fn skips the object's children.
func (d *Document) Walk(fn func(o *ObjectDescriptor) bool) {
	if d.Object != nil {
		d.Object.walk(fn)
	}
}

// Clone returns a deep copy of the document. The copy shares no slices, maps or
// descriptors with d, so it can be stripped or repaired without touching the original.
//
// Returns:
//   - *Document: the deep copy
//   - error: error if copying fails
func (d *Document) Clone() (*Document, error) {
	out := &Document{}
	if err := copier.CopyWithOption(out, d, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	return out, nil
}

// ImageDescriptor is an entry of the images table.
type ImageDescriptor struct {
	UUID string `json:"uuid"`

	// URL is set when the descriptor's url is a single string. Array (cube map) and
	// typed-array urls are kept untouched in Extra["url"].
	URL string `json:"url,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (img *ImageDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*img = ImageDescriptor{}
	if v, ok := raw["uuid"]; ok {
		if err := json.Unmarshal(v, &img.UUID); err != nil {
			return fmt.Errorf("image uuid: %w", err)
		}
		delete(raw, "uuid")
	}
	if v, ok := raw["url"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			img.URL = s
			delete(raw, "url")
		}
	}
	if len(raw) > 0 {
		img.Extra = raw
	}
	return nil
}

func (img ImageDescriptor) MarshalJSON() ([]byte, error) {
	type alias ImageDescriptor
	return marshalWithExtra(alias(img), img.Extra)
}

// TextureDescriptor is an entry of the textures table.
type TextureDescriptor struct {
	UUID       string   `json:"uuid"`
	Name       string   `json:"name,omitempty"`
	Image      ImageRef `json:"image,omitempty"`
	Wrap       []int    `json:"wrap,omitempty"`
	MagFilter  int      `json:"magFilter,omitempty"`
	MinFilter  int      `json:"minFilter,omitempty"`
	Anisotropy int      `json:"anisotropy,omitempty"`
	UserData   UserData `json:"userData,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var textureFields = []string{"uuid", "name", "image", "wrap", "magFilter", "minFilter", "anisotropy", "userData"}

func (t *TextureDescriptor) UnmarshalJSON(data []byte) error {
	type alias TextureDescriptor
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, textureFields)
	if err != nil {
		return err
	}
	*t = TextureDescriptor(a)
	t.Extra = extra
	return nil
}

func (t TextureDescriptor) MarshalJSON() ([]byte, error) {
	type alias TextureDescriptor
	return marshalWithExtra(alias(t), t.Extra)
}

// MaterialDescriptor is an entry of the materials table. Texture slots such as "map"
// or "normalMap" hold texture uuids and are read through TextureRef.
type MaterialDescriptor struct {
	UUID     string   `json:"uuid"`
	Type     string   `json:"type,omitempty"`
	Name     string   `json:"name,omitempty"`
	UserData UserData `json:"userData,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var materialFields = []string{"uuid", "type", "name", "userData"}

func (m *MaterialDescriptor) UnmarshalJSON(data []byte) error {
	type alias MaterialDescriptor
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, materialFields)
	if err != nil {
		return err
	}
	*m = MaterialDescriptor(a)
	m.Extra = extra
	return nil
}

func (m MaterialDescriptor) MarshalJSON() ([]byte, error) {
	type alias MaterialDescriptor
	return marshalWithExtra(alias(m), m.Extra)
}

// Field decodes an untyped field into v. It reports false if the field is absent or does not decode.
func (m *MaterialDescriptor) Field(key string, v any) bool {
	raw, ok := m.Extra[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// TextureRef returns the texture uuid bound to a slot, or "" if the slot is empty.
func (m *MaterialDescriptor) TextureRef(slot string) string {
	var s string
	if m.Field(slot, &s) {
		return s
	}
	return ""
}

// ObjectDescriptor is a node of the object graph.
type ObjectDescriptor struct {
	UUID     string              `json:"uuid"`
	Type     string              `json:"type,omitempty"`
	Name     string              `json:"name,omitempty"`
	Material MaterialRef         `json:"material,omitempty"`
	Children []*ObjectDescriptor `json:"children,omitempty"`
	UserData UserData            `json:"userData,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var objectFields = []string{"uuid", "type", "name", "material", "children", "userData"}

func (o *ObjectDescriptor) UnmarshalJSON(data []byte) error {
	type alias ObjectDescriptor
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := extraFields(data, objectFields)
	if err != nil {
		return err
	}
	*o = ObjectDescriptor(a)
	o.Extra = extra
	return nil
}

func (o ObjectDescriptor) MarshalJSON() ([]byte, error) {
	type alias ObjectDescriptor
	return marshalWithExtra(alias(o), o.Extra)
}

func (o *ObjectDescriptor) walk(fn func(o *ObjectDescriptor) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.Children {
		if c != nil {
			c.walk(fn)
		}
	}
}

// extraFields returns the members of the JSON object in data whose keys are not listed in known.
func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// marshalWithExtra encodes v, drops typed members that encoded as null and merges in the
// extra members. Typed fields win on key collisions.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, raw := range merged {
		if string(raw) == "null" {
			delete(merged, k)
		}
	}
	for k, raw := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}
