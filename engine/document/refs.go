package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ImageRefKind tags the shape of a texture's image member.
type ImageRefKind int

const (
	// ImageRefNone means the texture carries no image member.
	ImageRefNone ImageRefKind = iota
	// ImageRefString is a string member: either an image uuid or a direct path.
	ImageRefString
	// ImageRefInline is an inline image object with its own uuid and url.
	ImageRefInline
	// ImageRefOther is any other JSON value, kept verbatim.
	ImageRefOther
)

// ImageRef is a texture's image member.
type ImageRef struct {
	Kind   ImageRefKind
	Value  string
	Inline *ImageDescriptor
	Raw    json.RawMessage
}

// UUIDRef builds a string reference to an image uuid.
func UUIDRef(uuid string) ImageRef {
	return ImageRef{Kind: ImageRefString, Value: uuid}
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = ImageRef{}
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		r.Kind = ImageRefString
		return json.Unmarshal(data, &r.Value)
	case data[0] == '{':
		r.Kind = ImageRefInline
		r.Inline = &ImageDescriptor{}
		if err := json.Unmarshal(data, r.Inline); err != nil {
			return fmt.Errorf("inline image: %w", err)
		}
		return nil
	default:
		r.Kind = ImageRefOther
		r.Raw = append(json.RawMessage(nil), data...)
		return nil
	}
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ImageRefString:
		return json.Marshal(r.Value)
	case ImageRefInline:
		return json.Marshal(r.Inline)
	case ImageRefOther:
		return r.Raw, nil
	default:
		return []byte("null"), nil
	}
}

// MaterialRef is an object's material member: a single uuid or an array of uuids.
type MaterialRef struct {
	UUIDs []string
	Array bool
}

// IsZero reports whether the object has no material.
func (r MaterialRef) IsZero() bool {
	return len(r.UUIDs) == 0
}

func (r *MaterialRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = MaterialRef{}
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '[':
		r.Array = true
		return json.Unmarshal(data, &r.UUIDs)
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("material reference: %w", err)
		}
		r.UUIDs = []string{s}
		return nil
	}
}

func (r MaterialRef) MarshalJSON() ([]byte, error) {
	if r.Array {
		if r.UUIDs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.UUIDs)
	}
	if len(r.UUIDs) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.UUIDs[0])
}
