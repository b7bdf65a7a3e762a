package document

// transientTypes are runtime-only object types that are rebuilt by their owning
// systems and must not go through the deserializer.
var transientTypes = map[string]struct{}{
	"BatchedRenderer": {},
	"ParticleEmitter": {},
	"VFXBatch":        {},
}

// IsTransient reports whether an object descriptor is runtime-only. Particle systems
// flagged with userData.isParticleSystem are persistent and kept.
func IsTransient(o *ObjectDescriptor) bool {
	if o == nil || o.UserData.Bool("isParticleSystem") {
		return false
	}
	if _, ok := transientTypes[o.Type]; ok {
		return true
	}
	return o.Type == "ParticleSystem"
}

// StripTransient removes runtime-only objects from the object graph in place.
//
// Parameters:
//   - doc: the document to strip
//
// Returns:
//   - int: the number of objects removed, counting each removed subtree root once
func StripTransient(doc *Document) int {
	if doc == nil || doc.Object == nil {
		return 0
	}
	removed := 0
	doc.Walk(func(o *ObjectDescriptor) bool {
		kept := o.Children[:0]
		for _, c := range o.Children {
			if IsTransient(c) {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		o.Children = kept
		return true
	})
	return removed
}
