package scene

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/game_object"
	"github.com/Carmen-Shannon/oxy-assets/engine/loader"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
)

// Common errors recorded in AssetFailure.
var (
	ErrImageNotFound = errors.New("image not found")
	ErrNoImageURL    = errors.New("image has no loadable url")
)

// AssetFailure records an image that could not be loaded. The textures that use it
// receive the placeholder texture.
type AssetFailure struct {
	URL string
	Err error
}

func (f AssetFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.URL, f.Err)
}

// Hooks are the injection points of a Parse call.
type Hooks struct {
	// Primitive loads image bytes. Defaults to a Loader with only data: URI support.
	Primitive loader.Primitive

	// MaterialsResolved runs once all materials are constructed and before any object
	// references them. Entries replaced in the map are what objects receive.
	MaterialsResolved func(ctx context.Context, materials map[string]material.Material)
}

// Result is the output of a Parse call.
type Result struct {
	Root      game_object.GameObject
	Textures  map[string]*common.ImportedTexture
	Materials map[string]material.Material
	Failures  []AssetFailure
}

// deserializer is the implementation of the Deserializer interface.
type deserializer struct {
	workers int
	decode  bool
	pool    worker.DynamicWorkerPool
	logger  *slog.Logger
}

// loadedImage is an image fetched by the worker pool.
type loadedImage struct {
	res           *loader.Resource
	width, height int
}

// Deserializer turns a scene document into a resolved object graph. Images are loaded
// concurrently through the hook primitive; textures, materials and objects are then
// built in document order.
type Deserializer interface {
	// Parse builds the object graph of a document.
	//
	// Parameters:
	//   - ctx: bounds image loads
	//   - doc: the document, after repair
	//   - hooks: the injection points
	//
	// Returns:
	//   - *Result: the resolved graph and the per-image failures
	//   - error: ctx.Err() if the call was cancelled, or an error if doc is nil
	Parse(ctx context.Context, doc *document.Document, hooks Hooks) (*Result, error)

	// Close stops the image worker pool.
	Close()
}

var _ Deserializer = &deserializer{}

// NewDeserializer creates a Deserializer with the options applied.
//
// Parameters:
//   - options: a variadic list of DeserializerBuilderOption functions
//
// Returns:
//   - Deserializer: the deserializer
func NewDeserializer(options ...DeserializerBuilderOption) Deserializer {
	d := &deserializer{
		workers: max(runtime.NumCPU()-1, 1),
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(d)
	}
	d.logger = d.logger.With("component", "deserializer")

	// Initialize the pool after options so WithWorkers can override the default.
	d.pool = worker.NewDynamicWorkerPool(d.workers, 256, 1*time.Second)
	return d
}

func (d *deserializer) Close() {
	d.pool.Stop()
}

func (d *deserializer) Parse(ctx context.Context, doc *document.Document, hooks Hooks) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", document.ErrMalformed)
	}
	primitive := hooks.Primitive
	if primitive == nil {
		primitive = loader.NewLoader()
	}

	images, failures := d.loadImages(ctx, doc, primitive)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Textures:  d.buildTextures(doc, images, failures),
		Materials: make(map[string]material.Material, len(doc.Materials)),
	}
	for _, f := range failures {
		res.Failures = append(res.Failures, f)
	}
	slices.SortFunc(res.Failures, func(a, b AssetFailure) int {
		return cmp.Or(strings.Compare(a.URL, b.URL), strings.Compare(a.Err.Error(), b.Err.Error()))
	})

	for _, desc := range doc.Materials {
		if desc == nil {
			continue
		}
		res.Materials[desc.UUID] = material.FromDescriptor(desc, func(uuid string) *common.ImportedTexture {
			return res.Textures[uuid]
		})
	}
	if hooks.MaterialsResolved != nil {
		hooks.MaterialsResolved(ctx, res.Materials)
	}

	if doc.Object != nil {
		res.Root = d.buildObject(doc.Object, res.Materials)
	}
	return res, nil
}

// loadImages loads every image with a string url on the worker pool. Images are keyed
// by uuid; failures are keyed by image uuid.
func (d *deserializer) loadImages(ctx context.Context, doc *document.Document, primitive loader.Primitive) (map[string]loadedImage, map[string]AssetFailure) {
	var mu sync.Mutex
	images := make(map[string]loadedImage, len(doc.Images))
	failures := make(map[string]AssetFailure)

	// A WaitGroup provides the barrier since pool.Wait() waits for the pool to drain,
	// which other Parse calls sharing the pool would extend.
	var wg sync.WaitGroup
	for i, img := range doc.Images {
		if img == nil {
			continue
		}
		if img.URL == "" {
			if _, ok := img.Extra["url"]; ok {
				d.logger.Debug("skipping image with non-string url", "image", img.UUID)
			}
			continue
		}

		wg.Add(1)
		imgCap := img
		d.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				loaded, err := d.loadImage(ctx, primitive, imgCap)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					d.logger.Warn("failed to load image", "image", imgCap.UUID, "url", imgCap.URL, "error", err)
					failures[imgCap.UUID] = AssetFailure{URL: imgCap.URL, Err: err}
					return nil, err
				}
				images[imgCap.UUID] = loaded
				return loaded.res, nil
			},
		})
	}
	wg.Wait()
	return images, failures
}

// loadImage fetches one image and, when decoding is enabled, checks that its bytes decode.
func (d *deserializer) loadImage(ctx context.Context, primitive loader.Primitive, img *document.ImageDescriptor) (loadedImage, error) {
	res, err := primitive.Load(ctx, img.URL)
	if err != nil {
		return loadedImage{}, err
	}
	out := loadedImage{res: res}
	if d.decode {
		probe := &common.ImportedTexture{UUID: img.UUID, Data: res.Data}
		if _, err := probe.Decode(); err != nil {
			return loadedImage{}, err
		}
		out.width, out.height = probe.Width, probe.Height
	}
	return out, nil
}

// buildTextures builds one ImportedTexture per texture descriptor. Textures whose image
// failed to load or does not exist get the placeholder texture.
func (d *deserializer) buildTextures(doc *document.Document, images map[string]loadedImage, failures map[string]AssetFailure) map[string]*common.ImportedTexture {
	textures := make(map[string]*common.ImportedTexture, len(doc.Textures))
	for _, desc := range doc.Textures {
		if desc == nil {
			continue
		}
		imageUUID, url := textureImage(doc, desc)

		var tex *common.ImportedTexture
		if img, ok := images[imageUUID]; ok {
			tex = &common.ImportedTexture{
				UUID:     desc.UUID,
				URL:      url,
				Data:     img.res.Data,
				MimeType: img.res.MimeType,
				Width:    img.width,
				Height:   img.height,
			}
		} else {
			if _, failed := failures[imageUUID]; !failed {
				err := ErrImageNotFound
				if doc.Image(imageUUID) != nil {
					err = ErrNoImageURL
				}
				key := imageUUID
				if key == "" {
					key = "texture:" + desc.UUID
				}
				failures[key] = AssetFailure{URL: url, Err: fmt.Errorf("%w: texture %s", err, desc.UUID)}
				d.logger.Warn("texture has no loadable image", "texture", desc.UUID, "image", imageUUID)
			}
			tex = common.PlaceholderTexture(desc.UUID, url)
		}
		tex.Name = desc.Name
		tex.ImageUUID = imageUUID
		tex.AssetPath = desc.UserData.AssetPath()
		tex.SamplerData = samplerFromDescriptor(desc)
		textures[desc.UUID] = tex
	}
	return textures
}

// textureImage returns the image uuid and url a texture refers to.
func textureImage(doc *document.Document, desc *document.TextureDescriptor) (string, string) {
	switch desc.Image.Kind {
	case document.ImageRefString:
		if img := doc.Image(desc.Image.Value); img != nil {
			return img.UUID, img.URL
		}
		return desc.Image.Value, ""
	case document.ImageRefInline:
		if desc.Image.Inline != nil {
			return desc.Image.Inline.UUID, desc.Image.Inline.URL
		}
	}
	return "", ""
}

// buildObject builds a node and its subtree.
func (d *deserializer) buildObject(desc *document.ObjectDescriptor, materials map[string]material.Material) game_object.GameObject {
	opts := []game_object.GameObjectBuilderOption{
		game_object.WithUUID(desc.UUID),
		game_object.WithType(desc.Type),
		game_object.WithName(desc.Name),
		game_object.WithUserData(desc.UserData),
	}
	if raw, ok := desc.Extra["visible"]; ok && string(raw) == "false" {
		opts = append(opts, game_object.WithEnabled(false))
	}

	if !desc.Material.IsZero() || desc.Material.Array {
		ms := make([]material.Material, len(desc.Material.UUIDs))
		for i, uuid := range desc.Material.UUIDs {
			m, ok := materials[uuid]
			if !ok {
				d.logger.Warn("object references unknown material", "object", desc.UUID, "material", uuid)
			}
			ms[i] = m
		}
		if desc.Material.Array {
			opts = append(opts, game_object.WithMaterials(ms))
		} else {
			opts = append(opts, game_object.WithMaterial(ms[0]))
		}
	}

	obj := game_object.NewGameObject(opts...)
	for _, c := range desc.Children {
		if c != nil {
			obj.AddChild(d.buildObject(c, materials))
		}
	}
	return obj
}
