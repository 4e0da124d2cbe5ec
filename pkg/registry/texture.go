package registry

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// MissingTextureLayer is the layer id used when a texture name can't
// be resolved; the mesh builder must keep working rather than fail.
const MissingTextureLayer = 0

type textureFile struct {
	Textures []string `yaml:"textures"`
}

// TextureRegistry maps texture names to stable numeric texture-array
// layer ids. It doesn't know or care how atlases are packed.
type TextureRegistry struct {
	mu       sync.RWMutex
	nameToID map[string]uint16
	warned   map[string]bool
}

// NewTextureRegistry returns an empty registry; layer 0 is reserved as
// the "missing texture" fallback.
func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{
		nameToID: map[string]uint16{"missing": MissingTextureLayer},
		warned:   make(map[string]bool),
	}
}

// LoadTexturesYAML assigns incrementing layer ids, in file order, to
// every texture name not already registered.
func LoadTexturesYAML(r *TextureRegistry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("registry: read texture file %s: %w", path, err)
	}
	var doc textureFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("registry: parse texture file %s: %w", path, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range doc.Textures {
		if _, ok := r.nameToID[name]; ok {
			continue
		}
		r.nameToID[name] = uint16(len(r.nameToID))
	}
	return nil
}

// GetByName returns the layer id for name and whether it was found. An
// unresolved name is not fatal: callers should fall back to
// MissingTextureLayer and may log once.
func (r *TextureRegistry) GetByName(name string) (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	return id, ok
}

// WarnOnce reports whether this is the first time name has been seen
// as unresolved, so callers can log a single warning per unknown
// texture instead of spamming per face.
func (r *TextureRegistry) WarnOnce(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warned[name] {
		return false
	}
	r.warned[name] = true
	return true
}
