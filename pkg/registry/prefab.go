package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Placement is one block placement relative to a prefab's origin.
// Offsets are unconstrained relative coordinates: placing a prefab
// near a chunk border can legitimately spill into neighboring chunks.
type Placement struct {
	DX, DY, DZ int32
	Block      string // "namespace:name"
}

// Prefab is a named, multi-block structure (a tree, a small ruin, ...)
// authored in a local coordinate system.
type Prefab struct {
	Name       string
	Placements []Placement
}

type prefabDef struct {
	Name   string `yaml:"name"`
	Blocks []struct {
		DX    int32  `yaml:"dx"`
		DY    int32  `yaml:"dy"`
		DZ    int32  `yaml:"dz"`
		Block string `yaml:"block"`
	} `yaml:"blocks"`
}

type prefabFile struct {
	Prefabs []prefabDef `yaml:"prefabs"`
}

// PrefabRegistry is a read-only, name-indexed table of Prefabs, the
// TerrainGenerator's sole decoration input.
type PrefabRegistry struct {
	byName map[string]Prefab
	names  []string
}

// NewPrefabRegistry returns an empty registry.
func NewPrefabRegistry() *PrefabRegistry {
	return &PrefabRegistry{byName: make(map[string]Prefab)}
}

// LoadPrefabsYAML registers every prefab defined in the YAML file at path.
func LoadPrefabsYAML(r *PrefabRegistry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("registry: read prefab file %s: %w", path, err)
	}
	var doc prefabFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("registry: parse prefab file %s: %w", path, err)
	}
	for _, def := range doc.Prefabs {
		p := Prefab{Name: def.Name}
		for _, b := range def.Blocks {
			p.Placements = append(p.Placements, Placement{DX: b.DX, DY: b.DY, DZ: b.DZ, Block: b.Block})
		}
		if _, exists := r.byName[p.Name]; !exists {
			r.names = append(r.names, p.Name)
		}
		r.byName[p.Name] = p
	}
	return nil
}

// Get returns the prefab named name and whether it exists.
func (r *PrefabRegistry) Get(name string) (Prefab, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns all registered prefab names in registration order.
func (r *PrefabRegistry) Names() []string {
	return r.names
}
