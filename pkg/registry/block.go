// Package registry provides the read-only lookup tables the world core
// consumes as external collaborators: block metadata, texture-array
// layer ids, and decoration prefabs. They are loaded once, from YAML,
// at world construction.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridgeline-games/voxelworld/pkg/voxel"
)

// BlockMeta carries the static properties of one registered block:
// namespace, name, transparency, hardness, rotation behavior, and
// per-face textures.
type BlockMeta struct {
	Namespace   string
	Name        string
	Transparent bool
	Hardness    float32
	Rotation    voxel.RotationType
	Faces       map[voxel.Face]string
}

// FullName returns "namespace:name".
func (b BlockMeta) FullName() string {
	return b.Namespace + ":" + b.Name
}

// FaceTexture returns the texture name for face f, or "" if the block
// doesn't define one (the mesh builder then falls back to a missing
// texture layer rather than failing).
func (b BlockMeta) FaceTexture(f voxel.Face) string {
	return b.Faces[f]
}

// blockDef is the on-disk YAML shape for one block entry.
type blockDef struct {
	Name        string            `yaml:"name"`
	Transparent bool              `yaml:"transparent"`
	Hardness    float32           `yaml:"hardness"`
	Rotation    string            `yaml:"rotation"`
	Textures    []string          `yaml:"textures"`
	Faces       map[string]string `yaml:"faces"`
}

type blockFile struct {
	Blocks []blockDef `yaml:"blocks"`
}

// BlockRegistry resolves block ids to metadata and back. Block id 0 is
// always "core:air".
type BlockRegistry struct {
	blocks   []BlockMeta
	nameToID map[string]uint16
}

// NewBlockRegistry returns a registry containing only "core:air" at id 0.
func NewBlockRegistry() *BlockRegistry {
	r := &BlockRegistry{nameToID: make(map[string]uint16)}
	r.register(BlockMeta{Namespace: "core", Name: "air", Transparent: true})
	return r
}

func (r *BlockRegistry) register(meta BlockMeta) uint16 {
	if id, ok := r.nameToID[meta.FullName()]; ok {
		return id
	}
	id := uint16(len(r.blocks))
	r.blocks = append(r.blocks, meta)
	r.nameToID[meta.FullName()] = id
	return id
}

// LoadBlocksYAML registers every block defined in the YAML file at
// path under the given namespace, in declaration order.
func LoadBlocksYAML(r *BlockRegistry, namespace, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("registry: read block file %s: %w", path, err)
	}
	var doc blockFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("registry: parse block file %s: %w", path, err)
	}
	for _, def := range doc.Blocks {
		faces, err := resolveFaces(def)
		if err != nil {
			return fmt.Errorf("registry: block %q: %w", def.Name, err)
		}
		r.register(BlockMeta{
			Namespace:   namespace,
			Name:        def.Name,
			Transparent: def.Transparent,
			Hardness:    def.Hardness,
			Rotation:    parseRotation(def.Rotation),
			Faces:       faces,
		})
	}
	return nil
}

func parseRotation(s string) voxel.RotationType {
	switch s {
	case "horizontal":
		return voxel.RotationHorizontal
	case "axis":
		return voxel.RotationAxis
	default:
		return voxel.RotationNone
	}
}

func resolveFaces(def blockDef) (map[voxel.Face]string, error) {
	if len(def.Faces) > 0 {
		out := make(map[voxel.Face]string, len(def.Faces))
		for name, tex := range def.Faces {
			f, ok := faceByName[name]
			if !ok {
				return nil, fmt.Errorf("unknown face %q", name)
			}
			out[f] = tex
		}
		return out, nil
	}
	switch len(def.Textures) {
	case 0:
		return nil, fmt.Errorf("block %q needs either textures or faces", def.Name)
	case 1:
		return uniformFaces(def.Textures[0]), nil
	case 6:
		// order: north, south, west, east, up, down
		return map[voxel.Face]string{
			voxel.FaceNorth: def.Textures[0],
			voxel.FaceSouth: def.Textures[1],
			voxel.FaceWest:  def.Textures[2],
			voxel.FaceEast:  def.Textures[3],
			voxel.FaceUp:    def.Textures[4],
			voxel.FaceDown:  def.Textures[5],
		}, nil
	default:
		return nil, fmt.Errorf("block %q: textures must have length 1 or 6, got %d", def.Name, len(def.Textures))
	}
}

var faceByName = map[string]voxel.Face{
	"up": voxel.FaceUp, "down": voxel.FaceDown,
	"north": voxel.FaceNorth, "south": voxel.FaceSouth,
	"east": voxel.FaceEast, "west": voxel.FaceWest,
}

func uniformFaces(texture string) map[voxel.Face]string {
	out := make(map[voxel.Face]string, 6)
	for _, f := range voxel.Faces {
		out[f] = texture
	}
	return out
}

// Get returns the metadata for id. Out-of-range id is a programming
// error; it returns the air metadata rather than panicking, since the
// mesh pipeline must never crash on a corrupt snapshot.
func (r *BlockRegistry) Get(id uint16) BlockMeta {
	if int(id) >= len(r.blocks) {
		return r.blocks[0]
	}
	return r.blocks[id]
}

// GetByName resolves "namespace:name" to a block id, or 0 (air) if unknown.
func (r *BlockRegistry) GetByName(name string) uint16 {
	return r.nameToID[name]
}

// IsAir reports whether id is the air block.
func (r *BlockRegistry) IsAir(id uint16) bool {
	return id == 0
}

// IsEqual reports whether id resolves to the given full name.
func (r *BlockRegistry) IsEqual(id uint16, name string) bool {
	return r.Get(id).FullName() == name
}
