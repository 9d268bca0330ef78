package skeleton

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/go-gl/mathgl/mgl64"
)

// BoneDef is the static declaration of a bone, as written in the skeleton table.
type BoneDef struct {
	Name string `yaml:"name"`

	// Start and End are the joint names the bone connects
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	// DrawOrder controls z-stacking, higher values are drawn later (in front)
	DrawOrder int `yaml:"draw_order"`

	// Offset is added to the start joint position before placement
	Offset []float64 `yaml:"offset,omitempty"`

	// Pivot pins the rotation pivot in sprite pixels. When empty the pivot
	// is the top centre of the sprite (w/2, 0).
	Pivot []float64 `yaml:"pivot,omitempty"`

	// Sprite is the image file name relative to the sprite directory
	Sprite string `yaml:"sprite"`
}

// Size is a sprite size in pixels.
type Size struct {
	W, H float64
}

// Bone is a finalized bone ready for placement.
type Bone struct {
	Name      string
	Start     string
	End       string
	DrawOrder int
	Pivot     mgl64.Vec2
	Offset    mgl64.Vec2
	Sprite    string
	Size      Size

	// Index is the declaration order, used to break draw order ties
	Index int
}

// BoneTable is an immutable, draw-ordered list of bones.
type BoneTable struct {
	bones []Bone
}

// DefaultBoneDefs returns the ten bones of the shadow puppet.
func DefaultBoneDefs() []BoneDef {
	return []BoneDef{
		{Name: "body", Start: clip.JointUpperNeck, End: clip.JointPelvis, DrawOrder: 3, Sprite: "body.png"},
		{Name: "head", Start: clip.JointHeadTop, End: clip.JointUpperNeck, DrawOrder: 2, Offset: []float64{-5, -60}, Sprite: "head.png"},
		{Name: "right_hip", Start: clip.JointRightHip, End: clip.JointRightKnee, DrawOrder: 1, Sprite: "right_hip.png"},
		{Name: "right_knee", Start: clip.JointRightKnee, End: clip.JointRightAnkle, DrawOrder: 3, Sprite: "right_knee.png"},
		{Name: "left_hip", Start: clip.JointLeftHip, End: clip.JointLeftKnee, DrawOrder: 1, Sprite: "left_hip.png"},
		{Name: "left_knee", Start: clip.JointLeftKnee, End: clip.JointLeftAnkle, DrawOrder: 3, Sprite: "left_knee.png"},
		{Name: "right_elbow", Start: clip.JointRightShoulder, End: clip.JointRightElbow, DrawOrder: 4, Sprite: "right_elbow.png"},
		{Name: "right_wrist", Start: clip.JointRightElbow, End: clip.JointRightWrist, DrawOrder: 4, Sprite: "right_wrist.png"},
		{Name: "left_elbow", Start: clip.JointLeftShoulder, End: clip.JointLeftElbow, DrawOrder: 1, Sprite: "left_elbow.png"},
		{Name: "left_wrist", Start: clip.JointLeftElbow, End: clip.JointLeftWrist, DrawOrder: 2, Sprite: "left_wrist.png"},
	}
}

// ValidateBoneDefs checks names and joint pairs.
func ValidateBoneDefs(defs []BoneDef) error {
	seen := make(map[string]bool, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("bone #%d is missing 'name'", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate bone '%s'", d.Name)
		}
		seen[d.Name] = true
		if d.Start == "" || d.End == "" {
			return fmt.Errorf("bone '%s' needs both 'start' and 'end' joints", d.Name)
		}
		if d.Start == d.End {
			return fmt.Errorf("bone '%s' connects joint '%s' to itself", d.Name, d.Start)
		}
		if len(d.Offset) != 0 && len(d.Offset) != 2 {
			return fmt.Errorf("bone '%s' offset must have 2 values, got %d", d.Name, len(d.Offset))
		}
		if len(d.Pivot) != 0 && len(d.Pivot) != 2 {
			return fmt.Errorf("bone '%s' pivot must have 2 values, got %d", d.Name, len(d.Pivot))
		}
	}
	return nil
}

// NewBoneTable finalizes bone geometry from the loaded sprite sizes.
//
// A bone whose sprite size is unknown is left out of the table (logged),
// the rest of the skeleton still renders.
func NewBoneTable(defs []BoneDef, sizes map[string]Size) (*BoneTable, error) {
	if err := ValidateBoneDefs(defs); err != nil {
		return nil, err
	}

	bones := make([]Bone, 0, len(defs))
	for i, d := range defs {
		size, ok := sizes[d.Name]
		if !ok {
			log.Printf("[Skeleton] 警告: 部件 %s 没有素材尺寸，跳过", d.Name)
			continue
		}
		b := Bone{
			Name:      d.Name,
			Start:     d.Start,
			End:       d.End,
			DrawOrder: d.DrawOrder,
			Pivot:     mgl64.Vec2{float64(int(size.W) / 2), 0},
			Sprite:    d.Sprite,
			Size:      size,
			Index:     i,
		}
		if len(d.Pivot) == 2 {
			b.Pivot = mgl64.Vec2{d.Pivot[0], d.Pivot[1]}
		}
		if len(d.Offset) == 2 {
			b.Offset = mgl64.Vec2{d.Offset[0], d.Offset[1]}
		}
		bones = append(bones, b)
	}

	sort.SliceStable(bones, func(i, j int) bool {
		return bones[i].DrawOrder < bones[j].DrawOrder
	})

	return &BoneTable{bones: bones}, nil
}

// Bones returns the bones in draw order. The slice must not be modified.
func (t *BoneTable) Bones() []Bone {
	if t == nil {
		return nil
	}
	return t.bones
}

// Len returns the number of bones.
func (t *BoneTable) Len() int {
	return len(t.Bones())
}

// Bone looks a bone up by name.
func (t *BoneTable) Bone(name string) (Bone, bool) {
	for _, b := range t.Bones() {
		if b.Name == name {
			return b, true
		}
	}
	return Bone{}, false
}

// Pivots returns the current pivot of every bone.
func (t *BoneTable) Pivots() map[string]mgl64.Vec2 {
	out := make(map[string]mgl64.Vec2, t.Len())
	for _, b := range t.Bones() {
		out[b.Name] = b.Pivot
	}
	return out
}

// WithPivots returns a copy of the table with the given pivots replaced.
// Unknown bone names are ignored.
func (t *BoneTable) WithPivots(pivots map[string]mgl64.Vec2) *BoneTable {
	bones := make([]Bone, len(t.Bones()))
	copy(bones, t.Bones())
	for i := range bones {
		if p, ok := pivots[bones[i].Name]; ok {
			bones[i].Pivot = p
		}
	}
	return &BoneTable{bones: bones}
}
