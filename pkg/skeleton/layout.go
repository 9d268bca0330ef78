package skeleton

import (
	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultScale shrinks the whole puppet relative to the canvas centre.
const DefaultScale = 0.79

// DefaultStageOffsetY nudges the puppet down before scaling so the feet sit on the stage.
const DefaultStageOffsetY = 65

// Canvas is the render target geometry.
type Canvas struct {
	Width, Height int

	// Scale applies to sprite size and to positions relative to the centre
	Scale float64

	// StageOffsetY is added to y before scaling
	StageOffsetY float64
}

// Centre returns the integer-half centre of the canvas.
func (c Canvas) Centre() mgl64.Vec2 {
	return mgl64.Vec2{float64(c.Width / 2), float64(c.Height / 2)}
}

// ToScreen maps a canvas position through the global scale.
func (c Canvas) ToScreen(p mgl64.Vec2) mgl64.Vec2 {
	centre := c.Centre()
	return mgl64.Vec2{
		(p.X()-centre.X())*c.Scale + centre.X(),
		(p.Y()-centre.Y()+c.StageOffsetY)*c.Scale + centre.Y(),
	}
}

// Placement is where and how one bone sprite is drawn this frame.
type Placement struct {
	Bone Bone

	// Angle is the clockwise rotation in degrees
	Angle float64

	// Anchor is the screen position the pivot lands on
	Anchor mgl64.Vec2

	// BoundW/BoundH is the unscaled bounding box of the rotated sprite
	BoundW, BoundH float64

	// Move is the pivot's unscaled position inside the rotated bounding box
	Move mgl64.Vec2

	// Position is the top-left corner of the scaled rotated bounding box
	Position mgl64.Vec2

	Scale float64
}

// Layout computes the placement of every renderable bone, in draw order.
//
// A bone is skipped for this frame when either endpoint is missing from
// current, or its start joint is missing from baseline.
func Layout(current, baseline clip.Pose, table *BoneTable, canvas Canvas) []Placement {
	bones := table.Bones()
	out := make([]Placement, 0, len(bones))

	for _, b := range bones {
		p1, ok := current[b.Start]
		if !ok {
			continue
		}
		p2, ok := current[b.End]
		if !ok {
			continue
		}
		p1Base, ok := baseline[b.Start]
		if !ok {
			continue
		}

		dx := p1.X - p1Base.X
		dy := p1.Y - p1Base.Y
		base := mgl64.Vec2{p1Base.X + dx, p1Base.Y + dy}.Add(b.Offset)

		angle := BoneAngle(p1.X, p1.Y, p2.X, p2.Y)
		boundW, boundH, move := RotateAboutPivot(b.Size.W, b.Size.H, angle, b.Pivot)

		anchor := canvas.ToScreen(base)
		out = append(out, Placement{
			Bone:     b,
			Angle:    angle,
			Anchor:   anchor,
			BoundW:   boundW,
			BoundH:   boundH,
			Move:     move,
			Position: anchor.Sub(move.Mul(canvas.Scale)),
			Scale:    canvas.Scale,
		})
	}
	return out
}
