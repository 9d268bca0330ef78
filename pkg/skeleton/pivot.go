package skeleton

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RotateAboutPivot describes how to place a sprite of size (w, h) rotated
// clockwise by angleDeg so that pivot (in sprite pixels) stays fixed.
//
// The sprite is rotated about its centre, which yields a bounding box of
// (boundW, boundH). move is the pivot's position inside that bounding box:
// drawing the rotated box at anchor - move puts the pivot on anchor.
func RotateAboutPivot(w, h, angleDeg float64, pivot mgl64.Vec2) (boundW, boundH float64, move mgl64.Vec2) {
	rad := mgl64.DegToRad(angleDeg)
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	boundW = w*cos + h*sin
	boundH = w*sin + h*cos

	fromCentre := pivot.Sub(mgl64.Vec2{w / 2, h / 2})
	rotated := mgl64.Rotate2D(rad).Mul2x1(fromCentre)
	move = mgl64.Vec2{boundW / 2, boundH / 2}.Add(rotated)
	return boundW, boundH, move
}
