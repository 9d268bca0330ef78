package utils

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleImage 把图片平滑缩放到 width x height
//
// 用于把背景图铺满窗口；只应在加载时调用，不要每帧调用。
// 尺寸无效或与原图一致时返回原图。
func ScaleImage(src image.Image, width, height int) image.Image {
	if src == nil || width <= 0 || height <= 0 {
		return src
	}
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
