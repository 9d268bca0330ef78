package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/shadowpuppet/pkg/skeleton"
	"github.com/decker502/shadowpuppet/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ResourceManager loads and caches images and font faces from disk.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. Resources are loaded by the main
// goroutine during startup, before the game loop starts.
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image    // Cache for loaded images: path -> Image
	fontFaceCache map[string]*text.GoTextFace // Cache for Ebitengine v2 text faces
}

// Sprites is the loaded sprite set of a skeleton.
type Sprites struct {
	Images map[string]*ebiten.Image // bone name -> sprite
	Sizes  map[string]skeleton.Size // bone name -> sprite size in pixels
}

// NewResourceManager creates a ResourceManager with empty caches.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		fontFaceCache: make(map[string]*text.GoTextFace),
	}
}

// decodeImageFile opens and decodes a PNG or JPEG file.
func decodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadImage loads an image file and caches it for future use.
// If the image has already been loaded, it returns the cached image.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}

	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// LoadBackground loads the stage background smoothly scaled to width x height.
// The scaled image is not cached; call it once at startup.
func (rm *ResourceManager) LoadBackground(path string, width, height int) (*ebiten.Image, error) {
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(utils.ScaleImage(img, width, height)), nil
}

// LoadSprites loads one sprite per bone from dir.
//
// A missing or broken sprite is logged and its bone is left out of the
// result, so the rest of the puppet can still be drawn.
//
// Returns:
//   - An error only if no sprite at all could be loaded.
func (rm *ResourceManager) LoadSprites(dir string, defs []skeleton.BoneDef) (*Sprites, error) {
	sprites := &Sprites{
		Images: make(map[string]*ebiten.Image, len(defs)),
		Sizes:  make(map[string]skeleton.Size, len(defs)),
	}
	for _, d := range defs {
		path := filepath.Join(dir, d.Sprite)
		img, err := rm.LoadImage(path)
		if err != nil {
			log.Printf("[ResourceManager] Warning: sprite for bone %s: %v", d.Name, err)
			continue
		}
		b := img.Bounds()
		sprites.Images[d.Name] = img
		sprites.Sizes[d.Name] = skeleton.Size{W: float64(b.Dx()), H: float64(b.Dy())}
	}
	if len(sprites.Images) == 0 {
		return nil, fmt.Errorf("no sprite could be loaded from %s", dir)
	}
	log.Printf("[ResourceManager] Loaded %d/%d sprites from %s", len(sprites.Images), len(defs), dir)
	return sprites, nil
}

// LoadFont loads a TrueType/OpenType font and returns a face of the given size.
//
// Parameters:
//   - path: The file path of the font file.
//   - size: The font size in points.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	fontData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace
	return goTextFace, nil
}
