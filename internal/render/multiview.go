package render

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

const (
	defaultSampleStride = 2
	defaultPadding      = 1.25

	// viewDistanceFactor places each camera this many max-extents from the
	// scene center. Distance does not affect orthographic image size, only
	// hit distances (and thereby fog).
	viewDistanceFactor = 2.0

	// separatorHalfWidth is drawn on each side of the internal quadrant
	// boundaries; borderWidth frames the outer canvas edge.
	separatorHalfWidth = 4
	borderWidth        = 2
)

// ErrBadTileSize is returned for non-positive tile dimensions.
var ErrBadTileSize = errors.New("tile dimensions must be positive")

// Options configures one multi-view render.
type Options struct {
	OutputPath string
	TileWidth  int
	TileHeight int

	// SampleStride is the pixel block size sampled per primary ray; zero
	// selects the default. Larger strides trade fidelity for speed.
	SampleStride int

	// Padding scales the viewport beyond the model's extent; zero selects
	// the default.
	Padding float64
}

// log is a no-op until the host wires a real logger via SetLogger. Progress
// output is observational only; rendering does not depend on it.
var log = zap.NewNop()

// SetLogger routes render progress logging to l.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// viewConfig is one fixed camera setup and its quadrant on the canvas.
type viewConfig struct {
	name   string
	offset math.Vec3 // camera offset from scene center, in max-extents
	up     math.Vec3
	quadX  int
	quadY  int
}

// The four fixed views, processed in this order. The world is Z-up.
var viewConfigs = []viewConfig{
	{"top", math.Vec3{Z: 1}, math.Vec3{Y: 1}, 0, 0},
	{"three-quarter", math.Vec3{X: 0.7, Y: -0.7, Z: 0.7}, math.Vec3{Z: 1}, 1, 0},
	{"side", math.Vec3{X: 1}, math.Vec3{Z: 1}, 0, 1},
	{"front", math.Vec3{Y: -1}, math.Vec3{Z: 1}, 1, 1},
}

// Render draws the meshes from four fixed orthographic views into a
// (2×TileWidth)×(2×TileHeight) canvas with black separator bars and writes
// the encoded image to Options.OutputPath. The render either completes
// fully or fails without touching the output path.
func Render(meshes []*formats.Mesh, opts Options) error {
	if opts.TileWidth <= 0 || opts.TileHeight <= 0 {
		return fmt.Errorf("%dx%d: %w", opts.TileWidth, opts.TileHeight, ErrBadTileSize)
	}
	stride := opts.SampleStride
	if stride <= 0 {
		stride = defaultSampleStride
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = defaultPadding
	}

	scene := NewScene(meshes)
	center := scene.Center()
	extent := scene.MaxExtent()

	minTile := opts.TileWidth
	if opts.TileHeight < minTile {
		minTile = opts.TileHeight
	}
	scale := extent / float64(minTile) * padding

	log.Info("rendering multi-view preview",
		zap.Int("triangles", len(scene.Triangles)),
		zap.Int("width", 2*opts.TileWidth),
		zap.Int("height", 2*opts.TileHeight),
		zap.Int("stride", stride))

	fb := NewFramebuffer(2*opts.TileWidth, 2*opts.TileHeight)

	distance := extent * viewDistanceFactor
	for _, vc := range viewConfigs {
		position := center.Add(vc.offset.Normalize().Scale(distance))
		cam, err := NewOrthoCamera(position, center, vc.up,
			float64(opts.TileWidth), float64(opts.TileHeight), scale)
		if err != nil {
			return fmt.Errorf("building %s view: %w", vc.name, err)
		}
		renderView(fb, scene, cam, vc, opts.TileWidth, opts.TileHeight, stride)
	}

	drawSeparators(fb, opts.TileWidth, opts.TileHeight)

	return writeImage(fb, opts.OutputPath)
}

// renderView fills one quadrant. Pixels are sampled on a stride grid; each
// sample's color is replicated across its stride×stride block.
func renderView(fb *Framebuffer, scene *Scene, cam *Camera, vc viewConfig, tileW, tileH, stride int) {
	offsetX := vc.quadX * tileW
	offsetY := vc.quadY * tileH

	rayFor := func(px, py int) math.Ray {
		return cam.PixelRay(px, py, tileW, tileH)
	}

	progressStep := tileH / 4
	if progressStep == 0 {
		progressStep = tileH
	}

	for py := 0; py < tileH; py += stride {
		for px := 0; px < tileW; px += stride {
			ray := cam.PixelRay(px, py, tileW, tileH)

			var color math.Vec3
			if hit, ok := CastRay(ray, scene); ok {
				if DetectOutline(ray, scene, px, py, tileW, tileH, rayFor).IsOutline {
					color = math.Vec3{}
				} else {
					color = Shade(hit, scene)
				}
			} else {
				color = BackgroundColor(ray, scene)
			}

			for by := 0; by < stride && py+by < tileH; by++ {
				for bx := 0; bx < stride && px+bx < tileW; bx++ {
					fb.SetColor(offsetX+px+bx, offsetY+py+by, color)
				}
			}
		}
		if py > 0 && py%progressStep < stride {
			log.Debug("view progress",
				zap.String("view", vc.name),
				zap.Int("percent", py*100/tileH))
		}
	}

	log.Debug("view complete", zap.String("view", vc.name))
}

// drawSeparators draws the black bars at the internal quadrant boundaries
// and around the outer canvas edge.
func drawSeparators(fb *Framebuffer, tileW, tileH int) {
	w, h := fb.Width, fb.Height

	fb.FillRect(tileW-separatorHalfWidth, 0, tileW+separatorHalfWidth, h, 0, 0, 0, 255)
	fb.FillRect(0, tileH-separatorHalfWidth, w, tileH+separatorHalfWidth, 0, 0, 0, 255)

	fb.FillRect(0, 0, w, borderWidth, 0, 0, 0, 255)
	fb.FillRect(0, h-borderWidth, w, h, 0, 0, 0, 255)
	fb.FillRect(0, 0, borderWidth, h, 0, 0, 0, 255)
	fb.FillRect(w-borderWidth, 0, w, h, 0, 0, 0, 255)
}
