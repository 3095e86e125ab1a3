package frames

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Store is an immutable ordered sequence of decoded animation frames
type Store struct {
	frames []image.Image
}

// NewStore wraps already decoded frames
func NewStore(frames []image.Image) *Store {
	return &Store{frames: frames}
}

// Len returns the number of frames
func (s *Store) Len() int {
	return len(s.frames)
}

// Frame returns the frame at index i
func (s *Store) Frame(i int) image.Image {
	return s.frames[i]
}

// Load reads the first count frames of the animated GIF at path and scales
// them to the given height (0 keeps the original size). On any failure an
// empty Store is returned together with an error wrapping domain.ErrFrameLoad.
func Load(logger *zap.Logger, path string, count, height int) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return NewStore(nil), fmt.Errorf("%w: %w", domain.ErrFrameLoad, err)
	}
	defer f.Close()

	frames, err := Decode(f, count, height)
	if err != nil {
		return NewStore(nil), fmt.Errorf("%w: %s: %w", domain.ErrFrameLoad, path, err)
	}

	logger.Info("Animation loaded",
		zap.String("path", path),
		zap.Int("frames", len(frames)),
		zap.Int("height", height))

	return NewStore(frames), nil
}

// Decode composes the first count frames of a GIF stream into full images
func Decode(r io.Reader, count, height int) ([]image.Image, error) {
	if count <= 0 {
		return nil, nil
	}

	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}
	if len(g.Image) < count {
		return nil, fmt.Errorf("expected %d frames, found %d", count, len(g.Image))
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	var errs error
	for i := 0; i < count; i++ {
		if !g.Image[i].Bounds().In(bounds) {
			errs = multierr.Append(errs, fmt.Errorf("frame %d bounds %v outside canvas %v", i, g.Image[i].Bounds(), bounds))
		}
	}
	if errs != nil {
		return nil, errs
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, count)
	for i := 0; i < count; i++ {
		frame := g.Image[i]

		var previous *image.NRGBA
		disposal := disposalOf(g, i)
		if disposal == gif.DisposalPrevious {
			previous = imaging.Clone(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		var out image.Image = imaging.Clone(canvas)
		if height > 0 && height != bounds.Dy() {
			out = imaging.Resize(out, 0, height, imaging.Lanczos)
		}
		frames = append(frames, out)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, bounds, previous, image.Point{}, draw.Src)
		}
	}

	return frames, nil
}

func disposalOf(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}
