package empatches

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// LoadImage reads a PNG or JPEG file and returns a 3-channel RGB
// raster regardless of the source color model.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fromGoImage(src, 3), nil
}

// SaveImage writes img as JPEG when the path ends in .jpg/.jpeg, PNG
// otherwise.
func SaveImage(path string, img *Image) error {
	goImg, err := toGoImage(img)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, goImg, nil)
	default:
		err = png.Encode(f, goImg)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// FitWithin downscales img so that its longer side is at most maxDim,
// preserving aspect ratio. Inputs already within the bound are returned
// unchanged.
func FitWithin(img *Image, maxDim int) (*Image, error) {
	if maxDim <= 0 {
		return nil, fmt.Errorf("%w: max dimension must be positive, got %d", ErrInvalidArgument, maxDim)
	}
	if img.Width <= maxDim && img.Height <= maxDim {
		return img, nil
	}
	goImg, err := toGoImage(img)
	if err != nil {
		return nil, err
	}
	var w, h uint
	if img.Width >= img.Height {
		w = uint(maxDim)
	} else {
		h = uint(maxDim)
	}
	return fromGoImage(resize.Resize(w, h, goImg, resize.Bilinear), img.Channels), nil
}

func writePatch(path string, patch *Image) error {
	goImg, err := toGoImage(patch)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := png.Encode(f, goImg); err != nil {
		f.Close()
		return fmt.Errorf("encode patch: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func readPatch(path string, channels int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return fromGoImage(src, channels), nil
}

func toGoImage(img *Image) (image.Image, error) {
	if !img.wellFormed() {
		return nil, fmt.Errorf("%w: malformed raster", ErrInvalidArgument)
	}
	bounds := image.Rect(0, 0, img.Width, img.Height)
	switch img.Channels {
	case 1:
		out := image.NewGray(bounds)
		copy(out.Pix, img.Pix)
		return out, nil
	case 3:
		out := image.NewNRGBA(bounds)
		for p := 0; p < img.Width*img.Height; p++ {
			out.Pix[p*4+0] = img.Pix[p*3+0]
			out.Pix[p*4+1] = img.Pix[p*3+1]
			out.Pix[p*4+2] = img.Pix[p*3+2]
			out.Pix[p*4+3] = 0xFF
		}
		return out, nil
	case 4:
		out := image.NewNRGBA(bounds)
		copy(out.Pix, img.Pix)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidArgument, img.Channels)
	}
}

func fromGoImage(src image.Image, channels int) *Image {
	bounds := src.Bounds()
	out := NewImage(bounds.Dx(), bounds.Dy(), channels)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			switch channels {
			case 1:
				g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
				out.Pix[i] = g.Y
			case 3:
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				out.Pix[i+0] = c.R
				out.Pix[i+1] = c.G
				out.Pix[i+2] = c.B
			case 4:
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				out.Pix[i+0] = c.R
				out.Pix[i+1] = c.G
				out.Pix[i+2] = c.B
				out.Pix[i+3] = c.A
			}
			i += channels
		}
	}
	return out
}
