package caption

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Tight padding around the rendered glyphs, in pixels.
const (
	PaddingX = 20
	PaddingY = 10
)

// DefaultOffsetRatio places the caption 12% of the canvas height below center.
const DefaultOffsetRatio = 0.12

// Spec describes a caption to render onto a video frame.
type Spec struct {
	Text         string
	FontPath     string
	FontSize     int
	Color        string
	Duration     float64
	CanvasWidth  int
	CanvasHeight int
	OffsetRatio  float64
}

// Image is a rendered caption: a transparent RGBA buffer cropped tightly to
// the text plus padding, together with its top-left position on the canvas.
type Image struct {
	RGBA     *image.RGBA
	X, Y     int
	Duration float64
}

func (im *Image) Width() int  { return im.RGBA.Bounds().Dx() }
func (im *Image) Height() int { return im.RGBA.Bounds().Dy() }

// Build renders the caption described by spec. Empty text yields (nil, nil):
// the caller skips the overlay entirely. Font resolution never fails; an
// unusable font path degrades to the bundled face.
func Build(spec Spec) (*Image, error) {
	if spec.Text == "" {
		return nil, nil
	}

	col, err := ParseColor(spec.Color)
	if err != nil {
		return nil, err
	}

	face := ResolveFont(spec.FontPath, spec.FontSize)
	lines := strings.Split(spec.Text, "\n")
	textW, textH := Measure(face, spec.Text)

	dst := image.NewRGBA(image.Rect(0, 0, textW+PaddingX, textH+PaddingY))
	drawLines(dst, face, col, lines, textW)

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	x := (spec.CanvasWidth - w) / 2
	y := int(float64(spec.CanvasHeight/2)+spec.OffsetRatio*float64(spec.CanvasHeight)) - h/2

	return &Image{RGBA: dst, X: x, Y: y, Duration: spec.Duration}, nil
}

// ResolveFont walks the fallback chain: explicit font file, then the bundled
// Go Regular face, then the basic bitmap font. It never returns an error.
func ResolveFont(path string, size int) font.Face {
	if size <= 0 {
		size = 1
	}
	if path != "" {
		if face, err := loadFontFile(path, size); err == nil {
			return face
		}
	}
	if face, err := newFace(goregular.TTF, size); err == nil {
		return face
	}
	return basicfont.Face7x13
}

func loadFontFile(path string, size int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newFace(data, size)
}

func newFace(data []byte, size int) (font.Face, error) {
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Measure returns the pixel dimensions of the text's ink bounds for the given
// face. Multi-line text is measured as the widest line by the summed line
// advance.
func Measure(face font.Face, text string) (w, h int) {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		bounds, _ := font.BoundString(face, text)
		return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil()
	}

	lineHeight := face.Metrics().Height.Ceil()
	for _, line := range lines {
		bounds, _ := font.BoundString(face, line)
		if lw := (bounds.Max.X - bounds.Min.X).Ceil(); lw > w {
			w = lw
		}
	}
	return w, lineHeight * len(lines)
}

func drawLines(dst *image.RGBA, face font.Face, col color.NRGBA, lines []string, textW int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}

	if len(lines) == 1 {
		bounds, _ := font.BoundString(face, lines[0])
		d.Dot = fixed.Point26_6{
			X: fixed.I(PaddingX/2) - bounds.Min.X,
			Y: fixed.I(PaddingY/2) - bounds.Min.Y,
		}
		d.DrawString(lines[0])
		return
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	for i, line := range lines {
		bounds, _ := font.BoundString(face, line)
		lineW := (bounds.Max.X - bounds.Min.X).Ceil()
		d.Dot = fixed.Point26_6{
			X: fixed.I(PaddingX/2+(textW-lineW)/2) - bounds.Min.X,
			Y: fixed.I(PaddingY/2 + ascent + i*lineHeight),
		}
		d.DrawString(line)
	}
}

var colorNames = map[string]color.NRGBA{
	"white":   {255, 255, 255, 255},
	"black":   {0, 0, 0, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 128, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {128, 0, 128, 255},
	"pink":    {255, 192, 203, 255},
	"silver":  {192, 192, 192, 255},
}

// ParseColor accepts a color name ("white") or a hex string ("#ffffff",
// "#fff", "#ffffffff").
func ParseColor(s string) (color.NRGBA, error) {
	if c, ok := colorNames[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if hex == s {
		return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
	}

	var c color.NRGBA
	c.A = 255
	switch len(hex) {
	case 3:
		_, err := fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return c, nil
}
