package caption

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSpec() Spec {
	return Spec{
		Text:         "Hello",
		FontSize:     64,
		Color:        "white",
		Duration:     10,
		CanvasWidth:  1920,
		CanvasHeight: 1080,
		OffsetRatio:  DefaultOffsetRatio,
	}
}

func TestBuildEmptyText(t *testing.T) {
	spec := baseSpec()
	spec.Text = ""

	img, err := Build(spec)
	require.NoError(t, err)
	assert.Nil(t, img, "empty text must produce no image, not an empty one")
}

func TestBuildReturnsImage(t *testing.T) {
	img, err := Build(baseSpec())
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Greater(t, img.Width(), PaddingX)
	assert.Greater(t, img.Height(), PaddingY)
	assert.Equal(t, 10.0, img.Duration)
}

func TestDimensionsMatchMeasurement(t *testing.T) {
	spec := baseSpec()
	img, err := Build(spec)
	require.NoError(t, err)
	require.NotNil(t, img)

	face := ResolveFont(spec.FontPath, spec.FontSize)
	textW, textH := Measure(face, spec.Text)

	assert.Equal(t, textW+PaddingX, img.Width())
	assert.Equal(t, textH+PaddingY, img.Height())
}

func TestPlacement(t *testing.T) {
	tests := []struct {
		canvasW, canvasH int
		ratio            float64
	}{
		{1920, 1080, 0.12},
		{1280, 720, 0.12},
		{720, 1280, 0.2},
		{640, 480, 0.0},
		{1920, 1080, -0.1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d_r%.2f", tt.canvasW, tt.canvasH, tt.ratio), func(t *testing.T) {
			spec := baseSpec()
			spec.CanvasWidth = tt.canvasW
			spec.CanvasHeight = tt.canvasH
			spec.OffsetRatio = tt.ratio

			img, err := Build(spec)
			require.NoError(t, err)
			require.NotNil(t, img)

			wantX := (tt.canvasW - img.Width()) / 2
			wantY := int(float64(tt.canvasH/2)+tt.ratio*float64(tt.canvasH)) - img.Height()/2
			assert.Equal(t, wantX, img.X, "horizontally centered")
			assert.Equal(t, wantY, img.Y, "below center by the offset ratio")
		})
	}
}

func TestResolveFontNeverFails(t *testing.T) {
	// A bogus path must degrade to a usable fallback face, not fail.
	face := ResolveFont("/nonexistent/font.ttf", 32)
	require.NotNil(t, face)

	w, h := Measure(face, "fallback")
	assert.Greater(t, w, 0)
	assert.Greater(t, h, 0)
}

func TestBuildWithMissingFontPath(t *testing.T) {
	spec := baseSpec()
	spec.FontPath = "/nonexistent/font.ttf"

	img, err := Build(spec)
	require.NoError(t, err)
	require.NotNil(t, img)
}

func TestBuildTransparentBackground(t *testing.T) {
	img, err := Build(baseSpec())
	require.NoError(t, err)
	require.NotNil(t, img)

	// The padding corners stay fully transparent.
	_, _, _, a := img.RGBA.At(0, 0).RGBA()
	assert.Zero(t, a)
	_, _, _, a = img.RGBA.At(img.Width()-1, img.Height()-1).RGBA()
	assert.Zero(t, a)

	// Some glyph ink must have landed inside the box.
	found := false
	for y := 0; y < img.Height() && !found; y++ {
		for x := 0; x < img.Width(); x++ {
			if _, _, _, a := img.RGBA.At(x, y).RGBA(); a > 0 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected rendered glyph pixels")
}

func TestBuildMultiline(t *testing.T) {
	single, err := Build(baseSpec())
	require.NoError(t, err)

	spec := baseSpec()
	spec.Text = "Hello\nWorld of captions"
	multi, err := Build(spec)
	require.NoError(t, err)
	require.NotNil(t, multi)

	assert.Greater(t, multi.Height(), single.Height())
	assert.Greater(t, multi.Width(), single.Width())
}

func TestBuildInvalidColor(t *testing.T) {
	spec := baseSpec()
	spec.Color = "not-a-color"

	_, err := Build(spec)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "white", want: color.NRGBA{255, 255, 255, 255}},
		{in: "White", want: color.NRGBA{255, 255, 255, 255}},
		{in: "black", want: color.NRGBA{0, 0, 0, 255}},
		{in: "#ffffff", want: color.NRGBA{255, 255, 255, 255}},
		{in: "#ff8000", want: color.NRGBA{255, 128, 0, 255}},
		{in: "#fff", want: color.NRGBA{255, 255, 255, 255}},
		{in: "#f00", want: color.NRGBA{255, 0, 0, 255}},
		{in: "#11223344", want: color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{in: "", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
