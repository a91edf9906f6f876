package config

import (
	"fmt"

	"github.com/ivlev/vidjoin/internal/caption"
)

// Options holds the full configuration of a run. Every field has a named
// default; the CLI overrides them with flags, optionally on top of a yaml
// profile.
type Options struct {
	Input1 string
	Input2 string
	Output string

	Text        string
	FontPath    string
	FontSize    int
	Color       string
	OffsetRatio float64

	FPS     float64 // 0: derive from the inputs
	Codec   string  // "auto" probes for hardware encoders
	Preset  string
	Quality int // 0: per-encoder default
	Threads int // 0: derive from CPU topology

	FFmpegPath  string
	FFprobePath string

	Verbose bool
}

func Defaults() Options {
	return Options{
		Output:      "output.mp4",
		FontSize:    64,
		Color:       "white",
		OffsetRatio: caption.DefaultOffsetRatio,
		Codec:       "auto",
		Preset:      "medium",
		Quality:     20,
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
	}
}

var presets = map[string]bool{
	"ultrafast": true,
	"superfast": true,
	"veryfast":  true,
	"faster":    true,
	"fast":      true,
	"medium":    true,
	"slow":      true,
	"slower":    true,
	"veryslow":  true,
}

// Validate rejects degenerate inputs before the pipeline starts; the caption
// builder and encoder assume they only ever see sane values.
func (o Options) Validate() error {
	if o.Input1 == "" || o.Input2 == "" {
		return fmt.Errorf("two input videos are required")
	}
	if o.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if o.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", o.FontSize)
	}
	if o.OffsetRatio < -0.5 || o.OffsetRatio > 0.5 {
		return fmt.Errorf("offset ratio %.2f out of range [-0.5, 0.5]", o.OffsetRatio)
	}
	if o.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %g", o.FPS)
	}
	if !presets[o.Preset] {
		return fmt.Errorf("unknown preset %q", o.Preset)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality %d out of range [0, 100]", o.Quality)
	}
	if o.Threads < 0 {
		return fmt.Errorf("threads must not be negative, got %d", o.Threads)
	}
	return nil
}
