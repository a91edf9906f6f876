package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is an optional yaml settings file. Only the fields present in the
// file override the options; everything else keeps its current value.
type Profile struct {
	Output      *string  `yaml:"output"`
	Text        *string  `yaml:"text"`
	FontPath    *string  `yaml:"font_path"`
	FontSize    *int     `yaml:"font_size"`
	Color       *string  `yaml:"color"`
	OffsetRatio *float64 `yaml:"offset_ratio"`
	FPS         *float64 `yaml:"fps"`
	Codec       *string  `yaml:"codec"`
	Preset      *string  `yaml:"preset"`
	Quality     *int     `yaml:"quality"`
	Threads     *int     `yaml:"threads"`
	FFmpegPath  *string  `yaml:"ffmpeg_path"`
	FFprobePath *string  `yaml:"ffprobe_path"`
}

// ApplyProfile overlays the yaml profile at path onto o.
func (o *Options) ApplyProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse profile %s: %w", path, err)
	}

	if p.Output != nil {
		o.Output = *p.Output
	}
	if p.Text != nil {
		o.Text = *p.Text
	}
	if p.FontPath != nil {
		o.FontPath = *p.FontPath
	}
	if p.FontSize != nil {
		o.FontSize = *p.FontSize
	}
	if p.OffsetRatio != nil {
		o.OffsetRatio = *p.OffsetRatio
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
	if p.FPS != nil {
		o.FPS = *p.FPS
	}
	if p.Codec != nil {
		o.Codec = *p.Codec
	}
	if p.Preset != nil {
		o.Preset = *p.Preset
	}
	if p.Quality != nil {
		o.Quality = *p.Quality
	}
	if p.Threads != nil {
		o.Threads = *p.Threads
	}
	if p.FFmpegPath != nil {
		o.FFmpegPath = *p.FFmpegPath
	}
	if p.FFprobePath != nil {
		o.FFprobePath = *p.FFprobePath
	}
	return nil
}
