package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Clip holds the metadata of a decoded media source that the pipeline needs:
// duration, frame geometry, frame rate and stream presence.
type Clip struct {
	Path       string
	Duration   float64
	Width      int
	Height     int
	FrameRate  float64
	HasAudio   bool
	VideoCodec string
	AudioCodec string
}

// Prober extracts clip metadata via ffprobe.
type Prober struct {
	ffprobePath string
}

func New(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{ffprobePath: ffprobePath}
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Duration     string `json:"duration"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// Probe runs ffprobe against path and returns the clip metadata.
func (p *Prober) Probe(ctx context.Context, path string) (*Clip, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w, stderr: %s", path, err, stderr.String())
	}

	return parseProbeOutput(path, stdout.Bytes())
}

func parseProbeOutput(path string, data []byte) (*Clip, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}

	clip := &Clip{Path: path}

	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		clip.Duration = d
	}

	for _, stream := range out.Streams {
		switch stream.CodecType {
		case "video":
			if clip.VideoCodec != "" {
				continue
			}
			clip.VideoCodec = stream.CodecName
			clip.Width = stream.Width
			clip.Height = stream.Height
			clip.FrameRate = parseFrameRate(stream.AvgFrameRate)
			if clip.FrameRate == 0 {
				clip.FrameRate = parseFrameRate(stream.RFrameRate)
			}
			// Some containers carry duration on the stream only.
			if clip.Duration == 0 {
				if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
					clip.Duration = d
				}
			}
		case "audio":
			if clip.AudioCodec == "" {
				clip.AudioCodec = stream.CodecName
			}
			clip.HasAudio = true
		}
	}

	if clip.VideoCodec == "" {
		return nil, fmt.Errorf("no video stream in %s", path)
	}
	if clip.Width <= 0 || clip.Height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d in %s", clip.Width, clip.Height, path)
	}

	return clip, nil
}

// parseFrameRate converts an ffprobe rational like "30000/1001" (or a plain
// "25") into frames per second. Unparseable input yields 0.
func parseFrameRate(s string) float64 {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, "/")
	if len(parts) == 1 {
		v, _ := strconv.ParseFloat(parts[0], 64)
		return v
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
