package video

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// ComposeParams describes a single ffmpeg invocation that concatenates the
// inputs, optionally overlays a caption image, and encodes the result.
type ComposeParams struct {
	Inputs      []string
	CaptionPath string // empty: no overlay
	CaptionX    int
	CaptionY    int

	// Target canvas; every input is scaled to fit and letterboxed.
	Width  int
	Height int

	FPS       float64
	WithAudio bool

	VideoCodec string
	AudioCodec string
	Preset     string
	Quality    int
	Threads    int

	OutputPath string
}

// Encoder shells out to ffmpeg.
type Encoder struct {
	FFmpegPath string
}

func NewEncoder(ffmpegPath string) *Encoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Encoder{FFmpegPath: ffmpegPath}
}

// Compose runs the concat+overlay+encode command. ffmpeg's own output is
// folded into the returned error on failure.
func (e *Encoder) Compose(ctx context.Context, p ComposeParams) error {
	args := buildComposeArgs(p)
	log.Debug().Strs("args", args).Msg("running ffmpeg")

	cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg compose: %w, output: %s", err, out.String())
	}
	return nil
}

func buildComposeArgs(p ComposeParams) []string {
	args := []string{"-y"}
	for _, in := range p.Inputs {
		args = append(args, "-i", in)
	}
	if p.CaptionPath != "" {
		args = append(args, "-i", p.CaptionPath)
	}

	args = append(args, "-filter_complex", buildFilterGraph(p))
	args = append(args, "-map", "[vout]")
	if p.WithAudio {
		args = append(args, "-map", "[aout]", "-c:a", p.AudioCodec)
	} else {
		args = append(args, "-an")
	}

	args = append(args, "-c:v", p.VideoCodec, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(p.VideoCodec, p.Quality, p.Preset)...)

	if p.FPS > 0 {
		args = append(args, "-r", fmt.Sprintf("%g", p.FPS))
	}
	if p.Threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", p.Threads))
	}

	args = append(args, p.OutputPath)
	return args
}

// buildFilterGraph normalizes every input to the target canvas, concatenates
// them, and overlays the caption input (always the last -i) at a fixed
// position. The still caption frame persists for the whole output via
// overlay's default eof handling.
func buildFilterGraph(p ComposeParams) string {
	var g strings.Builder
	n := len(p.Inputs)

	for i := range p.Inputs {
		fmt.Fprintf(&g,
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1[v%d];",
			i, p.Width, p.Height, p.Width, p.Height, i)
	}

	if p.WithAudio {
		for i := range p.Inputs {
			fmt.Fprintf(&g, "[v%d][%d:a]", i, i)
		}
		fmt.Fprintf(&g, "concat=n=%d:v=1:a=1[vcat][aout]", n)
	} else {
		for i := range p.Inputs {
			fmt.Fprintf(&g, "[v%d]", i)
		}
		fmt.Fprintf(&g, "concat=n=%d:v=1:a=0[vcat]", n)
	}

	if p.CaptionPath != "" {
		fmt.Fprintf(&g, ";[vcat][%d:v]overlay=%d:%d[vout]", n, p.CaptionX, p.CaptionY)
	} else {
		g.WriteString(";[vcat]null[vout]")
	}

	return g.String()
}

// qualityArgs maps the single quality knob onto the selected encoder:
// CRF for x264, bitrate for VideoToolbox, constant quality for NVENC.
func qualityArgs(codec string, quality int, preset string) []string {
	switch codec {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality), "-preset", preset}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", preset}
	}
}
