package engine

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/vidjoin/internal/caption"
	"github.com/ivlev/vidjoin/internal/config"
	"github.com/ivlev/vidjoin/internal/probe"
	"github.com/ivlev/vidjoin/internal/system"
	"github.com/ivlev/vidjoin/internal/video"
)

// DefaultFPS is used when neither the flags nor the inputs yield a frame rate.
const DefaultFPS = 24.0

// Pipeline joins two clips and overlays a caption in a single pass:
// probe -> build caption -> one ffmpeg compose+encode invocation.
type Pipeline struct {
	Opts    config.Options
	Prober  *probe.Prober
	Encoder *video.Encoder
}

func New(opts config.Options) *Pipeline {
	return &Pipeline{
		Opts:    opts,
		Prober:  probe.New(opts.FFprobePath),
		Encoder: video.NewEncoder(opts.FFmpegPath),
	}
}

// Run executes the pipeline. Every acquired resource is registered on a
// cleanup stack and released on all exit paths; release failures never mask
// the primary error.
func (p *Pipeline) Run(ctx context.Context) error {
	resources := newCleanupStack()
	defer resources.release()

	clips, err := p.probeInputs(ctx)
	if err != nil {
		return err
	}

	width, height := canvasSize(clips)
	duration := combinedDuration(clips)
	fps := resolveFPS(p.Opts.FPS, clips)
	withAudio := clips[0].HasAudio && clips[1].HasAudio

	log.Info().
		Int("width", width).
		Int("height", height).
		Float64("duration", duration).
		Float64("fps", fps).
		Bool("audio", withAudio).
		Msg("combined clip")

	tempDir, err := os.MkdirTemp("", "vidjoin_")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	resources.add("temp dir", func() error { return os.RemoveAll(tempDir) })

	capImg, err := caption.Build(caption.Spec{
		Text:         p.Opts.Text,
		FontPath:     p.Opts.FontPath,
		FontSize:     p.Opts.FontSize,
		Color:        p.Opts.Color,
		Duration:     duration,
		CanvasWidth:  width,
		CanvasHeight: height,
		OffsetRatio:  p.Opts.OffsetRatio,
	})
	if err != nil {
		return fmt.Errorf("build caption: %w", err)
	}

	params := video.ComposeParams{
		Inputs:     []string{clips[0].Path, clips[1].Path},
		Width:      width,
		Height:     height,
		FPS:        fps,
		WithAudio:  withAudio,
		VideoCodec: system.DetectEncoder(p.Opts.Codec, p.Opts.FFmpegPath),
		AudioCodec: "aac",
		Preset:     p.Opts.Preset,
		Quality:    p.Opts.Quality,
		Threads:    system.ResolveWorkers(p.Opts.Threads),
		OutputPath: p.Opts.Output,
	}
	if params.Quality == 0 {
		params.Quality = system.DefaultQuality(params.VideoCodec)
	}

	if capImg != nil {
		capPath := filepath.Join(tempDir, "caption.png")
		if err := writePNG(capPath, capImg); err != nil {
			return fmt.Errorf("write caption image: %w", err)
		}
		resources.add("caption image", func() error { return os.Remove(capPath) })

		params.CaptionPath = capPath
		params.CaptionX = capImg.X
		params.CaptionY = capImg.Y

		log.Info().
			Int("x", capImg.X).
			Int("y", capImg.Y).
			Int("w", capImg.Width()).
			Int("h", capImg.Height()).
			Msg("caption placed")
	} else {
		log.Debug().Msg("no caption text, skipping overlay")
	}

	if err := p.Encoder.Compose(ctx, params); err != nil {
		return err
	}

	log.Info().Str("output", p.Opts.Output).Msg("done")
	return nil
}

func (p *Pipeline) probeInputs(ctx context.Context) ([2]*probe.Clip, error) {
	var clips [2]*probe.Clip
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range []string{p.Opts.Input1, p.Opts.Input2} {
		i, path := i, path
		g.Go(func() error {
			clip, err := p.Prober.Probe(ctx, path)
			if err != nil {
				return err
			}
			clips[i] = clip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return clips, err
	}

	for _, c := range clips {
		log.Debug().
			Str("path", c.Path).
			Float64("duration", c.Duration).
			Int("width", c.Width).
			Int("height", c.Height).
			Float64("fps", c.FrameRate).
			Bool("audio", c.HasAudio).
			Msg("probed input")
	}
	return clips, nil
}

// canvasSize is the compose-style target frame: large enough for either clip.
func canvasSize(clips [2]*probe.Clip) (w, h int) {
	for _, c := range clips {
		if c.Width > w {
			w = c.Width
		}
		if c.Height > h {
			h = c.Height
		}
	}
	return w, h
}

func combinedDuration(clips [2]*probe.Clip) float64 {
	return clips[0].Duration + clips[1].Duration
}

// resolveFPS prefers the explicit override, then the first discoverable input
// rate, then DefaultFPS.
func resolveFPS(override float64, clips [2]*probe.Clip) float64 {
	if override > 0 {
		return override
	}
	for _, c := range clips {
		if c.FrameRate > 0 {
			return c.FrameRate
		}
	}
	return DefaultFPS
}

func writePNG(path string, img *caption.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img.RGBA); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
