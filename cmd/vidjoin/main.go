package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ivlev/vidjoin/internal/config"
	"github.com/ivlev/vidjoin/internal/engine"
)

func main() {
	defaults := config.Defaults()

	input1 := flag.String("i1", "", "Path to the first input video (required)")
	input2 := flag.String("i2", "", "Path to the second input video (required)")
	output := flag.String("o", defaults.Output, "Path to the output video file")
	text := flag.String("text", "", "Caption text overlaid below the center (empty: no overlay)")
	fontPath := flag.String("font", "", "Path to a .ttf/.otf font file (default: bundled font)")
	fontSize := flag.Int("font-size", defaults.FontSize, "Caption font size in pixels")
	colorName := flag.String("color", defaults.Color, "Caption color (name like 'white' or hex like '#ffffff')")
	offsetRatio := flag.Float64("offset-ratio", defaults.OffsetRatio, "How far below the vertical center to place the caption, as a fraction of height")
	fps := flag.Float64("fps", 0, "Output frame rate (0: derive from the inputs)")
	codec := flag.String("codec", defaults.Codec, "Video encoder: auto, libx264, h264_videotoolbox, h264_nvenc")
	preset := flag.String("preset", defaults.Preset, "Encoding speed preset (ultrafast..veryslow)")
	quality := flag.Int("crf", defaults.Quality, "Quality factor (x264 CRF; 0: per-encoder default)")
	threads := flag.Int("threads", 0, "Encoder threads (0: all logical CPUs)")
	profile := flag.String("profile", "", "Path to a yaml settings profile")
	ffmpegPath := flag.String("ffmpeg", defaults.FFmpegPath, "ffmpeg binary")
	ffprobePath := flag.String("ffprobe", defaults.FFprobePath, "ffprobe binary")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	setupLogging(*verbose)

	opts := defaults
	if *profile != "" {
		if err := opts.ApplyProfile(*profile); err != nil {
			log.Fatal().Err(err).Msg("invalid profile")
		}
	}

	// Flags win over the profile.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			opts.Output = *output
		case "text":
			opts.Text = *text
		case "font":
			opts.FontPath = *fontPath
		case "font-size":
			opts.FontSize = *fontSize
		case "color":
			opts.Color = *colorName
		case "offset-ratio":
			opts.OffsetRatio = *offsetRatio
		case "fps":
			opts.FPS = *fps
		case "codec":
			opts.Codec = *codec
		case "preset":
			opts.Preset = *preset
		case "crf":
			opts.Quality = *quality
		case "threads":
			opts.Threads = *threads
		case "ffmpeg":
			opts.FFmpegPath = *ffmpegPath
		case "ffprobe":
			opts.FFprobePath = *ffprobePath
		}
	})
	opts.Input1 = *input1
	opts.Input2 = *input2
	opts.Verbose = *verbose

	if err := opts.Validate(); err != nil {
		flag.Usage()
		log.Fatal().Err(err).Msg("invalid arguments")
	}

	if err := engine.New(opts).Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
}
