package system

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DetectEncoder resolves the requested codec name. "auto" probes the local
// ffmpeg build for hardware H.264 encoders, in preference order, and falls
// back to software x264. Anything else is passed through untouched.
func DetectEncoder(requested, ffmpegPath string) string {
	if requested != "" && requested != "auto" {
		return requested
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	out, err := exec.Command(ffmpegPath, "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// DefaultQuality returns the quality knob default for an encoder: CRF for
// x264, bitrate units for VideoToolbox, CQ for NVENC.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 20
	}
}

// ResolveWorkers picks the encoder thread count: an explicit request wins,
// otherwise the logical CPU count.
func ResolveWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
