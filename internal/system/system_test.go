package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEncoderExplicit(t *testing.T) {
	// Anything but "auto" passes through without probing ffmpeg.
	assert.Equal(t, "libx264", DetectEncoder("libx264", "/nonexistent/ffmpeg"))
	assert.Equal(t, "h264_nvenc", DetectEncoder("h264_nvenc", "/nonexistent/ffmpeg"))
}

func TestDetectEncoderAutoWithoutFFmpeg(t *testing.T) {
	// When the probe itself fails, software x264 is the safe answer.
	assert.Equal(t, "libx264", DetectEncoder("auto", "/nonexistent/ffmpeg"))
	assert.Equal(t, "libx264", DetectEncoder("", "/nonexistent/ffmpeg"))
}

func TestDefaultQuality(t *testing.T) {
	assert.Equal(t, 75, DefaultQuality("h264_videotoolbox"))
	assert.Equal(t, 28, DefaultQuality("h264_nvenc"))
	assert.Equal(t, 20, DefaultQuality("libx264"))
	assert.Equal(t, 20, DefaultQuality("anything-else"))
}

func TestResolveWorkers(t *testing.T) {
	assert.Equal(t, 8, ResolveWorkers(8))
	assert.Equal(t, 1, ResolveWorkers(1))
	assert.GreaterOrEqual(t, ResolveWorkers(0), 1)
	assert.GreaterOrEqual(t, ResolveWorkers(-3), 1)
}
