package ogimage

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesCardSizedPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "", ""))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRenderHandlesVeryLongTitle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, strings.Repeat("Reunion ", 40), strings.Repeat("x", 500)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestTitleFitsWithinMargins(t *testing.T) {
	layer := textLayer(Truncate(strings.Repeat("W", 200), maxChars(titleScale)), titleInk, titleScale)
	assert.LessOrEqual(t, layer.Bounds().Dx(), Width)
}
