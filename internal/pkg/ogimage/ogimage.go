// Package ogimage renders the social preview card served at /api/og.
package ogimage

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1200
	Height = 630

	DefaultTitle    = "Alumni Directory"
	DefaultSubtitle = "Connect with your fellow alumni"

	titleScale    = 6
	subtitleScale = 3
	margin        = 60
)

var (
	background = color.NRGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}
	accent     = color.NRGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	titleInk   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	subInk     = color.NRGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff}
)

// Render writes a Width x Height PNG. Blank inputs fall back to the defaults and
// text wider than the card is truncated with an ellipsis.
func Render(w io.Writer, title, subtitle string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	subtitle = strings.TrimSpace(subtitle)
	if subtitle == "" {
		subtitle = DefaultSubtitle
	}

	canvas := imaging.New(Width, Height, background)
	bar := imaging.New(Width, 12, accent)
	canvas = imaging.Paste(canvas, bar, image.Pt(0, Height-12))

	titleImg := textLayer(Truncate(title, maxChars(titleScale)), titleInk, titleScale)
	subImg := textLayer(Truncate(subtitle, maxChars(subtitleScale)), subInk, subtitleScale)

	titleY := Height/2 - titleImg.Bounds().Dy()
	subY := Height/2 + 30
	canvas = imaging.Overlay(canvas, titleImg, image.Pt(centerX(titleImg), titleY), 1.0)
	canvas = imaging.Overlay(canvas, subImg, image.Pt(centerX(subImg), subY), 1.0)

	return imaging.Encode(w, canvas, imaging.PNG)
}

// Truncate shortens s to at most max runes, ending in "..." when cut
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func maxChars(scale int) int {
	return (Width - 2*margin) / (basicfont.Face7x13.Advance * scale)
}

// textLayer draws s with the 7x13 bitmap face on a transparent layer and
// scales it up with nearest-neighbour so the glyphs stay crisp.
func textLayer(s string, ink color.Color, scale int) *image.NRGBA {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := d.MeasureString(s).Ceil() + 2
	height := face.Height + 2

	layer := image.NewNRGBA(image.Rect(0, 0, width, height))
	d.Dst = layer
	d.Src = image.NewUniform(ink)
	d.Dot = fixed.P(1, face.Ascent+1)
	d.DrawString(s)

	return imaging.Resize(layer, width*scale, height*scale, imaging.NearestNeighbor)
}

func centerX(img image.Image) int {
	x := (Width - img.Bounds().Dx()) / 2
	if x < 0 {
		return 0
	}
	return x
}
