// Package raster draws highlighted prompts as PNG images with a fixed bitmap
// face, so the same segments always produce the same pixels.
package raster

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/samcharles93/promptlens/internal/highlight"
	"github.com/samcharles93/promptlens/internal/profile"
)

const (
	minWidth  = 400
	minHeight = 100

	minFontSize   = 8
	maxFontSize   = 128
	maxPadding    = 400
	minLineHeight = 0.5
	maxLineHeight = 4
	maxWrapWidth  = 1000
	maxWidthCap   = 8000
	maxHeightCap  = 16000
)

// Options controls image layout. Sizes are in output pixels; WrapWidth is in
// display columns. Values outside the supported range are clamped, and lines
// past MaxHeight are not drawn.
type Options struct {
	FontSize   int     `json:"font_size" yaml:"font_size"`
	Padding    int     `json:"padding" yaml:"padding"`
	LineHeight float64 `json:"line_height" yaml:"line_height"`
	MaxWidth   int     `json:"max_width" yaml:"max_width"`
	MaxHeight  int     `json:"max_height" yaml:"max_height"`
	WrapWidth  int     `json:"wrap_width" yaml:"wrap_width"`
}

// DefaultOptions returns the default layout.
func DefaultOptions() Options {
	return Options{
		FontSize:   28,
		Padding:    40,
		LineHeight: 1.5,
		MaxWidth:   2400,
		MaxHeight:  8000,
		WrapWidth:  120,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Padding < 0 {
		o.Padding = d.Padding
	}
	if o.LineHeight <= 0 {
		o.LineHeight = d.LineHeight
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = d.MaxHeight
	}
	if o.WrapWidth <= 0 {
		o.WrapWidth = d.WrapWidth
	}
	o.FontSize = min(max(o.FontSize, minFontSize), maxFontSize)
	o.Padding = min(o.Padding, maxPadding)
	o.LineHeight = min(max(o.LineHeight, minLineHeight), maxLineHeight)
	o.MaxWidth = min(o.MaxWidth, maxWidthCap)
	o.MaxHeight = min(o.MaxHeight, maxHeightCap)
	o.WrapWidth = min(o.WrapWidth, maxWrapWidth)
	return o
}

var face = basicfont.Face7x13

// Draw lays out segments on a dark canvas. Lines are wrapped with Wrap and
// every rune keeps the color of the segment it came from.
func Draw(segs []highlight.Segment, opts Options) *image.NRGBA {
	opts = opts.withDefaults()

	var runes []rune
	var cats []profile.Category
	for _, s := range segs {
		for _, r := range s.Text {
			runes = append(runes, r)
			cats = append(cats, s.Category)
		}
	}
	lines := wrapSpans(runes, opts.WrapWidth)

	// The face is drawn at its native size and scaled up, so one native
	// pixel becomes scale output pixels.
	scale := float64(opts.FontSize) / float64(face.Height)
	cell := float64(face.Advance)
	lineHeight := int(float64(opts.FontSize) * opts.LineHeight)

	if fit := (opts.MaxHeight - opts.Padding*2) / lineHeight; len(lines) > fit {
		lines = lines[:max(fit, 0)]
	}

	maxCols := 0
	for _, l := range lines {
		maxCols = max(maxCols, columns(runes[l.start:l.end]))
	}
	w := min(int(float64(maxCols)*cell*scale)+opts.Padding*2, opts.MaxWidth)
	w = max(w, minWidth)
	h := max(min(len(lines)*lineHeight+opts.Padding*2, opts.MaxHeight), minHeight)

	nw := int(math.Ceil(float64(w) / scale))
	nh := int(math.Ceil(float64(h) / scale))
	canvas := imaging.New(nw, nh, highlight.Background)

	pad := float64(opts.Padding) / scale
	step := float64(lineHeight) / scale
	d := &font.Drawer{Dst: canvas, Face: face}
	for i, l := range lines {
		x := pad
		y := pad + float64(i)*step + float64(face.Ascent)
		for k := l.start; k < l.end; k++ {
			r := runes[k]
			d.Src = image.NewUniform(highlight.ColorFor(cats[k]))
			d.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
			d.DrawString(string(glyphFor(r)))
			x += float64(runewidth.RuneWidth(r)) * cell
		}
	}

	if nw == w && nh == h {
		return canvas
	}
	return imaging.Resize(canvas, w, h, imaging.NearestNeighbor)
}

// glyphFor maps r onto a rune the bitmap face can draw. Full-width forms
// fold to their ASCII counterparts; anything else without a glyph becomes
// U+FFFD.
func glyphFor(r rune) rune {
	if r == '\t' {
		return ' '
	}
	if hasGlyph(r) {
		return r
	}
	if folded := []rune(width.Fold.String(string(r))); len(folded) == 1 && hasGlyph(folded[0]) {
		return folded[0]
	}
	return '\ufffd'
}

func hasGlyph(r rune) bool {
	for _, rng := range face.Ranges {
		if r >= rng.Low && r < rng.High {
			return true
		}
	}
	return false
}

// WritePNG draws segments and encodes them as PNG.
func WritePNG(w io.Writer, segs []highlight.Segment, opts Options) error {
	return imaging.Encode(w, Draw(segs, opts), imaging.PNG,
		imaging.PNGCompressionLevel(png.BestCompression))
}

// PNG returns the encoded image.
func PNG(segs []highlight.Segment, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, segs, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
