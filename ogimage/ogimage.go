// Package ogimage draws the Open Graph preview image of a page: the title in
// plain text, centered on a solid background.
package ogimage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options controls the size and colors of the image.
type Options struct {
	Width      int
	Height     int
	Background color.Color
	Foreground color.Color
	Scale      int // Text magnification; 0 picks one from the image height
}

// DefaultOptions is a 1200x630 image with white text on black.
var DefaultOptions = Options{
	Width:      1200,
	Height:     630,
	Background: color.Black,
	Foreground: color.White,
}

// ErrSize is returned for non-positive image dimensions.
var ErrSize = errors.New("invalid image size")

const maxLines = 4

// Render writes a PNG of title to w.
func Render(w io.Writer, title string, opts Options) error {
	img, err := Draw(title, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	return nil
}

// Draw returns the image of title without encoding it.
func Draw(title string, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("Draw: %w %dx%d", ErrSize, opts.Width, opts.Height)
	}
	if opts.Background == nil {
		opts.Background = DefaultOptions.Background
	}
	if opts.Foreground == nil {
		opts.Foreground = DefaultOptions.Foreground
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = max(1, opts.Height/126)
	}

	// Text is drawn on a small canvas and magnified, since basicfont is a 7x13 bitmap font.
	face := basicfont.Face7x13
	sw, sh := max(1, opts.Width/scale), max(1, opts.Height/scale)
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.Draw(small, small.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	margin := face.Advance * 2
	lines := wrap(title, max(1, (sw-2*margin)/face.Advance), maxLines)
	lineHeight := face.Height + 2
	top := (sh-len(lines)*lineHeight)/2 + face.Ascent
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(opts.Foreground),
		Face: face,
	}
	for i, line := range lines {
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((sw-width)/2, top+i*lineHeight)
		d.DrawString(line)
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst, nil
}

// wrap breaks s into at most n lines of at most width characters. Words longer
// than a line are split, and the last line is marked with "..." when text is cut.
func wrap(s string, width, n int) []string {
	var (
		lines []string
		cur   string
	)
	for _, word := range strings.Fields(s) {
		for len(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > n {
		lines = lines[:n]
		last := lines[n-1]
		if len(last)+3 > width {
			last = last[:max(0, width-3)]
		}
		lines[n-1] = last + "..."
	}
	return lines
}

// ParseHex parses a color written as "rrggbb" or "#rrggbb".
func ParseHex(s string) (color.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("ParseHex: invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("ParseHex: invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
