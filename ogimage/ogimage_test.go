package ogimage

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"reflect"
	"testing"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "Hello World", DefaultOptions); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 630 {
		t.Errorf("size = %dx%d, want 1200x630", b.Dx(), b.Dy())
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("corner is not black: %v", img.At(0, 0))
	}
	var lit bool
	for x := 0; x < 1200 && !lit; x++ {
		if r, _, _, _ := img.At(x, 315).RGBA(); r > 0x8000 {
			lit = true
		}
	}
	if !lit {
		t.Error("no text drawn across the middle row")
	}
}

func TestDrawSizes(t *testing.T) {
	for _, opts := range []Options{{Width: 300, Height: 100}, {Width: 5, Height: 5}, {Width: 1200, Height: 630, Scale: 1}} {
		img, err := Draw("A much longer title that has to wrap over several lines of text", opts)
		if err != nil {
			t.Fatalf("%+v: %v", opts, err)
		}
		if b := img.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
			t.Errorf("%+v: size %v", opts, b)
		}
	}
	if _, err := Draw("x", Options{Width: 0, Height: 10}); !errors.Is(err, ErrSize) {
		t.Errorf("expected ErrSize, got %v", err)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		n     int
		want  []string
	}{
		{"", 10, 3, nil},
		{"hello world", 20, 3, []string{"hello world"}},
		{"hello world", 5, 3, []string{"hello", "world"}},
		{"abcdefghij", 4, 5, []string{"abcd", "efgh", "ij"}},
		{"one two three four", 5, 2, []string{"one", "tw..."}},
	}
	for _, tt := range tests {
		if got := wrap(tt.in, tt.width, tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wrap(%q, %d, %d) = %q, want %q", tt.in, tt.width, tt.n, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}) {
		t.Errorf("ParseHex = %v", c)
	}
	for _, s := range []string{"", "fff", "zzzzzz"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) should fail", s)
		}
	}
}
