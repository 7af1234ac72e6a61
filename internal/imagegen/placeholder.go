package imagegen

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/jpeg"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	placeholderWidth   = 1920
	placeholderHeight  = 1080
	placeholderQuality = 90
)

// Placeholder renders prompts as title cards without any network access.
type Placeholder struct {
	width  int
	height int
}

// NewPlaceholder returns a renderer for width x height cards. Non-positive
// dimensions fall back to 1920x1080.
func NewPlaceholder(width, height int) *Placeholder {
	if width <= 0 || height <= 0 {
		width, height = placeholderWidth, placeholderHeight
	}
	return &Placeholder{width: width, height: height}
}

func (p *Placeholder) Name() string { return "placeholder" }

func (p *Placeholder) Offline() bool { return true }

// Generate draws prompt centered over a background tinted by the prompt hash,
// so consecutive scenes are visually distinct.
func (p *Placeholder) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dc := gg.NewContext(p.width, p.height)
	r, g, b := tint(prompt)
	dc.SetRGB(r, g, b)
	dc.Clear()

	fontSize := float64(p.height) / 24
	if err := setFont(dc, fontSize); err != nil {
		return nil, err
	}
	margin := float64(p.width) * 0.1
	dc.SetRGB(0.95, 0.95, 0.95)
	dc.DrawStringWrapped(prompt, float64(p.width)/2, float64(p.height)/2, 0.5, 0.5, float64(p.width)-2*margin, 1.4, gg.AlignCenter)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: placeholderQuality}); err != nil {
		return nil, fmt.Errorf("placeholder: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func setFont(dc *gg.Context, size float64) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("placeholder: parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))
	return nil
}

// tint maps prompt to a dark background colour.
func tint(prompt string) (float64, float64, float64) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	sum := h.Sum32()
	channel := func(shift uint) float64 {
		return 0.05 + float64((sum>>shift)&0xff)/255*0.3
	}
	return channel(0), channel(8), channel(16)
}
