package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/line-sensor-mcp/internal/detection"
)

// Default render colors.
const (
	DefaultActiveColor   = "#202020"
	DefaultInactiveColor = "#F0F0F0"
	DefaultLineColor     = "#E03030"
	DefaultCellSize      = 16
)

// labelBand is the height reserved under the bar for interval labels.
const labelBand = 16

// RenderOptions controls RenderBar output. Zero values use the defaults.
type RenderOptions struct {
	CellSize      int
	ActiveColor   string
	InactiveColor string
	LineColor     string
}

// RenderResult contains a rendered bar encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CellSize    int    `json:"cell_size"`
	LineCount   int    `json:"line_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderBar draws w as a strip of square cells and outlines each interval in
// lines, labelled "start-end" underneath.
func RenderBar(w detection.Word, lines []detection.Interval, opts RenderOptions) (*RenderResult, error) {
	cell := opts.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}
	if cell > 128 {
		return nil, fmt.Errorf("cell size %d too large (max 128)", cell)
	}

	active, err := parseHexColor(orDefault(opts.ActiveColor, DefaultActiveColor))
	if err != nil {
		return nil, fmt.Errorf("active color: %w", err)
	}
	inactive, err := parseHexColor(orDefault(opts.InactiveColor, DefaultInactiveColor))
	if err != nil {
		return nil, fmt.Errorf("inactive color: %w", err)
	}
	highlight, err := parseHexColor(orDefault(opts.LineColor, DefaultLineColor))
	if err != nil {
		return nil, fmt.Errorf("line color: %w", err)
	}

	// One pixel per cell, scaled up without smoothing
	bar := image.NewNRGBA(image.Rect(0, 0, detection.Width, 1))
	for x := 0; x < detection.Width; x++ {
		if w.Bit(x) {
			bar.Set(x, 0, active)
		} else {
			bar.Set(x, 0, inactive)
		}
	}
	width := detection.Width * cell
	scaled := imaging.Resize(bar, width, cell, imaging.NearestNeighbor)

	canvas := imaging.New(width, cell+labelBand, color.White)
	canvas = imaging.Paste(canvas, scaled, image.Pt(0, 0))

	for _, l := range lines {
		outline(canvas, image.Rect(l.Start*cell, 0, l.End*cell, cell), highlight)
		drawLabel(canvas, l.Start*cell+1, cell+labelBand-4, fmt.Sprintf("%d-%d", l.Start, l.End), highlight)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode bar image: %w", err)
	}

	return &RenderResult{
		Width:       width,
		Height:      cell + labelBand,
		CellSize:    cell,
		LineCount:   len(lines),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// outline draws a two pixel frame just inside r.
func outline(img draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	const t = 2
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

// drawLabel writes text with its baseline at y.
func drawLabel(img draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
