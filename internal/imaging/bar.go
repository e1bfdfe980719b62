package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/line-sensor-mcp/internal/detection"
)

// DefaultThreshold is the brightness level separating light and dark cells.
const DefaultThreshold = 128

// SampleOptions selects the rows to sample and how cells are activated.
type SampleOptions struct {
	// Row is the first row of the band, relative to the image top.
	Row int

	// Band is the number of rows averaged into each cell. Zero samples every
	// row from Row to the bottom of the image.
	Band int

	// Threshold is the brightness level (0-255) at or above which a cell is
	// light.
	Threshold uint8

	// Invert makes dark cells active, as for dark tape on a light floor.
	Invert bool

	// Color, when set, activates cells by color instead of brightness.
	// Format "#RRGGBB".
	Color string

	// Tolerance is the maximum CIEDE2000 distance to Color for an active cell.
	Tolerance float64
}

// BarSample is one bar reading taken from an image.
type BarSample struct {
	Word    detection.Word `json:"-"`
	Reading string         `json:"reading"`
	Levels  []uint8        `json:"levels"`
	Colors  []string       `json:"colors"`
	Row     int            `json:"row"`
	Band    int            `json:"band"`
	Mode    string         `json:"mode"`
}

// SampleBar reduces a horizontal band of img to detection.Width cells.
//
// The band is cropped and box-resampled so each cell is the average of the
// pixels under it. A cell is then active when its brightness is at or above
// opts.Threshold (below it with opts.Invert), or when opts.Color is set, when
// its color is within opts.Tolerance of that color.
//
// # Errors
//
//   - The band lies outside the image
//   - opts.Color is not a valid hex color
func SampleBar(img image.Image, opts SampleOptions) (*BarSample, error) {
	bounds := img.Bounds()
	if opts.Row < 0 || opts.Row >= bounds.Dy() {
		return nil, fmt.Errorf("row %d outside image height %d", opts.Row, bounds.Dy())
	}
	band := opts.Band
	if band <= 0 {
		band = bounds.Dy() - opts.Row
	}
	if opts.Row+band > bounds.Dy() {
		return nil, fmt.Errorf("band rows %d-%d outside image height %d", opts.Row, opts.Row+band, bounds.Dy())
	}

	y1 := bounds.Min.Y + opts.Row
	strip := imaging.Crop(img, image.Rect(bounds.Min.X, y1, bounds.Max.X, y1+band))
	cells := imaging.Resize(strip, detection.Width, 1, imaging.Box)

	sample := &BarSample{
		Levels: make([]uint8, detection.Width),
		Colors: make([]string, detection.Width),
		Row:    opts.Row,
		Band:   band,
	}
	for x := 0; x < detection.Width; x++ {
		c := cells.NRGBAAt(x, 0)
		sample.Levels[x] = color.GrayModel.Convert(c).(color.Gray).Y
		sample.Colors[x] = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}

	var (
		w   detection.Word
		err error
	)
	if opts.Color != "" {
		w, err = activateByColor(cells, opts.Color, opts.Tolerance)
		if err != nil {
			return nil, err
		}
		sample.Mode = "color"
	} else {
		w = activateByBrightness(cells, opts.Threshold, opts.Invert)
		sample.Mode = "brightness"
	}

	sample.Word = w
	sample.Reading = w.String()
	return sample, nil
}

// activateByBrightness binarizes the resampled cells.
func activateByBrightness(cells image.Image, level uint8, invert bool) detection.Word {
	binary := segment.Threshold(cells, level)

	var w detection.Word
	for x := 0; x < detection.Width; x++ {
		light := binary.GrayAt(binary.Bounds().Min.X+x, binary.Bounds().Min.Y).Y != 0
		if light != invert {
			w = w.Set(x)
		}
	}
	return w
}

// activateByColor marks cells close to the target color. Fully transparent
// cells are never active.
func activateByColor(cells image.Image, hex string, tolerance float64) (detection.Word, error) {
	target, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	var w detection.Word
	for x := 0; x < detection.Width; x++ {
		c, ok := colorful.MakeColor(cells.At(cells.Bounds().Min.X+x, cells.Bounds().Min.Y))
		if !ok {
			continue
		}
		if c.DistanceCIEDE2000(target) <= tolerance {
			w = w.Set(x)
		}
	}
	return w, nil
}
