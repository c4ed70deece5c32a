package calendars

import (
	"fmt"
	"math"

	"github.com/SergeyKozhin/calendar-engine/internal/model"
	"github.com/gerow/go-color"
)

type calendarDTO struct {
	ID          int64
	Title       string
	SourceTitle string
	Color       string
	Editable    bool
	Subscribed  bool
	IsDefault   bool
}

func mapToCalendar(d *calendarDTO) *model.Calendar {
	c := &model.Calendar{
		ID:          d.ID,
		Title:       d.Title,
		SourceTitle: d.SourceTitle,
		Editable:    d.Editable,
		Subscribed:  d.Subscribed,
		Default:     d.IsDefault,
	}

	// Calendars with a colour that does not parse are listed without one.
	if d.Color == "" {
		return c
	}
	if rgb, err := color.HTMLToRGB(d.Color); err == nil {
		c.Color = hex(rgb)
		c.ColorName = colorName(rgb)
	}

	return c
}

var namedColors = []struct {
	name string
	rgb  color.RGB
}{
	{"black", color.RGB{R: 0, G: 0, B: 0}},
	{"white", color.RGB{R: 1, G: 1, B: 1}},
	{"gray", color.RGB{R: 0.5, G: 0.5, B: 0.5}},
	{"red", color.RGB{R: 1, G: 0, B: 0}},
	{"orange", color.RGB{R: 1, G: 0.58, B: 0}},
	{"yellow", color.RGB{R: 1, G: 0.8, B: 0}},
	{"green", color.RGB{R: 0.2, G: 0.78, B: 0.35}},
	{"teal", color.RGB{R: 0.35, G: 0.78, B: 0.98}},
	{"blue", color.RGB{R: 0, G: 0.48, B: 1}},
	{"purple", color.RGB{R: 0.69, G: 0.32, B: 0.87}},
	{"pink", color.RGB{R: 1, G: 0.18, B: 0.33}},
	{"brown", color.RGB{R: 0.64, G: 0.52, B: 0.37}},
}

// colorName returns the name of the closest named colour.
func colorName(c color.RGB) string {
	best, bestDist := "", math.MaxFloat64
	for _, nc := range namedColors {
		dr, dg, db := c.R-nc.rgb.R, c.G-nc.rgb.G, c.B-nc.rgb.B
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = nc.name, d
		}
	}
	return best
}

func hex(c color.RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
