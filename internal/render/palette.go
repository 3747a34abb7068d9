package render

import (
	"hash/fnv"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultColors is the qualitative palette used for the first countries
var DefaultColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// goldenAngle spreads generated hues so neighbours never share a color
const goldenAngle = 137.50776405003785

// Palette maps countries to colors by their position in the table, so a
// country keeps its color no matter which other countries are selected.
type Palette struct {
	base   []string
	colors []string
	index  map[string]int
}

// NewPalette assigns a color to every country. The first len(base) countries
// take the base colors in order; the rest get generated hues. An empty base
// uses DefaultColors.
func NewPalette(countries []string, base []string) *Palette {
	if len(base) == 0 {
		base = DefaultColors
	}

	p := &Palette{
		base:   base,
		colors: make([]string, len(countries)),
		index:  make(map[string]int, len(countries)),
	}
	for i, c := range countries {
		p.index[c] = i
		p.colors[i] = colorAt(i, base)
	}
	return p
}

// ColorFor returns the color for a country. Countries outside the table are
// hashed onto the base palette.
func (p *Palette) ColorFor(country string) string {
	if i, ok := p.index[country]; ok {
		return p.colors[i]
	}
	h := fnv.New32a()
	h.Write([]byte(country))
	return p.base[h.Sum32()%uint32(len(p.base))]
}

func colorAt(i int, base []string) string {
	if i < len(base) {
		return base[i]
	}
	n := i - len(base)
	hue := math.Mod(float64(n)*goldenAngle+17, 360)
	// Alternate lightness bands so hues that land close are still apart
	value := 0.85
	if n%2 == 1 {
		value = 0.65
	}
	return colorful.Hsv(hue, 0.7, value).Hex()
}
