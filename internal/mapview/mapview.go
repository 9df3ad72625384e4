package mapview

import (
	"fmt"
	"math"
	"strconv"

	"github.com/farxc/folha-inspecao/internal/catalog"
)

const (
	SatelliteStyle = "mapbox://styles/mapbox/satellite-streets-v11"
	LayerType      = "ScatterplotLayer"
	Tooltip        = "ID: {id}\nContador: {contador}"
)

var (
	ColorOthers   = [4]int{0, 153, 255, 160}
	ColorSelected = [4]int{255, 0, 0, 200}
)

// Preset groups the sizing of a map for one form variant.
type Preset struct {
	Name   string `json:"name"`
	Zoom   int    `json:"zoom"`
	Radius int    `json:"radius"`
	Height int    `json:"height"`
}

var (
	PresetInspection = Preset{Name: "inspection", Zoom: 16, Radius: 50, Height: 250}
	PresetSheet      = Preset{Name: "sheet", Zoom: 15, Radius: 20, Height: 200}
)

// PresetByName returns the inspection preset for unknown names.
func PresetByName(name string) Preset {
	if name == PresetSheet.Name {
		return PresetSheet
	}
	return PresetInspection
}

type Marker struct {
	ID       string  `json:"id,omitempty"`
	Contador string  `json:"contador,omitempty"`
	Lat      float64 `json:"lat"`
	Long     float64 `json:"long"`
}

type Layer struct {
	Type      string   `json:"type"`
	FillColor [4]int   `json:"fill_color"`
	Radius    int      `json:"radius"`
	Pickable  bool     `json:"pickable"`
	Markers   []Marker `json:"markers"`
}

type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
	Pitch     int     `json:"pitch"`
}

// Deck is a renderer-neutral description of the satellite map.
type Deck struct {
	Style   string    `json:"map_style"`
	View    ViewState `json:"initial_view_state"`
	Layers  []Layer   `json:"layers"`
	Tooltip string    `json:"tooltip"`
	Height  int       `json:"height"`
}

// GoogleMapsURL links to the coordinates on Google Maps.
func GoogleMapsURL(lat, long float64) string {
	q := formatCoord(lat) + "," + formatCoord(long)
	return "https://www.google.com/maps?q=" + q
}

// Summary is the attribute line shown above the map.
func Summary(p catalog.Point) string {
	return fmt.Sprintf("Contador: %s   Leitura: %s   MatContador: %s   MedFat: %s", p.Contador, p.Leitura, p.MatContador, p.MedFat)
}

// Build draws every point except the selected one in the first layer and the
// selected point alone in the second, centred on it.
func Build(points []catalog.Point, selected catalog.Point, preset Preset) Deck {
	others := make([]Marker, 0, len(points))
	for _, p := range points {
		if p.ID == selected.ID {
			continue
		}
		others = append(others, markerOf(p))
	}

	return Deck{
		Style: SatelliteStyle,
		View: ViewState{
			Latitude:  selected.Lat,
			Longitude: selected.Long,
			Zoom:      preset.Zoom,
		},
		Layers: []Layer{
			{Type: LayerType, FillColor: ColorOthers, Radius: preset.Radius, Pickable: true, Markers: others},
			{Type: LayerType, FillColor: ColorSelected, Radius: preset.Radius, Pickable: true, Markers: []Marker{markerOf(selected)}},
		},
		Tooltip: Tooltip,
		Height:  preset.Height,
	}
}

// Locations turns raw coordinates into markers, dropping NaN pairs.
func Locations(coords [][2]float64) []Marker {
	out := make([]Marker, 0, len(coords))
	for _, c := range coords {
		if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
			continue
		}
		out = append(out, Marker{Lat: c[0], Long: c[1]})
	}
	return out
}

func markerOf(p catalog.Point) Marker {
	return Marker{ID: p.ID, Contador: p.Contador, Lat: p.Lat, Long: p.Long}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
