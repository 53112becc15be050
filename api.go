package sentinel1

import "time"

// Polarization identifies a Sentinel-1 channel by its SAFE designator.
type Polarization string

const (
	HH Polarization = "hh"
	HV Polarization = "hv"
)

// GCP is one ground control point of the geolocation grid: a raster position
// (Line, Pixel) tied to a geographic position.
type GCP struct {
	Line           float64
	Pixel          float64
	Latitude       float64
	Longitude      float64
	Height         float64
	IncidenceAngle float64
	ElevationAngle float64
	SlantRangeTime float64
	AzimuthTime    time.Time
}

// Georef describes the georeferencing of a raster by value: the GCP list, the
// source raster dimensions and the projection the GCP coordinates are given
// in. It carries no handle into any GDAL object.
type Georef struct {
	GCPs       []GCP
	X          int // samples per line (width)
	Y          int // lines (height)
	Projection string
}

// Grid is a row-major 2D float32 raster.
type Grid struct {
	Data []float32
	X    int
	Y    int
}

func NewGrid(x, y int) Grid {
	return Grid{Data: make([]float32, x*y), X: x, Y: y}
}

func (g Grid) At(ix, iy int) float32 {
	return g.Data[iy*g.X+ix]
}

func (g Grid) Set(ix, iy int, v float32) {
	g.Data[iy*g.X+ix] = v
}
