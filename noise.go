package sentinel1

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/d-murashkin/sentinel1-routines/log"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/interp"
)

type noiseVectorXML struct {
	Line     int       `xml:"line"`
	Pixel    valueList `xml:"pixel"`
	NoiseLut valueList `xml:"noiseLut"`
	// IPF >= 2.9 renamed the record; either one is populated.
	NoiseRangeLut valueList `xml:"noiseRangeLut"`
}

type noiseFile struct {
	XMLName      xml.Name         `xml:"noise"`
	Vectors      []noiseVectorXML `xml:"noiseVectorList>noiseVector"`
	RangeVectors []noiseVectorXML `xml:"noiseRangeVectorList>noiseRangeVector"`
}

// NoiseVector is one line of the thermal noise LUT. Unlike the calibration
// grid the noise grid is not rectilinear: each line carries its own pixel
// positions.
type NoiseVector struct {
	Line   float64
	Pixels []float64
	Values []float64
}

type NoiseLUT struct {
	Vectors []NoiseVector
}

// ParseNoiseFile reads and parses a noise-*.xml annotation.
func ParseNoiseFile(path string) (lut *NoiseLUT, err error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error("open noise annotation failed", zap.String("path", path), zap.Error(err))
		err = ErrNotFound
		return
	}
	defer f.Close()
	if lut, err = ParseNoise(f); err != nil {
		log.Error("parse noise annotation failed", zap.String("path", path), zap.Error(err))
	}
	return
}

func ParseNoise(r io.Reader) (lut *NoiseLUT, err error) {
	var doc noiseFile
	if err = xml.NewDecoder(r).Decode(&doc); err != nil {
		err = ErrNoiseParse
		return
	}
	vectors := doc.Vectors
	if len(vectors) == 0 {
		vectors = doc.RangeVectors
	}
	if len(vectors) < 2 {
		err = ErrNoiseParse
		return
	}
	lut = &NoiseLUT{Vectors: make([]NoiseVector, len(vectors))}
	prevLine := -1.0
	for i, vec := range vectors {
		pixels, e := vec.Pixel.floats()
		if e != nil {
			err = ErrNoiseParse
			return
		}
		values := vec.NoiseLut
		if values.Text == "" {
			values = vec.NoiseRangeLut
		}
		vals, e := values.floats()
		if e != nil || len(vals) != len(pixels) || len(pixels) < 2 || !strictlyIncreasing(pixels) {
			err = ErrNoiseParse
			return
		}
		line := float64(vec.Line)
		if line <= prevLine {
			err = ErrNoiseParse
			return
		}
		prevLine = line
		lut.Vectors[i] = NoiseVector{Line: line, Pixels: pixels, Values: vals}
	}
	return
}

// Grid densifies the noise LUT to the full x*y raster resolution: each vector
// is interpolated along its own pixel axis first, then every column across
// lines.
func (lut *NoiseLUT) Grid(x, y int) (grid Grid, err error) {
	rows := make([][]float64, len(lut.Vectors))
	lines := make([]float64, len(lut.Vectors))
	var pl interp.PiecewiseLinear
	for i, vec := range lut.Vectors {
		if err = pl.Fit(vec.Pixels, vec.Values); err != nil {
			err = ErrNoiseParse
			return
		}
		rows[i] = make([]float64, x)
		for ix := 0; ix < x; ix++ {
			rows[i][ix] = pl.Predict(float64(ix))
		}
		lines[i] = vec.Line
	}
	grid = NewGrid(x, y)
	col := make([]float64, len(lines))
	for ix := 0; ix < x; ix++ {
		for i := range rows {
			col[i] = rows[i][ix]
		}
		if err = pl.Fit(lines, col); err != nil {
			err = ErrNoiseParse
			return
		}
		for iy := 0; iy < y; iy++ {
			grid.Data[iy*x+ix] = float32(pl.Predict(float64(iy)))
		}
	}
	return
}

// Max returns the largest node value of the LUT.
func (lut *NoiseLUT) Max() (max float64) {
	for _, vec := range lut.Vectors {
		for _, v := range vec.Values {
			if v > max {
				max = v
			}
		}
	}
	return
}

// Rescale multiplies every node value by k. Noise tables produced before July
// 2015 are given in wrong units and must be scaled by OLD_NOISE_K times the
// dn calibration constant.
func (lut *NoiseLUT) Rescale(k float64) {
	for _, vec := range lut.Vectors {
		for i := range vec.Values {
			vec.Values[i] *= k
		}
	}
}
