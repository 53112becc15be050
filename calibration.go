package sentinel1

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/d-murashkin/sentinel1-routines/log"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/interp"
)

// valueList is the space-separated numeric list element used throughout the
// SAFE annotation schema, e.g. <pixel count="6">0 40 80 120 160 200</pixel>.
type valueList struct {
	Count int    `xml:"count,attr"`
	Text  string `xml:",chardata"`
}

func (v valueList) floats() (ret []float64, err error) {
	fields := strings.Fields(v.Text)
	if v.Count > 0 && len(fields) != v.Count {
		err = ErrCalibrationParse
		return
	}
	ret = make([]float64, len(fields))
	for i, f := range fields {
		if ret[i], err = strconv.ParseFloat(f, 64); err != nil {
			return
		}
	}
	return
}

type calibrationVector struct {
	AzimuthTime string    `xml:"azimuthTime"`
	Line        int       `xml:"line"`
	Pixel       valueList `xml:"pixel"`
	SigmaNought valueList `xml:"sigmaNought"`
	BetaNought  valueList `xml:"betaNought"`
	Gamma       valueList `xml:"gamma"`
	DN          valueList `xml:"dn"`
}

type calibrationFile struct {
	XMLName xml.Name            `xml:"calibration"`
	Vectors []calibrationVector `xml:"calibrationVectorList>calibrationVector"`
}

// CalibrationLUT is the sparse calibration grid of a band: gain values at
// Lines x Pixels nodes, one row per calibration vector. Lines and Pixels are
// strictly increasing and span the full raster extent.
type CalibrationLUT struct {
	Lines  []float64
	Pixels []float64

	SigmaNought [][]float64
	BetaNought  [][]float64
	Gamma       [][]float64
	DN          [][]float64
}

// ParseCalibrationFile reads and parses a calibration-*.xml annotation.
func ParseCalibrationFile(path string) (lut *CalibrationLUT, err error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error("open calibration annotation failed", zap.String("path", path), zap.Error(err))
		err = ErrNotFound
		return
	}
	defer f.Close()
	if lut, err = ParseCalibration(f); err != nil {
		log.Error("parse calibration annotation failed", zap.String("path", path), zap.Error(err))
	}
	return
}

// ParseCalibration parses a calibration annotation document into its sparse
// LUT. The grid must be rectilinear: every vector carries the same pixel
// positions, and vector lines are strictly increasing.
func ParseCalibration(r io.Reader) (lut *CalibrationLUT, err error) {
	var doc calibrationFile
	if err = xml.NewDecoder(r).Decode(&doc); err != nil {
		err = ErrCalibrationParse
		return
	}
	if len(doc.Vectors) < 2 {
		err = ErrCalibrationParse
		return
	}
	n := len(doc.Vectors)
	lut = &CalibrationLUT{
		Lines:       make([]float64, n),
		SigmaNought: make([][]float64, n),
		BetaNought:  make([][]float64, n),
		Gamma:       make([][]float64, n),
		DN:          make([][]float64, n),
	}
	for i, vec := range doc.Vectors {
		pixels, e := vec.Pixel.floats()
		if e != nil {
			err = ErrCalibrationParse
			return
		}
		if i == 0 {
			lut.Pixels = pixels
		} else if !sameGrid(lut.Pixels, pixels) {
			err = ErrCalibrationParse
			return
		}
		lut.Lines[i] = float64(vec.Line)
		if lut.SigmaNought[i], e = vec.SigmaNought.floats(); e != nil {
			err = ErrCalibrationParse
			return
		}
		if lut.BetaNought[i], e = vec.BetaNought.floats(); e != nil {
			err = ErrCalibrationParse
			return
		}
		if lut.Gamma[i], e = vec.Gamma.floats(); e != nil {
			err = ErrCalibrationParse
			return
		}
		if lut.DN[i], e = vec.DN.floats(); e != nil {
			err = ErrCalibrationParse
			return
		}
		for _, row := range [][]float64{lut.SigmaNought[i], lut.BetaNought[i], lut.Gamma[i], lut.DN[i]} {
			if len(row) != len(lut.Pixels) {
				err = ErrCalibrationParse
				return
			}
		}
	}
	if !strictlyIncreasing(lut.Lines) || !strictlyIncreasing(lut.Pixels) {
		err = ErrCalibrationParse
		lut = nil
	}
	return
}

// GainGrid densifies the gamma LUT to the full x*y raster resolution.
func (lut *CalibrationLUT) GainGrid(x, y int) (Grid, error) {
	return InterpolateGrid(lut.Pixels, lut.Lines, lut.Gamma, x, y)
}

// GainMax returns the largest gain node value of the gamma LUT.
func (lut *CalibrationLUT) GainMax() (max float64) {
	for _, row := range lut.Gamma {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return
}

// DN0 returns the first dn calibration constant, used to rescale legacy noise
// tables.
func (lut *CalibrationLUT) DN0() float64 {
	return lut.DN[0][0]
}

// InterpolateGrid densifies a sparse rectilinear grid to a full x*y raster.
// values[i][j] is the node value at row position ys[i], column position xs[j];
// both coordinate slices must be strictly increasing with at least two
// entries. Interpolation is linear along each axis, constant beyond the
// outermost nodes.
func InterpolateGrid(xs, ys []float64, values [][]float64, x, y int) (grid Grid, err error) {
	if len(xs) < 2 || len(ys) < 2 || len(values) != len(ys) ||
		!strictlyIncreasing(xs) || !strictlyIncreasing(ys) {
		err = ErrCalibrationParse
		return
	}
	// Densify each sparse row along the pixel axis first, then every column
	// along the line axis.
	rows := make([][]float64, len(ys))
	var pl interp.PiecewiseLinear
	for i, row := range values {
		if len(row) != len(xs) {
			err = ErrCalibrationParse
			return
		}
		if err = pl.Fit(xs, row); err != nil {
			err = ErrCalibrationParse
			return
		}
		rows[i] = make([]float64, x)
		for ix := 0; ix < x; ix++ {
			rows[i][ix] = pl.Predict(float64(ix))
		}
	}
	grid = NewGrid(x, y)
	col := make([]float64, len(ys))
	for ix := 0; ix < x; ix++ {
		for i := range rows {
			col[i] = rows[i][ix]
		}
		if err = pl.Fit(ys, col); err != nil {
			err = ErrCalibrationParse
			return
		}
		for iy := 0; iy < y; iy++ {
			grid.Data[iy*x+ix] = float32(pl.Predict(float64(iy)))
		}
	}
	return
}

func strictlyIncreasing(vs []float64) bool {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return false
		}
	}
	return true
}

func sameGrid(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
