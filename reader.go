package sentinel1

import (
	"math"
	"os"
	"sync"
	"time"

	"github.com/d-murashkin/sentinel1-routines/log"
	"github.com/d-murashkin/sentinel1-routines/utils"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

var registerDrivers sync.Once

// Band is one polarization's raster of a scene. After Scene.ReadData, Data
// holds calibrated backscatter in dB; pixels with zero digital number (and
// any non-finite result) are set to NoData.
type Band struct {
	Pol    Polarization
	Name   string // SAFE band file name without extension
	Data   Grid
	NoData float32

	files bandFiles
	read  bool
}

// Scene is a Sentinel-1 EW product. NewScene locates the product members,
// ReadData populates the bands and the georeferencing; Close releases any
// temporary extraction directory.
type Scene struct {
	Path      string
	Timestamp time.Time
	HH        *Band
	HV        *Band
	Georef    Georef

	// Noise subtraction is on by default; switch it off before ReadData to
	// get purely calibrated values.
	SkipNoise bool

	layout productLayout
	tmpDir string
}

// NewScene locates the measurement and annotation members of the scene at
// path (a .SAFE directory or a .zip archive) without reading any raster data.
func NewScene(path string) (s *Scene, err error) {
	layout, tmpDir, err := locateProduct(path)
	if err != nil {
		return
	}
	s = &Scene{
		Path:   path,
		layout: layout,
		tmpDir: tmpDir,
	}
	if bf, ok := layout.bands[HH]; ok {
		s.HH = &Band{Pol: HH, Name: bf.name, NoData: NODATA_DB, files: bf}
	}
	if bf, ok := layout.bands[HV]; ok {
		s.HV = &Band{Pol: HV, Name: bf.name, NoData: NODATA_DB, files: bf}
	}
	if ts, e := utils.SceneTime(layout.folder); e == nil {
		s.Timestamp = ts
	}
	return
}

// Bands lists the polarizations present in the product.
func (s *Scene) Bands() (bands []*Band) {
	if s.HH != nil {
		bands = append(bands, s.HH)
	}
	if s.HV != nil {
		bands = append(bands, s.HV)
	}
	return
}

// Band returns the band of the requested polarization, ErrMissingBand when
// the product does not carry it, ErrDataNotRead before ReadData.
func (s *Scene) Band(pol Polarization) (b *Band, err error) {
	switch pol {
	case HH:
		b = s.HH
	case HV:
		b = s.HV
	}
	if b == nil {
		err = ErrMissingBand
		return
	}
	if !b.read {
		err = ErrDataNotRead
	}
	return
}

// ReadData reads every available band, applies radiometric calibration (and
// thermal noise subtraction unless SkipNoise is set), and parses the shared
// georeferencing. Any parse or I/O failure is fatal to the call.
func (s *Scene) ReadData() (err error) {
	bands := s.Bands()
	if len(bands) == 0 {
		return ErrNoBands
	}
	ann, err := ParseAnnotationFile(bands[0].files.annotation)
	if err != nil {
		return
	}
	if ann.Mode != MODE_EW {
		log.Error("scene is not an EW product", zap.String("mode", ann.Mode))
		return ErrUnsupportedMode
	}
	s.Georef = ann.Georef()
	for _, b := range bands {
		if err = b.readData(s.SkipNoise); err != nil {
			return
		}
		if b.Data.X != s.Georef.X || b.Data.Y != s.Georef.Y {
			log.Error("band raster does not match annotated dimensions",
				zap.String("band", string(b.Pol)),
				zap.Int("x", b.Data.X), zap.Int("y", b.Data.Y),
				zap.Int("annX", s.Georef.X), zap.Int("annY", s.Georef.Y))
			return ErrShapeMismatch
		}
	}
	return
}

// Close removes the temporary extraction directory, if any. Safe to call
// multiple times.
func (s *Scene) Close() (err error) {
	if s.tmpDir != "" {
		err = os.RemoveAll(s.tmpDir)
		s.tmpDir = ""
	}
	return
}

func (b *Band) readData(skipNoise bool) (err error) {
	dn, err := readBandRaster(b.files.measurement)
	if err != nil {
		return
	}
	cal, err := ParseCalibrationFile(b.files.calibration)
	if err != nil {
		return
	}
	gain, err := cal.GainGrid(dn.X, dn.Y)
	if err != nil {
		return
	}
	var noise Grid
	if !skipNoise && b.files.noise != "" {
		var lut *NoiseLUT
		if lut, err = ParseNoiseFile(b.files.noise); err != nil {
			return
		}
		if lut.Max() < 1 {
			lut.Rescale(OLD_NOISE_K * cal.DN0())
		}
		if noise, err = lut.Grid(dn.X, dn.Y); err != nil {
			return
		}
	}
	b.Data = calibrate(dn, gain, noise, cal.GainMax(), b.NoData)
	b.read = true
	log.Info("band read", zap.String("band", string(b.Pol)),
		zap.Int("x", b.Data.X), zap.Int("y", b.Data.Y), zap.Bool("denoised", noise.Data != nil))
	return
}

// calibrate converts digital numbers into backscatter in dB:
//
//	dB = 10 * log10((DN^2 - noise) / gain^2)
//
// clipped from below at 1/gainMax before the logarithm. Zero-DN pixels and
// non-finite results are set to the nodata sentinel.
func calibrate(dn, gain, noise Grid, gainMax float64, noData float32) Grid {
	out := NewGrid(dn.X, dn.Y)
	threshold := 1 / gainMax
	for i, d := range dn.Data {
		if d == 0 {
			out.Data[i] = noData
			continue
		}
		v := float64(d) * float64(d)
		if noise.Data != nil {
			v -= float64(noise.Data[i])
		}
		g := float64(gain.Data[i])
		v /= g * g
		if v < threshold {
			v = threshold
		}
		db := 10 * math.Log10(v)
		if math.IsInf(db, 0) || math.IsNaN(db) {
			out.Data[i] = noData
			continue
		}
		out.Data[i] = float32(db)
	}
	return out
}

func readBandRaster(path string) (grid Grid, err error) {
	registerDrivers.Do(gdal.RegisterAll)
	sds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		log.Error("open measurement tif failed", zap.String("path", path), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	tifBands := sds.Bands()
	if len(tifBands) == 0 {
		log.Error("measurement tif has no bands", zap.String("path", path))
		err = ErrInvalidTif
		return
	}
	band := tifBands[0]
	bandStruct := band.Structure()
	x := bandStruct.SizeX
	y := bandStruct.SizeY
	log.Info("read measurement tif", zap.String("path", path),
		zap.Int("dt", int(bandStruct.DataType)), zap.Int("width", x), zap.Int("height", y))
	grid = NewGrid(x, y)
	if err = band.IO(gdal.IORead, 0, 0, grid.Data, x, y); err != nil {
		log.Error("read measurement tif failed", zap.String("path", path), zap.Error(err))
		err = ErrTifReadFailed
	}
	return
}
