package sentinel1

import (
	"github.com/d-murashkin/sentinel1-routines/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// WriteDataGeotiff writes data (one Grid per output band) to a GeoTIFF at
// outputPath, georeferenced with the GCPs of ref rescaled by the decimation
// factor dec. Every layer must measure ref.X/dec by ref.Y/dec, validated
// before anything is created on disk. Pixels equal to nodataVal are tagged as
// no-data in the output metadata.
func WriteDataGeotiff(data []Grid, outputPath string, ref Georef, dec int, nodataVal float64) (err error) {
	outX, outY, err := decimatedShape(ref, dec)
	if err != nil {
		return
	}
	if len(data) == 0 {
		return ErrShapeMismatch
	}
	for _, layer := range data {
		if layer.X != outX || layer.Y != outY || len(layer.Data) != outX*outY {
			log.Error("layer shape inconsistent with decimated raster",
				zap.Int("x", layer.X), zap.Int("y", layer.Y),
				zap.Int("outX", outX), zap.Int("outY", outY), zap.Int("dec", dec))
			return ErrShapeMismatch
		}
	}
	registerDrivers.Do(gdal.RegisterAll)
	ds, err := gdal.Create(gdal.GTiff, outputPath, len(data), gdal.Float32, outX, outY,
		gdal.CreationOption(GTIFF_COMPRESS_OPTION))
	if err != nil {
		log.Error("create output tif failed", zap.String("path", outputPath), zap.Error(err))
		return ErrTifWriteFailed
	}
	closed := false
	defer func() {
		if !closed {
			ds.Close()
		}
	}()
	if err = ds.SetGCPs(RescaleGCPs(ref.GCPs, dec), gdal.GCPProjection(ref.Projection)); err != nil {
		log.Error("set output GCPs failed", zap.String("path", outputPath), zap.Error(err))
		return ErrTifWriteFailed
	}
	for i, band := range ds.Bands() {
		if err = band.SetNoData(nodataVal); err != nil {
			log.Error("set nodata failed", zap.String("path", outputPath), zap.Error(err))
			return ErrTifWriteFailed
		}
		if err = band.IO(gdal.IOWrite, 0, 0, data[i].Data, outX, outY); err != nil {
			log.Error("write tif band failed", zap.String("path", outputPath), zap.Int("band", i), zap.Error(err))
			return ErrTifWriteFailed
		}
	}
	closed = true
	if err = ds.Close(); err != nil {
		log.Error("flush output tif failed", zap.String("path", outputPath), zap.Error(err))
		return ErrTifWriteFailed
	}
	log.Info("output tif written", zap.String("path", outputPath),
		zap.Int("bands", len(data)), zap.Int("width", outX), zap.Int("height", outY), zap.Int("dec", dec))
	return
}

// RescaleGCPs divides every GCP's raster position by the decimation factor,
// leaving geographic coordinates untouched, so a decimated array keeps its
// georeferencing.
func RescaleGCPs(gcps []GCP, dec int) []gdal.GCP {
	d := float64(dec)
	out := make([]gdal.GCP, len(gcps))
	for i, p := range gcps {
		out[i] = gdal.GCP{
			PszId:      "",
			PszInfo:    "",
			DfGCPPixel: p.Pixel / d,
			DfGCPLine:  p.Line / d,
			DfGCPX:     p.Longitude,
			DfGCPY:     p.Latitude,
			DfGCPZ:     p.Height,
		}
	}
	return out
}

func decimatedShape(ref Georef, dec int) (outX, outY int, err error) {
	if dec < 1 || ref.X <= 0 || ref.Y <= 0 {
		err = ErrShapeMismatch
		return
	}
	outX = ref.X / dec
	outY = ref.Y / dec
	return
}

// Decimate subsamples a grid by taking every dec-th pixel along both axes,
// matching the shape WriteDataGeotiff expects for that decimation factor.
func Decimate(g Grid, dec int) (out Grid, err error) {
	if dec < 1 {
		err = ErrShapeMismatch
		return
	}
	if dec == 1 {
		out = g
		return
	}
	out = NewGrid(g.X/dec, g.Y/dec)
	for iy := 0; iy < out.Y; iy++ {
		for ix := 0; ix < out.X; ix++ {
			out.Data[iy*out.X+ix] = g.Data[iy*dec*g.X+ix*dec]
		}
	}
	return
}
