package sentinel1

import (
	"encoding/xml"
	"io"
	"os"
	"time"

	"github.com/d-murashkin/sentinel1-routines/log"

	"go.uber.org/zap"
)

const azimuthTimeLayout = "2006-01-02T15:04:05.000000"

type geolocationGridPoint struct {
	AzimuthTime    string  `xml:"azimuthTime"`
	SlantRangeTime float64 `xml:"slantRangeTime"`
	Line           float64 `xml:"line"`
	Pixel          float64 `xml:"pixel"`
	Latitude       float64 `xml:"latitude"`
	Longitude      float64 `xml:"longitude"`
	Height         float64 `xml:"height"`
	IncidenceAngle float64 `xml:"incidenceAngle"`
	ElevationAngle float64 `xml:"elevationAngle"`
}

type annotationFile struct {
	XMLName   xml.Name `xml:"product"`
	AdsHeader struct {
		Mode         string `xml:"mode"`
		Polarisation string `xml:"polarisation"`
	} `xml:"adsHeader"`
	ImageInformation struct {
		NumberOfSamples int `xml:"numberOfSamples"`
		NumberOfLines   int `xml:"numberOfLines"`
	} `xml:"imageAnnotation>imageInformation"`
	Points []geolocationGridPoint `xml:"geolocationGrid>geolocationGridPointList>geolocationGridPoint"`
}

// Annotation holds the parts of a band annotation the reader needs: the
// sensing mode, the raster dimensions and the geolocation grid.
type Annotation struct {
	Mode string
	X    int // samples per line
	Y    int // lines
	GCPs []GCP
}

// ParseAnnotationFile reads and parses a band annotation (s1?-ew-*.xml).
func ParseAnnotationFile(path string) (ann *Annotation, err error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error("open band annotation failed", zap.String("path", path), zap.Error(err))
		err = ErrNotFound
		return
	}
	defer f.Close()
	if ann, err = ParseAnnotation(f); err != nil {
		log.Error("parse band annotation failed", zap.String("path", path), zap.Error(err))
	}
	return
}

func ParseAnnotation(r io.Reader) (ann *Annotation, err error) {
	var doc annotationFile
	if err = xml.NewDecoder(r).Decode(&doc); err != nil {
		err = ErrAnnotationParse
		return
	}
	if len(doc.Points) == 0 || doc.ImageInformation.NumberOfSamples <= 0 || doc.ImageInformation.NumberOfLines <= 0 {
		err = ErrAnnotationParse
		return
	}
	ann = &Annotation{
		Mode: doc.AdsHeader.Mode,
		X:    doc.ImageInformation.NumberOfSamples,
		Y:    doc.ImageInformation.NumberOfLines,
		GCPs: make([]GCP, len(doc.Points)),
	}
	for i, p := range doc.Points {
		at, e := time.Parse(azimuthTimeLayout, p.AzimuthTime)
		if e != nil {
			ann = nil
			err = ErrAnnotationParse
			return
		}
		ann.GCPs[i] = GCP{
			Line:           p.Line,
			Pixel:          p.Pixel,
			Latitude:       p.Latitude,
			Longitude:      p.Longitude,
			Height:         p.Height,
			IncidenceAngle: p.IncidenceAngle,
			ElevationAngle: p.ElevationAngle,
			SlantRangeTime: p.SlantRangeTime,
			AzimuthTime:    at,
		}
	}
	return
}

// Georef builds the value-type georeferencing descriptor of the annotated
// raster, with GCP coordinates in WGS84.
func (a *Annotation) Georef() Georef {
	gcps := make([]GCP, len(a.GCPs))
	copy(gcps, a.GCPs)
	return Georef{
		GCPs:       gcps,
		X:          a.X,
		Y:          a.Y,
		Projection: WGS84_WKT,
	}
}
