package sentinel1

import (
	"fmt"
	"strings"
	"sync"

	"github.com/d-murashkin/sentinel1-routines/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

var (
	wgs84Once sync.Once
	wgs84Ref  gdal.SpatialReference
)

// reusable GCP spatial reference, never destroyed
func wgs84SpatialRef() gdal.SpatialReference {
	wgs84Once.Do(func() {
		wgs84Ref = gdal.CreateSpatialReference("")
		wgs84Ref.FromEPSG(GCP_SRID)
		wgs84Ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	})
	return wgs84Ref
}

// Footprint returns the scene outline as a WGS84 WKT polygon, the convex hull
// of the geolocation grid. Works after NewScene; the rasters do not have to
// be read.
func (s *Scene) Footprint() (wkt string, err error) {
	if len(s.Georef.GCPs) == 0 {
		bands := s.Bands()
		if len(bands) == 0 {
			err = ErrNoBands
			return
		}
		var ann *Annotation
		if ann, err = ParseAnnotationFile(bands[0].files.annotation); err != nil {
			return
		}
		s.Georef = ann.Georef()
	}
	var sb strings.Builder
	sb.WriteString("MULTIPOINT(")
	for i, p := range s.Georef.GCPs {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%f %f", p.Longitude, p.Latitude)
	}
	sb.WriteByte(')')
	geo, err := gdal.CreateFromWKT(sb.String(), wgs84SpatialRef())
	if err != nil {
		log.Error("build footprint geometry failed", zap.Error(err))
		return
	}
	defer geo.Destroy()
	hull := geo.ConvexHull()
	defer hull.Destroy()
	wkt, err = hull.ToWKT()
	return
}
