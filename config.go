package sentinel1

const (
	FILE_EXT_ZIP  = ".zip"
	FILE_EXT_TIFF = ".tiff"
	FILE_EXT_XML  = ".xml"
	FILE_EXT_SAFE = ".SAFE"

	MEASUREMENT_DIR = "measurement"
	ANNOTATION_DIR  = "annotation"
	CALIBRATION_DIR = "calibration"

	CALIBRATION_PREFIX = "calibration-"
	NOISE_PREFIX       = "noise-"

	MODE_EW = "EW"

	GTIFF_COMPRESS_OPTION = "COMPRESS=DEFLATE"

	// Backscatter sentinel for invalid / zero-DN pixels, well below the EW
	// noise floor.
	NODATA_DB = -99.0

	// Noise LUTs produced before July 2015 are given in wrong units and must
	// be rescaled by this factor times the DN calibration constant (ESA
	// technical note).
	OLD_NOISE_K = 56065.87

	// Default clip span of calibrated data per band, dB. Derived from kmeans
	// cluster analysis of a set of EW scenes.
	HH_IMG_MAX = 4.1439806
	HH_IMG_MIN = -29.1536059
	HV_IMG_MAX = -0.6015132
	HV_IMG_MIN = -32.0630673

	GCP_SRID = 4326

	WGS84_WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`
)
