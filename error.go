package sentinel1

import "errors"

var (
	ErrNotFound         = errors.New("scene path or product member not found")
	ErrUnsupportedMode  = errors.New("unsupported sensing mode, only EW is handled")
	ErrCalibrationParse = errors.New("malformed calibration annotation")
	ErrNoiseParse       = errors.New("malformed noise annotation")
	ErrAnnotationParse  = errors.New("malformed band annotation")
	ErrMissingBand      = errors.New("requested polarization is not in the product")
	ErrShapeMismatch    = errors.New("array shape inconsistent with decimation factor")
	ErrNoBands          = errors.New("no measurement bands in the product")
	ErrNotSceneArchive  = errors.New("not a Sentinel-1 scene archive")
	ErrDataNotRead      = errors.New("band data not read yet")
	ErrInvalidTif       = errors.New("invalid tif")
	ErrTifReadFailed    = errors.New("tif read failed")
	ErrTifWriteFailed   = errors.New("tif write failed")
)
