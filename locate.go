package sentinel1

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/d-murashkin/sentinel1-routines/log"
	"github.com/d-murashkin/sentinel1-routines/utils"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// bandFiles holds the on-disk locations of one polarization's rasters and
// annotations inside the SAFE product structure.
type bandFiles struct {
	name        string // SAFE band file name without extension
	measurement string
	annotation  string
	calibration string
	noise       string // empty when the product carries no noise annotation
}

type productLayout struct {
	folder string
	bands  map[Polarization]bandFiles
}

// locateProduct resolves a scene path (unpacked .SAFE directory, a directory
// containing one, or a .zip archive) to the measurement and annotation files
// of each available polarization. For archives only the needed members are
// extracted, into a unique sub-directory of the system temp dir; the caller
// owns tmpDir and must remove it when done.
func locateProduct(path string) (layout productLayout, tmpDir string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		log.Error("scene path not accessible", zap.String("path", path), zap.Error(err))
		err = ErrNotFound
		return
	}
	folder := path
	if !info.IsDir() {
		if tmpDir, err = extractScene(path); err != nil {
			return
		}
		folder = tmpDir
	}
	defer func() {
		if err != nil && tmpDir != "" {
			os.RemoveAll(tmpDir)
			tmpDir = ""
		}
	}()
	if layout.folder, err = resolveProductFolder(folder); err != nil {
		return
	}
	layout.bands, err = scanBands(layout.folder)
	return
}

func extractScene(path string) (tmpDir string, err error) {
	tmpDir, err = utils.GetUniqSubDir(os.TempDir())
	if err != nil {
		return
	}
	files, size, err := utils.ExtractMembers(path, tmpDir, neededMember)
	if err != nil {
		log.Error("scene archive extraction failed", zap.String("path", path), zap.Error(err))
		os.RemoveAll(tmpDir)
		tmpDir = ""
		err = ErrNotFound
		return
	}
	log.Info("extracted scene members",
		zap.String("scene", filepath.Base(path)),
		zap.Int("files", len(files)),
		zap.String("size", humanize.Bytes(uint64(size))))
	return
}

// neededMember selects the archive members the reader consumes: measurement
// rasters and annotation XMLs (incl. calibration and noise LUTs).
func neededMember(name string) bool {
	switch {
	case strings.Contains(name, "/"+MEASUREMENT_DIR+"/") && strings.HasSuffix(name, FILE_EXT_TIFF):
		return true
	case strings.Contains(name, "/"+ANNOTATION_DIR+"/") && strings.HasSuffix(name, FILE_EXT_XML):
		return true
	}
	return false
}

// resolveProductFolder descends into the .SAFE folder when path is its
// parent (the layout a zip extraction produces).
func resolveProductFolder(path string) (folder string, err error) {
	if hasSubDir(path, MEASUREMENT_DIR) {
		folder = path
		return
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		err = ErrNotFound
		return
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), FILE_EXT_SAFE) {
			folder = filepath.Join(path, e.Name())
			if hasSubDir(folder, MEASUREMENT_DIR) {
				return
			}
		}
	}
	log.Error("no measurement folder in scene", zap.String("path", path))
	err = ErrNotFound
	return
}

func hasSubDir(path, name string) bool {
	info, err := os.Stat(filepath.Join(path, name))
	return err == nil && info.IsDir()
}

func scanBands(folder string) (bands map[Polarization]bandFiles, err error) {
	entries, err := os.ReadDir(filepath.Join(folder, MEASUREMENT_DIR))
	if err != nil {
		err = ErrNotFound
		return
	}
	bands = map[Polarization]bandFiles{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FILE_EXT_TIFF) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), FILE_EXT_TIFF)
		var pol Polarization
		switch {
		case strings.Contains(name, "-hh-"):
			pol = HH
		case strings.Contains(name, "-hv-"):
			pol = HV
		default:
			log.Warn("skipping unrecognized measurement file", zap.String("name", e.Name()))
			continue
		}
		if mode := bandNameMode(name); mode != MODE_EW {
			log.Error("scene is not an EW product", zap.String("name", e.Name()), zap.String("mode", mode))
			err = ErrUnsupportedMode
			return
		}
		bf := bandFiles{
			name:        name,
			measurement: filepath.Join(folder, MEASUREMENT_DIR, name+FILE_EXT_TIFF),
			annotation:  filepath.Join(folder, ANNOTATION_DIR, name+FILE_EXT_XML),
			calibration: filepath.Join(folder, ANNOTATION_DIR, CALIBRATION_DIR, CALIBRATION_PREFIX+name+FILE_EXT_XML),
			noise:       filepath.Join(folder, ANNOTATION_DIR, CALIBRATION_DIR, NOISE_PREFIX+name+FILE_EXT_XML),
		}
		for _, required := range []string{bf.annotation, bf.calibration} {
			if _, e := os.Stat(required); e != nil {
				log.Error("annotation member missing", zap.String("path", required))
				err = ErrNotFound
				return
			}
		}
		if _, e := os.Stat(bf.noise); e != nil {
			bf.noise = ""
		}
		bands[pol] = bf
	}
	if len(bands) == 0 {
		err = ErrNoBands
	}
	return
}

// bandNameMode extracts the acquisition mode tag from a SAFE measurement file
// name, e.g. s1a-ew-grd-hh-... -> EW.
func bandNameMode(name string) string {
	fields := strings.Split(name, "-")
	if len(fields) < 2 {
		return ""
	}
	mode := strings.ToUpper(fields[1])
	if len(mode) > 2 {
		mode = mode[:2] // SLC swath tags carry a number, e.g. ew1
	}
	return mode
}
