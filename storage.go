package sentinel1

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/d-murashkin/sentinel1-routines/log"
	"github.com/d-murashkin/sentinel1-routines/utils"

	"go.uber.org/zap"
)

// SceneFolder resolves the root/YYYY/MM/DD storage folder for a scene from
// the timestamp in its name, optionally creating the folders.
func SceneFolder(sceneName, rootFolder string, create bool) (folder string, err error) {
	t, err := utils.SceneTime(sceneName)
	if err != nil {
		log.Error("could not recognize scene timestamp", zap.String("scene", sceneName), zap.Error(err))
		err = ErrNotSceneArchive
		return
	}
	return DateFolder(t, rootFolder, create)
}

// DateFolder resolves the root/YYYY/MM/DD storage folder for a date,
// optionally creating the folders.
func DateFolder(t time.Time, rootFolder string, create bool) (folder string, err error) {
	folder = filepath.Join(rootFolder, t.Format("2006"), t.Format("01"), t.Format("02"))
	if create {
		err = os.MkdirAll(folder, os.ModePerm)
	}
	return
}

// ArrangeScene files a downloaded scene archive into the date-based storage
// layout under rootFolder, moving it by default or copying when copyFile is
// set. Returns the new archive path.
func ArrangeScene(scenePath, rootFolder string, copyFile bool) (dst string, err error) {
	name := filepath.Base(scenePath)
	if !utils.IsSentinel1Scene(name) || !strings.HasSuffix(name, FILE_EXT_ZIP) {
		err = ErrNotSceneArchive
		return
	}
	folder, err := SceneFolder(name, rootFolder, true)
	if err != nil {
		return
	}
	dst = filepath.Join(folder, name)
	if copyFile {
		err = utils.CopyFile(scenePath, dst)
	} else {
		err = utils.MoveFile(scenePath, dst)
	}
	if err != nil {
		log.Error("arrange scene failed", zap.String("scene", name), zap.Error(err))
		dst = ""
	}
	return
}

// IsAvailable checks whether the scene is present in the rootFolder storage,
// as a zip archive or an unpacked .SAFE folder.
func IsAvailable(sceneName, rootFolder string) bool {
	folder, err := SceneFolder(sceneName, rootFolder, false)
	if err != nil {
		return false
	}
	base := utils.GetFilenameWithoutExt(sceneName)
	for _, name := range []string{base + FILE_EXT_ZIP, base + FILE_EXT_SAFE, base} {
		if _, err = os.Stat(filepath.Join(folder, name)); err == nil {
			return true
		}
	}
	return false
}
