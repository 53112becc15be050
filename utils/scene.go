package utils

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const sceneTimeLayout = "20060102T150405"

var (
	ErrBadSceneName = errors.New("unrecognized scene name")

	sceneNameRe = regexp.MustCompile(`^S1[AB]_`)
)

// SceneTime reads the acquisition start time embedded in a Sentinel-1 scene
// name (5th underscore-separated field), so scene listings can be sorted by
// time: sort.Slice(scenes, func(i, j int) bool { ti, _ := SceneTime(scenes[i]); ... }).
func SceneTime(scenePath string) (t time.Time, err error) {
	name := GetFilenameWithoutExt(scenePath)
	fields := strings.Split(name, "_")
	if len(fields) < 5 {
		err = ErrBadSceneName
		return
	}
	t, err = time.Parse(sceneTimeLayout, strings.ToUpper(fields[4]))
	if err != nil {
		err = ErrBadSceneName
	}
	return
}

// IsSentinel1Scene reports whether path names a Sentinel-1 product file.
func IsSentinel1Scene(path string) bool {
	return sceneNameRe.MatchString(filepath.Base(path))
}
