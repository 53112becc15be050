package utils

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBadMemberPath = errors.New("zip member path escapes destination")
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// Unzip extracts every member of zipFile under dstDir.
func Unzip(zipFile, dstDir string) (files []string, err error) {
	files, _, err = ExtractMembers(zipFile, dstDir, nil)
	return
}

// ExtractMembers extracts the members of zipFile selected by keep (all members
// when keep is nil) under dstDir, preserving in-archive paths. Returns the
// extracted file paths and their total uncompressed size.
func ExtractMembers(zipFile, dstDir string, keep func(name string) bool) (files []string, size int64, err error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return
	}
	defer r.Close()
	for _, f := range r.File {
		if keep != nil && !keep(f.Name) {
			continue
		}
		var target string
		if target, err = memberPath(dstDir, f.Name); err != nil {
			return
		}
		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(target, os.ModePerm); err != nil {
				return
			}
			continue
		}
		if err = os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return
		}
		if err = extractFile(f, target); err != nil {
			return
		}
		files = append(files, target)
		size += int64(f.UncompressedSize64)
	}
	return
}

// ListZip returns the member names of zipFile without extracting anything.
func ListZip(zipFile string) (names []string, err error) {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return
	}
	defer r.Close()
	names = make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return
}

func memberPath(dstDir, name string) (target string, err error) {
	target = filepath.Join(dstDir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dstDir)+string(os.PathSeparator)) {
		err = ErrBadMemberPath
	}
	return
}

// CopyFile copies src to dst, preserving the file mode.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return
}

// MoveFile renames src to dst, falling back to copy and remove across
// filesystems.
func MoveFile(src, dst string) (err error) {
	if err = os.Rename(src, dst); err == nil {
		return
	}
	if err = CopyFile(src, dst); err != nil {
		return
	}
	return os.Remove(src)
}

func extractFile(f *zip.File, target string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return
}
