package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	w := zip.NewWriter(out)
	defer w.Close()
	for name, content := range members {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestUnzip(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"scene/measurement/a.tiff": "raster",
		"scene/annotation/a.xml":   "xml",
	})
	dst := t.TempDir()
	files, err := Unzip(zipPath, dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("extracted %d files", len(files))
	}
	data, err := os.ReadFile(filepath.Join(dst, "scene", "measurement", "a.tiff"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "raster" {
		t.Fatalf("content %q", data)
	}
}

func TestExtractMembersSelective(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"scene/measurement/a.tiff": "raster",
		"scene/preview/thumb.png":  "png",
	})
	dst := t.TempDir()
	files, size, err := ExtractMembers(zipPath, dst, func(name string) bool {
		return strings.HasSuffix(name, ".tiff")
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || size != int64(len("raster")) {
		t.Fatalf("files %v size %d", files, size)
	}
	if _, err = os.Stat(filepath.Join(dst, "scene", "preview", "thumb.png")); !os.IsNotExist(err) {
		t.Fatal("unselected member extracted")
	}
}

func TestExtractMembersRejectsEscape(t *testing.T) {
	zipPath := makeZip(t, map[string]string{"../evil.txt": "x"})
	if _, _, err := ExtractMembers(zipPath, t.TempDir(), nil); err == nil {
		t.Fatal("path escape not rejected")
	}
}

func TestMoveFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.txt")
	dst := filepath.Join(t.TempDir(), "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source still present")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("destination content %q, err %v", data, err)
	}
}
