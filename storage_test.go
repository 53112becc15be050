package sentinel1

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSceneFolderLayout(t *testing.T) {
	root := t.TempDir()
	folder, err := SceneFolder(testSceneName+FILE_EXT_ZIP, root, false)
	if err != nil {
		t.Fatal(err)
	}
	if folder != filepath.Join(root, "2020", "01", "07") {
		t.Fatalf("unexpected folder %q", folder)
	}
	if _, err = os.Stat(folder); !os.IsNotExist(err) {
		t.Fatal("folder created without create flag")
	}
	if folder, err = SceneFolder(testSceneName, root, true); err != nil {
		t.Fatal(err)
	}
	if info, e := os.Stat(folder); e != nil || !info.IsDir() {
		t.Fatal("folder not created")
	}
}

func TestSceneFolderBadName(t *testing.T) {
	if _, err := SceneFolder("random_file.zip", t.TempDir(), false); !errors.Is(err, ErrNotSceneArchive) {
		t.Fatalf("expected ErrNotSceneArchive, got %v", err)
	}
}

func TestArrangeScene(t *testing.T) {
	root := t.TempDir()
	inbox := t.TempDir()
	src := filepath.Join(inbox, testSceneName+FILE_EXT_ZIP)
	if err := os.WriteFile(src, []byte("zip"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	dst, err := ArrangeScene(src, root, false)
	if err != nil {
		t.Fatal(err)
	}
	if dst != filepath.Join(root, "2020", "01", "07", testSceneName+FILE_EXT_ZIP) {
		t.Fatalf("unexpected destination %q", dst)
	}
	if _, err = os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source not moved")
	}
	if _, err = os.Stat(dst); err != nil {
		t.Fatal("destination missing")
	}
	if !IsAvailable(testSceneName, root) {
		t.Fatal("arranged scene should be available")
	}
	if IsAvailable("S1B_EW_GRDM_1SDH_20210316T080000_20210316T080100_026000_031000_AAAA", root) {
		t.Fatal("unknown scene should not be available")
	}
}

func TestArrangeSceneRejectsNonScene(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.zip")
	if err := os.WriteFile(src, []byte("zip"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if _, err := ArrangeScene(src, t.TempDir(), false); !errors.Is(err, ErrNotSceneArchive) {
		t.Fatalf("expected ErrNotSceneArchive, got %v", err)
	}
	// A Sentinel scene name that is not a zip archive is skipped too.
	safe := filepath.Join(t.TempDir(), testSceneName+FILE_EXT_SAFE)
	if err := os.WriteFile(safe, []byte("x"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if _, err := ArrangeScene(safe, t.TempDir(), false); !errors.Is(err, ErrNotSceneArchive) {
		t.Fatalf("expected ErrNotSceneArchive, got %v", err)
	}
}
