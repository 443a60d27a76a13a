package modload

import (
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZenLiuCN/fn"
)

// Discover lists keywords of units of typ found in dirs, named type_keyword with one of exts.
//
// This use for finding installed units which are not in the Catalog. Missing directories are skipped.
func Discover(dirs []string, typ string, exts []string) (keywords []string, err error) {
	found := make(map[string]struct{})
	prefix := UnitName(typ, "")
	for _, dir := range dirs {
		var e []os.DirEntry
		if e, err = os.ReadDir(dir); err != nil {
			if os.IsNotExist(err) {
				err = nil
				continue
			}
			return
		}
		for _, entry := range e {
			if entry.IsDir() {
				continue
			}
			if k, ok := unitKeyword(entry.Name(), prefix, exts); ok {
				found[k] = struct{}{}
			}
		}
	}
	keywords = fn.MapKeys(found)
	slices.Sort(keywords)
	return
}

func unitKeyword(file, prefix string, exts []string) (string, bool) {
	if !strings.HasPrefix(file, prefix) {
		return "", false
	}
	for _, ext := range exts {
		if ext == "" || !strings.HasSuffix(file, ext) {
			continue
		}
		if k := strings.TrimSuffix(file[len(prefix):], ext); k != "" {
			return k, true
		}
	}
	return "", false
}

// CopyFile from src to dest with optional src file info
func CopyFile(src string, dest string, si fs.FileInfo) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(sf)
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(df)
	if _, err = io.Copy(df, sf); err != nil {
		return
	}
	if si == nil {
		if si, err = os.Stat(src); err != nil {
			return
		}
	}
	return os.Chmod(dest, si.Mode())
}

// CopyDir from src to dest recursively with optional src file info
func CopyDir(src string, dest string, si fs.FileInfo) (err error) {
	if si == nil {
		if si, err = os.Stat(src); err != nil {
			return err
		}
	}
	if err = os.MkdirAll(dest, si.Mode()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		var info fs.FileInfo
		if info, err = e.Info(); err != nil {
			return err
		}
		sp, dp := filepath.Join(src, e.Name()), filepath.Join(dest, e.Name())
		if e.IsDir() {
			err = CopyDir(sp, dp, info)
		} else {
			err = CopyFile(sp, dp, info)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// GoRoot is $GOROOT, or what `go env GOROOT` reports when it is unset.
func GoRoot() (string, error) {
	if v := os.Getenv("GOROOT"); v != "" {
		return v, nil
	}
	out, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// SDKPatch returns the go sdk internals and the copy of them the object backend compiles against.
//
// Building any package importing the object backend requires dst to exist, see CopyDir.
func SDKPatch(root string) (src, dst string) {
	return filepath.Join(root, "src", "cmd", "internal"), filepath.Join(root, "src", "cmd", "objfile")
}
