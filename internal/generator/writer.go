package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	outputDirPerm  = 0o755
	outputFilePerm = 0o644
)

// sameContent reports whether path already holds exactly data.
func sameContent(fs afero.Fs, path string, data []byte) bool {
	existing, err := afero.ReadFile(fs, path)
	if err != nil {
		return false
	}
	return bytes.Equal(existing, data)
}

// writeAtomic writes data to a temporary sibling of path and renames it into
// place, so readers see either the old file or the new one. The temp file is
// removed on any failure.
func writeAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, outputDirPerm); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "create temp file", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &IOError{Op: "sync", Path: tmpName, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err = fs.Chmod(tmpName, outputFilePerm); err != nil {
		return &IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err = fs.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: fmt.Errorf("%w (from %s)", err, tmpName)}
	}
	return nil
}

// isDir reports whether path exists and is a directory.
func isDir(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
