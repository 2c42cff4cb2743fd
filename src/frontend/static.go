// Package frontend serves the built dashboard UI from a directory.
package frontend

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// safeFileSystem wraps http.Dir to prevent directory traversal attacks.
type safeFileSystem struct {
	root string
}

// Open implements http.FileSystem with path traversal protection.
func (fs safeFileSystem) Open(name string) (http.File, error) {
	cleanPath := filepath.Clean("/" + filepath.FromSlash(name))

	absRoot, err := filepath.Abs(fs.root)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(filepath.Join(absRoot, cleanPath))
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) && absPath != absRoot {
		return nil, os.ErrNotExist
	}

	return os.Open(absPath)
}

// NewSafeFileSystem creates a new safe file system that prevents path traversal.
func NewSafeFileSystem(root string) http.FileSystem {
	return safeFileSystem{root: root}
}

// Handler serves the UI in uiPath. Paths that do not name a file get
// index.html, so client-side routes load the app.
func Handler(uiPath string) http.Handler {
	files := NewSafeFileSystem(uiPath)
	fileServer := http.FileServer(files)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if name != "/" && !exists(files, name) {
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/"
			fileServer.ServeHTTP(w, r2)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func exists(files http.FileSystem, name string) bool {
	f, err := files.Open(name)
	if err != nil {
		return !errors.Is(err, fs.ErrNotExist)
	}
	_ = f.Close()
	return true
}
