package iterators

import (
	"context"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/ygrebnov/distributor"
)

// FileSystem walks BasePath in lexical order and admits one tuple per regular file.
// The slash-separated path relative to BasePath is both fetch key and emit key.
type FileSystem struct {
	BasePath string
	// Extensions restricts the walk to these suffixes (".pdf"), compared case-insensitively.
	Extensions []string
	// FS overrides the file system rooted at BasePath, mainly for tests.
	FS fs.FS
}

func (f FileSystem) Enumerate(ctx context.Context, a distributor.Admitter) error {
	fsys := f.FS
	if fsys == nil {
		info, err := os.Stat(f.BasePath)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return &fs.PathError{Op: "walk", Path: f.BasePath, Err: fs.ErrInvalid}
		}
		fsys = os.DirFS(f.BasePath)
	}

	d := a.Defaults()
	return fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !f.accept(p) {
			return nil
		}
		return a.Admit(ctx, d.Tuple(p, p, p))
	})
}

func (f FileSystem) accept(p string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := path.Ext(p)
	for _, want := range f.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
