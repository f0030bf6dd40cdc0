// Package web holds the page shell and the fragment templates served to
// clients.
package web

import (
	"embed"
	"io/fs"

	"github.com/spf13/afero"
)

//go:embed templates/*.html
var embedded embed.FS

// TemplateFS returns the filesystem templates are served from. A non-empty
// dir serves that directory read-only; otherwise the embedded defaults are
// used. Paths are relative to the template root, e.g. "page.html".
func TemplateFS(dir string) (afero.Fs, error) {
	if dir != "" {
		return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
	}
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return afero.FromIOFS{FS: sub}, nil
}
