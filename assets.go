package spidrform

import (
	"io/fs"

	"github.com/goliatone/go-spidrform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the page template so callers can reuse or
// extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the page stylesheet and scripts.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(spidrform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
