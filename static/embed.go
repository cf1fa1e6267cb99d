// Package staticfiles ships the report page assets inside the binary.
package staticfiles

import (
	"embed"
	"io/fs"
)

// URLPrefix is where the server mounts these files.
const URLPrefix = "/static/"

//go:embed css
var assets embed.FS

func EmbeddedFS() fs.FS {
	return assets
}
