// assets/embed.go
//
// Files compiled into the binaries:
//   - wordlists.json: the built-in level → words table, used whenever no
//     external word list is configured or the configured one fails to load.
//   - static/: stylesheet and script for the display page, served under
//     /static/ by the HTTP server. The page itself is internal/views.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed wordlists.json static
var FS embed.FS

// DefaultWordLists returns the raw embedded word-list JSON.
func DefaultWordLists() []byte {
	b, err := FS.ReadFile("wordlists.json")
	if err != nil {
		// Only reachable if the embed directive and file names drift apart.
		panic("assets: " + err.Error())
	}
	return b
}

// Static is the display page's static files, rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic("assets: " + err.Error())
	}
	return sub
}
