package richcard

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.css
var embeddedAssets embed.FS

// StylesheetName is the page stylesheet inside AssetsFS.
const StylesheetName = "richcard.css"

// AssetsFS exposes the static page assets so applications can serve them.
//
// Typical mount:
//
//	mux.Handle("/richcard/",
//	  http.StripPrefix("/richcard/",
//	    http.FileServerFS(richcard.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func stylesheet() (string, error) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
