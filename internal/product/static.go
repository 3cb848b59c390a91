package product

import (
	"io/fs"
	"net/http"
	"path"
)

const indexFile = "index.html"

// noListingFS hides directories that have no index.html so the file server
// answers 404 instead of listing their contents.
type noListingFS struct {
	root http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.root.Open(name)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !st.IsDir() {
		return f, nil
	}

	idx, err := n.root.Open(path.Join(name, indexFile))
	if err != nil {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	_ = idx.Close()
	return f, nil
}
