package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Archive accumulates files into an in-memory ZIP. The first error sticks and
// is returned by Bytes.
type Archive struct {
	buf bytes.Buffer
	zw  *zip.Writer
	err error
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	a := &Archive{}
	a.zw = zip.NewWriter(&a.buf)
	return a
}

// Add stores data under name.
func (a *Archive) Add(name string, data []byte) {
	if a.err != nil {
		return
	}
	w, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now().UTC(),
	})
	if err != nil {
		a.err = fmt.Errorf("create %s in zip: %w", name, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		a.err = fmt.Errorf("write %s in zip: %w", name, err)
	}
}

// AddJSON stores v as indented JSON under name.
func (a *Archive) AddJSON(name string, v any) {
	if a.err != nil {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		a.err = fmt.Errorf("encode %s: %w", name, err)
		return
	}
	a.Add(name, data)
}

// Bytes closes the archive and returns its contents.
func (a *Archive) Bytes() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	if err := a.zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return a.buf.Bytes(), nil
}
