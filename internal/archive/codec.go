// Package archive converts between zip byte buffers and the in-memory part
// tree. It performs no validation beyond zip structure; a package that
// unpacks is not necessarily consistent.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// Unpack decodes a zip byte buffer into a part tree. Every entry is read
// fully into memory. Returns deckpack.ErrArchiveCorrupt when the buffer is
// not a valid zip archive or an entry cannot be read.
func Unpack(data []byte) (*deckpack.Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deckpack.ErrArchiveCorrupt, err)
	}

	pkg := deckpack.NewPackage()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", deckpack.ErrArchiveCorrupt, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", deckpack.ErrArchiveCorrupt, f.Name, err)
		}
		pkg.SetPart(f.Name, content)
	}
	return pkg, nil
}

// Repack writes the part tree back into zip bytes. Entries are written in
// sorted path order with deflate compression and no modification times, so
// repacking the same tree is byte-for-byte reproducible.
func Repack(pkg *deckpack.Package) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, p := range pkg.Paths() {
		data, _ := pkg.Part(p)
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   p,
			Method: zip.Deflate,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("repack %s: %w", p, err)
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("repack %s: %w", p, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("repack: %w", err)
	}
	return buf.Bytes(), nil
}
