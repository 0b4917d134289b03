package web

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"
)

//go:embed static/*
var staticFiles embed.FS

func StaticFilesFS() fs.FS {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to create sub filesystem: " + err.Error())
	}
	return subFS
}

// staticAsset is an embedded file with its precomputed headers
type staticAsset struct {
	data        []byte
	contentType string
	etag        string
}

var (
	assetsOnce sync.Once
	assets     map[string]staticAsset
)

// loadAssets reads every embedded static file once. Embedded files carry no modification
// time, so their content hash is the validator.
func loadAssets() map[string]staticAsset {
	assetsOnce.Do(func() {
		assets = make(map[string]staticAsset)
		fsys := StaticFilesFS()
		_ = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return err
			}
			sum := sha256.Sum256(data)
			assets[name] = staticAsset{
				data:        data,
				contentType: contentType(name, data),
				etag:        `"` + hex.EncodeToString(sum[:8]) + `"`,
			}
			return nil
		})
	})
	return assets
}

func contentType(name string, data []byte) string {
	ctype := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ctype == "" {
		// Fallback for unknown extensions
		ctype = http.DetectContentType(data)
	}
	// Ensure UTF-8 for text types when not present
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}
	return ctype
}

// StreamFile writes the embedded static file fileName, answering 304 when the
// browser's copy is current
func StreamFile(w http.ResponseWriter, r *http.Request, fileName string) error {
	asset, ok := loadAssets()[path.Clean(fileName)]
	if !ok {
		return fmt.Errorf("failed to open %s: %w", fileName, fs.ErrNotExist)
	}

	w.Header().Set("ETag", asset.etag)
	if r != nil && r.Header.Get("If-None-Match") == asset.etag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	w.Header().Set("Content-Type", asset.contentType)
	if _, err := w.Write(asset.data); err != nil {
		return fmt.Errorf("failed to write %s content: %w", fileName, err)
	}
	return nil
}
