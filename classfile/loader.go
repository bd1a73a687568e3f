package classfile

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load resolves a fully qualified class name (dotted or slashed)
// against a classpath and returns the raw class file image. Classpath
// entries are separated with the platform list separator; directories
// and jar/zip archives are both searched, in order.
func Load(name, classpath string) ([]byte, error) {
	rel := strings.ReplaceAll(name, ".", "/") + ".class"
	for _, entry := range filepath.SplitList(classpath) {
		if entry == "" {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry)) {
		case ".jar", ".zip":
			data, err := loadFromArchive(entry, rel)
			if err != nil {
				return nil, err
			}
			if data != nil {
				return data, nil
			}
		default:
			path := filepath.Join(entry, filepath.FromSlash(rel))
			data, err := os.ReadFile(path)
			if err == nil {
				return data, nil
			}
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		}
	}
	return nil, fmt.Errorf("class %s not found on classpath %q", name, classpath)
}

func loadFromArchive(archive, rel string) ([]byte, error) {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open archive %s: %w", archive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != rel {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", rel, archive, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s in %s: %w", rel, archive, err)
		}
		return data, nil
	}
	return nil, nil
}
