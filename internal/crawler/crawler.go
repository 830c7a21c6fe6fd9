package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is one text file found under the scanned root.
type Document struct {
	Path  string
	Title string
	Text  string
}

// Crawler scans a directory for prose documents.
type Crawler struct {
	ignored    []string
	extensions []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler() *Crawler {
	return &Crawler{
		ignored:    []string{".git", "vendor", "node_modules", "testdata"},
		extensions: []string{".txt", ".md"},
	}
}

// ScanDocuments walks root and streams every readable .txt or .md file to onDoc.
// Unreadable files are skipped; an error from onDoc stops the walk.
func (c *Crawler) ScanDocuments(root string, onDoc func(Document) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path != root && c.isIgnored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !c.accepts(d.Name()) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		return onDoc(Document{
			Path:  path,
			Title: TitleFromPath(path),
			Text:  string(raw),
		})
	})
}

func (c *Crawler) isIgnored(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

func (c *Crawler) accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TitleFromPath turns "notes/machine_learning-intro.md" into "machine learning intro".
func TitleFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
