package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"document-tutor/internal/models"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// PageLoader extracts per-page text from one document.
type PageLoader interface {
	LoadPages(filePath string) ([]models.Page, error)
}

// PDFLoader reads paginated text with ledongthuc/pdf.
type PDFLoader struct{}

// FindDocuments returns the PDF files under dir matching the doublestar
// pattern, sorted so that rebuilds see documents in a stable order. Matching
// ignores case, so "*.pdf" also finds "NOTES.PDF".
func FindDocuments(dir, pattern string) ([]string, error) {
	lowPattern := strings.ToLower(pattern)
	if !doublestar.ValidatePattern(lowPattern) {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, dir, doublestar.ErrBadPattern)
	}

	var files []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".pdf" {
			return nil
		}
		ok, err := doublestar.Match(lowPattern, strings.ToLower(path))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, filepath.Join(dir, filepath.FromSlash(path)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadDirectory loads every matching document under dir, one Page per
// physical page.
func LoadDirectory(loader PageLoader, dir, pattern string) ([]models.Page, error) {
	files, err := FindDocuments(dir, pattern)
	if err != nil {
		return nil, err
	}

	var pages []models.Page
	for _, file := range files {
		filePages, err := loader.LoadPages(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			rel = file
		}
		for i := range filePages {
			filePages[i].SourcePath = filepath.ToSlash(rel)
		}
		log.Debug().Str("file", file).Int("pages", len(filePages)).Msg("Loaded document")
		pages = append(pages, filePages...)
	}
	return pages, nil
}

func (PDFLoader) LoadPages(filePath string) ([]models.Page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Get file size for reader initialization
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	sourceName := filepath.Base(filePath)
	numPages := reader.NumPage()
	pages := make([]models.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		var text string
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", i, err)
			}
		}
		pages = append(pages, models.Page{
			SourceName: sourceName,
			SourcePath: filePath,
			PageIndex0: i - 1,
			Text:       text,
		})
	}
	return pages, nil
}
