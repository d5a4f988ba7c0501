// Package source adapts document loaders to the page-oriented text boundary
// the classifier consumes.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/SAP-F-2025/question-extractor/internal/errors"
	"github.com/SAP-F-2025/question-extractor/internal/models"
)

// Document is a paged text source. Pages are numbered from 1. PageText
// returns an error wrapping errors.ErrNoText for pages without a text layer
// and any other error when the page could not be read.
type Document interface {
	PageCount() int
	PageText(ctx context.Context, page int) (string, error)
}

// PageSeparator splits a plain text body into pages.
const PageSeparator = "\f"

// TextDocument is a plain text body whose pages are separated by form feeds.
type TextDocument struct {
	pages []string
}

func NewTextDocument(text string) *TextDocument {
	return &TextDocument{pages: strings.Split(text, PageSeparator)}
}

// ReadTextDocument reads a whole plain text body.
func ReadTextDocument(r io.Reader) (*TextDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return NewTextDocument(string(data)), nil
}

func OpenTextFile(path string) (*TextDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTextDocument(f)
}

func (d *TextDocument) PageCount() int {
	return len(d.pages)
}

// PageText returns the text of a page. A page holding only whitespace is a
// normal empty page and comes back as "" without an error.
func (d *TextDocument) PageText(ctx context.Context, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range 1..%d", page, len(d.pages))
	}
	text := d.pages[page-1]
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}

// PagesDocument wraps pages produced by an external extractor that already
// reports a status per page.
type PagesDocument struct {
	pages []models.PageText
}

// NewPagesDocument orders pages by position; Number fields that are zero are
// filled in from the position.
func NewPagesDocument(pages []models.PageText) *PagesDocument {
	out := make([]models.PageText, len(pages))
	for i, p := range pages {
		if p.Number == 0 {
			p.Number = i + 1
		}
		out[i] = p
	}
	return &PagesDocument{pages: out}
}

func (d *PagesDocument) PageCount() int {
	return len(d.pages)
}

func (d *PagesDocument) PageText(ctx context.Context, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range 1..%d", page, len(d.pages))
	}
	p := d.pages[page-1]
	switch p.Status {
	case models.PageNoText:
		return "", apperrors.ErrNoText
	case models.PageFailed:
		if p.Error == "" {
			return "", errors.New("extraction failed")
		}
		return "", errors.New(p.Error)
	}
	return p.Text, nil
}

// Load reads one page and converts a failure into the explicit page status
// the classifier expects.
func Load(ctx context.Context, doc Document, page int) (models.PageText, error) {
	text, err := doc.PageText(ctx, page)
	if err != nil {
		ee := apperrors.NewExtractionError(page, err)
		result := models.PageText{Number: page, Status: models.PageFailed}
		if ee.Kind == apperrors.ExtractionNoText {
			result.Status = models.PageNoText
		} else {
			result.Error = err.Error()
		}
		return result, ee
	}
	return models.PageText{Number: page, Text: text, Status: models.PageOK}, nil
}
