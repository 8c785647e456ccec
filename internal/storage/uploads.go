package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// URLPrefix is where the upload directory is served from
	URLPrefix = "/uploads"

	quotationsDir = "quotations"
	pdfMIME       = "application/pdf"
	sniffLen      = 3072
)

var ErrNotPDF = errors.New("uploaded file is not a PDF")

// Uploads stores files on local disk under a single root directory
type Uploads struct {
	root string
}

// NewUploads creates the root directory if needed
func NewUploads(root string) (*Uploads, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(root, quotationsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploads{root: root}, nil
}

// Root returns the directory files are written under
func (u *Uploads) Root() string {
	return u.root
}

// SavePDF checks the content is a PDF and writes it to
// <root>/quotations/<uuid>.pdf. The returned path is relative to the
// server, e.g. /uploads/quotations/<uuid>.pdf.
func (u *Uploads) SavePDF(r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if !mimetype.Detect(head).Is(pdfMIME) {
		return "", ErrNotPDF
	}

	name := uuid.NewString() + ".pdf"
	dst := filepath.Join(u.root, quotationsDir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", dst, err)
	}

	return path.Join(URLPrefix, quotationsDir, name), nil
}

// Remove deletes a file previously returned by SavePDF
func (u *Uploads) Remove(ref string) error {
	rel, err := filepath.Rel(URLPrefix, filepath.FromSlash(ref))
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid upload reference %q", ref)
	}
	return os.Remove(filepath.Join(u.root, rel))
}
