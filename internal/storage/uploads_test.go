package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func TestUploads_SavePDF(t *testing.T) {
	root := t.TempDir()
	uploads, err := NewUploads(root)
	require.NoError(t, err)

	ref, err := uploads.SavePDF(strings.NewReader(minimalPDF))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/quotations/"))
	assert.True(t, strings.HasSuffix(ref, ".pdf"))

	written, err := os.ReadFile(filepath.Join(root, "quotations", filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, minimalPDF, string(written))
}

func TestUploads_SavePDF_LargeFile(t *testing.T) {
	uploads, err := NewUploads(t.TempDir())
	require.NoError(t, err)

	content := minimalPDF + strings.Repeat("0", 10*sniffLen)
	ref, err := uploads.SavePDF(strings.NewReader(content))
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(uploads.Root(), "quotations", filepath.Base(ref)))
	require.NoError(t, err)
	assert.Len(t, written, len(content))
}

func TestUploads_SavePDF_RejectsOtherContent(t *testing.T) {
	root := t.TempDir()
	uploads, err := NewUploads(root)
	require.NoError(t, err)

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	_, err = uploads.SavePDF(bytes.NewReader(png))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = uploads.SavePDF(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNotPDF)

	entries, err := os.ReadDir(filepath.Join(root, "quotations"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploads_Remove(t *testing.T) {
	uploads, err := NewUploads(t.TempDir())
	require.NoError(t, err)

	ref, err := uploads.SavePDF(strings.NewReader(minimalPDF))
	require.NoError(t, err)
	require.NoError(t, uploads.Remove(ref))

	assert.Error(t, uploads.Remove("/uploads/../../etc/passwd"))
}
