package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryForPath(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		path   string
		format string
	}{
		{path: "2024-01-08.docx", format: "docx"},
		{path: "2024-01-08.DOCX", format: "docx"},
		{path: "notes.txt", format: "text"},
		{path: "notes.md", format: "text"},
		{path: "report.pdf", format: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rd := r.ForPath(tt.path)
			if tt.format == "" {
				assert.Nil(t, rd)
				return
			}
			require.NotNil(t, rd)
			assert.Equal(t, tt.format, rd.Format())
		})
	}

	assert.Equal(t, []string{".docx", ".md", ".txt"}, r.Extensions())
}

func TestRegistryOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2024-01-08.docx")
	require.NoError(t, os.WriteFile(path, buildDocx(t, para("Favourite color?")+"<w:p/>"+para("Sam: Blue")), 0o644))

	doc, err := NewRegistry().Open(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", doc.Label)
	assert.Equal(t, []string{"Favourite color?", "", "Sam: Blue"}, doc.Paragraphs)
	assert.Equal(t, "docx", doc.Metadata.SourceFormat)
	assert.Equal(t, path, doc.Metadata.SourcePath)
	assert.Equal(t, 4, doc.WordCount())
}

func TestRegistryOpenErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("corrupt docx", func(t *testing.T) {
		path := filepath.Join(dir, "2024-01-15.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

		_, err := NewRegistry().Open(path)
		var rerr *ReadError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, path, rerr.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewRegistry().Open(filepath.Join(dir, "gone.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewRegistry().Open(filepath.Join(dir, "scan.pdf"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "2024-01-08", Label("/in/2024-01-08.docx"))
	assert.Equal(t, "week.1", Label("week.1.txt"))
	assert.Equal(t, "README", Label("README"))
}

func TestMetadataFileSizeHuman(t *testing.T) {
	assert.Equal(t, "512 B", Metadata{FileSizeBytes: 512}.FileSizeHuman())
	assert.Equal(t, "2.0 KB", Metadata{FileSizeBytes: 2048}.FileSizeHuman())
	assert.Equal(t, "1.5 MB", Metadata{FileSizeBytes: 3 * 1024 * 1024 / 2}.FileSizeHuman())
}
