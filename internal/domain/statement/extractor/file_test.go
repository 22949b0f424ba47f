package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFile(t *testing.T) {
	e := New(DefaultConfig())

	t.Run("missing file is a source error", func(t *testing.T) {
		_, err := e.ExtractFile(filepath.Join(t.TempDir(), "nope.pdf"))
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("unreadable pdf content fails without the sentinel", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.pdf")
		assert.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

		_, err := e.ExtractFile(path)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrSourceNotFound)
	})
}
