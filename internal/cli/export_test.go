package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Copy(t *testing.T) {
	var got string
	e := &Exporter{Clipboard: func(s string) error { got = s; return nil }}

	status, err := e.Copy("ledger")
	require.NoError(t, err)
	assert.Equal(t, StatusCopied, status)
	assert.Equal(t, "ledger", got)

	e.Clipboard = func(string) error { return errors.New("denied") }
	status, err = e.Copy("ledger")
	assert.Error(t, err)
	assert.Equal(t, StatusCopyFailed, status)

	status, err = (&Exporter{}).Copy("ledger")
	assert.Error(t, err)
	assert.Equal(t, StatusCopyFailed, status)
}

func TestExporter_Download(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	e := &Exporter{Filename: "out.txt"}

	path, err := e.Download(dir, "THE LEDGER")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "THE LEDGER", string(data))
}

func TestInkDataURL(t *testing.T) {
	url, err := InkDataURL(pngHeader)
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/png;base64,")

	_, err = InkDataURL([]byte("GIF89a"))
	assert.Error(t, err)
}
