package kmz

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.kmz")

	err := Write(path, []Entry{
		{Name: TemplateEntry, Data: []byte("<kml>template</kml>")},
		{Name: WaylinesEntry, Data: []byte("<kml>waylines</kml>")},
	})
	require.NoError(t, err)

	data, err := ReadEntry(path, WaylinesEntry)
	require.NoError(t, err)
	assert.Equal(t, []byte("<kml>waylines</kml>"), data)

	data, err = ReadEntry(path, TemplateEntry)
	require.NoError(t, err)
	assert.Equal(t, []byte("<kml>template</kml>"), data)
}

func TestWrite_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "mission.kmz")

	err := Write(path, []Entry{{Name: WaylinesEntry, Data: []byte("x")}})
	require.NoError(t, err)

	_, err = ReadEntry(path, WaylinesEntry)
	assert.NoError(t, err)
}

func TestReadEntry_MissingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.kmz")
	require.NoError(t, Write(path, []Entry{{Name: "other.txt", Data: []byte("x")}}))

	_, err := ReadEntry(path, WaylinesEntry)
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestReadEntry_MissingArchive(t *testing.T) {
	_, err := ReadEntry(filepath.Join(t.TempDir(), "nope.kmz"), WaylinesEntry)
	require.Error(t, err)
}
