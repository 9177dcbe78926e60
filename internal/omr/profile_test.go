package omr

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/omr-service/internal/detection"
)

func TestReadProfile_PartialKeepsDefaults(t *testing.T) {
	params, err := ReadProfile(strings.NewReader("row_tolerance: 45\nmax_area: 5000\n"))
	require.NoError(t, err)

	want := detection.DefaultParams()
	want.RowTolerance = 45
	want.MaxArea = 5000
	assert.Equal(t, want, params)
}

func TestReadProfile_Empty(t *testing.T) {
	params, err := ReadProfile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, detection.DefaultParams(), params)
}

func TestReadProfile_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "row_tolerence: 40\n"},
		{"wrong type", "min_area: lots\n"},
		{"inverted area bounds", "min_area: 3000\n"},
		{"region outside sheet", "answer_region_top: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProfile(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}

	_, err := ReadProfile(strings.NewReader("min_area: 3000\n"))
	assert.ErrorIs(t, err, detection.ErrInvalidParams)
}

func TestWriteProfile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProfile(&buf, detection.DefaultParams()))

	out := buf.String()
	assert.Contains(t, out, "min_aspect_ratio: 0.7")
	assert.Contains(t, out, "max_area: 2500")
	assert.Contains(t, out, "answer_region_top: 0.35")
	assert.Contains(t, out, "fill_threshold: 30")
}

func TestSaveAndLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanner.yaml")
	params := detection.DefaultParams()
	params.MinArea = 600
	params.MaxArea = 10000
	params.RowTolerance = 60

	require.NoError(t, SaveProfile(path, params))

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, params, loaded)
}

func TestLoadProfile_Missing(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
