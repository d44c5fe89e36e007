package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/rules"
)

func TestParseDims(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Dimensions
		wantErr bool
	}{
		{input: "12x9x4", want: models.Dimensions{12, 9, 4}},
		{input: "12X9X4", want: models.Dimensions{12, 9, 4}},
		{input: "10.5x8x2.25", want: models.Dimensions{10.5, 8, 2.25}},
		{input: " 12 x 9 x 4 ", want: models.Dimensions{12, 9, 4}},
		{input: "12x9", wantErr: true},
		{input: "12x9x4x2", wantErr: true},
		{input: "12x-9x4", wantErr: true},
		{input: "12x0x4", wantErr: true},
		{input: "axbxc", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := parseDims(test.input)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestEngineConfig_FallsBackToDefaults(t *testing.T) {
	// No database path given.
	cfg, err := engineConfig("", "100")
	require.NoError(t, err)
	require.Equal(t, rules.DefaultEngineConfig(), cfg)

	// Database path that doesn't exist.
	cfg, err = engineConfig(filepath.Join(t.TempDir(), "missing.db"), "100")
	require.NoError(t, err)
	require.Equal(t, rules.DefaultEngineConfig(), cfg)
}

const testCatalogYAML = `
boxes:
  - name: "12C"
    dimensions: [12, 12, 12]
    levels:
      Standard:
        - strategy: normal
          recommendation_level: fits
          price: 10
          score: 2
        - strategy: flattened
          recommendation_level: fits
          price: 7.5
          score: 4
  - name: "16C"
    dimensions: [16, 16, 16]
    levels:
      Standard:
        - strategy: normal
          recommendation_level: fits
          price: 14
          score: 6
`

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0600))
	return path
}

func TestRecommendCommand_JSON(t *testing.T) {
	path := writeTestCatalog(t)

	cmd := newRecommendCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--catalog", path, "--dims", "8x6x4", "--level", "Standard", "--json"})
	require.NoError(t, cmd.Execute())

	var recs []models.Recommendation
	require.NoError(t, json.Unmarshal(out.Bytes(), &recs))
	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		if recs[i].CompositeScore < recs[i-1].CompositeScore {
			t.Error("recommendations not sorted by composite score")
		}
	}
}

func TestRecommendCommand_Table(t *testing.T) {
	path := writeTestCatalog(t)

	cmd := newRecommendCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--catalog", path, "--dims", "8x6x4", "--level", "Standard"})
	require.NoError(t, cmd.Execute())

	require.Contains(t, out.String(), "DIMS")
	require.Contains(t, out.String(), "12C")
	require.Contains(t, out.String(), "12x12x12")
	require.Contains(t, out.String(), "16C")
	require.Contains(t, out.String(), "Lowest Price")
}

func TestRecommendCommand_NoFit(t *testing.T) {
	path := writeTestCatalog(t)

	cmd := newRecommendCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--catalog", path, "--dims", "8x6x4", "--level", "Fragile"})

	err := cmd.Execute()
	require.Error(t, err)
	var noFit *NoFitError
	require.ErrorAs(t, err, &noFit)
}

func TestRecommendCommand_BadDims(t *testing.T) {
	path := writeTestCatalog(t)

	cmd := newRecommendCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--catalog", path, "--dims", "banana"})
	require.Error(t, cmd.Execute())
}
