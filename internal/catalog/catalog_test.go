package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID string
		wantOK bool
	}{
		{name: "exact whisper id", id: "base", wantID: "base", wantOK: true},
		{name: "mixed case", id: "Large-V3-Turbo", wantID: "large-v3-turbo", wantOK: true},
		{name: "underscores for hyphens", id: "parakeet_v3_int8", wantID: "parakeet-v3-int8", wantOK: true},
		{name: "separators stripped", id: "largev3turbo", wantID: "large-v3-turbo", wantOK: true},
		{name: "parakeet alias", id: "parakeet", wantID: "parakeet-v3", wantOK: true},
		{name: "tdt alias", id: "tdt-v3-int8", wantID: "parakeet-v3-int8", wantOK: true},
		{name: "sortformer alias", id: "sortformer", wantID: "sortformer-v2", wantOK: true},
		{name: "nemotron alias", id: "nemotron", wantID: "nemotron-streaming", wantOK: true},
		{name: "streaming alias", id: "streaming", wantID: "nemotron-streaming", wantOK: true},
		{name: "unknown", id: "gigantic", wantOK: false},
		{name: "empty", id: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Lookup(tt.id)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantID, m.ID)
			}
		})
	}
}

func TestCatalogShape(t *testing.T) {
	all := All()
	require.Len(t, all, 11)

	assert.Len(t, ByFamily(FamilyPrimary), 7)
	assert.Len(t, ByFamily(FamilyFast), 2)
	assert.Len(t, ByFamily(FamilyDiarization), 1)
	assert.Len(t, ByFamily(FamilyStreaming), 1)

	// Exactly one default, and it is the recommended whisper model.
	var defaults []string
	for _, m := range all {
		if m.Default {
			defaults = append(defaults, m.ID)
		}
	}
	assert.Equal(t, []string{"base"}, defaults)
}

func TestSelectableCoversWhisperAndParakeet(t *testing.T) {
	sel := Selectable()
	require.Len(t, sel, 9)
	for _, m := range sel {
		assert.Contains(t, []Family{FamilyPrimary, FamilyFast}, m.Family)
	}
	assert.Equal(t, "tiny", sel[0].ID)
	assert.Equal(t, "parakeet-v3-int8", sel[8].ID)
}

func TestFamilyEngine(t *testing.T) {
	assert.Equal(t, "whisper", FamilyPrimary.Engine())
	assert.Equal(t, "parakeet", FamilyFast.Engine())
	assert.Empty(t, FamilyDiarization.Engine())
	assert.Empty(t, FamilyStreaming.Engine())
}

func TestModelSizes(t *testing.T) {
	wantSizes := map[string]int{
		"tiny":               75,
		"base":               142,
		"small":              466,
		"medium":             1500,
		"large":              2900,
		"large-v3-turbo":     1620,
		"distil-large-v3":    1520,
		"parakeet-v3":        672,
		"parakeet-v3-int8":   217,
		"sortformer-v2":      50,
		"nemotron-streaming": 2515,
	}
	for _, m := range All() {
		assert.Equal(t, wantSizes[m.ID], m.SizeMB, "size for %s", m.ID)
	}
}

func TestDirectoryModels(t *testing.T) {
	for _, m := range All() {
		switch m.Family {
		case FamilyFast, FamilyStreaming:
			assert.True(t, m.IsDir, "%s should be a directory model", m.ID)
		default:
			assert.False(t, m.IsDir, "%s should be a single file", m.ID)
		}
	}
}
