// Package catalog holds the static model catalog muesliup offers during
// setup. The data mirrors what the muesli binary itself ships; muesliup
// never downloads models directly, it only drives muesli's subcommands.
package catalog

import "strings"

// Family groups models by the muesli subsystem that owns them.
type Family string

const (
	// FamilyPrimary is the whisper.cpp engine's model family.
	FamilyPrimary Family = "primary-engine"
	// FamilyFast is the parakeet ONNX engine's model family.
	FamilyFast Family = "fast-engine"
	// FamilyDiarization holds speaker-diarization models.
	FamilyDiarization Family = "diarization"
	// FamilyStreaming holds streaming-transcription models.
	FamilyStreaming Family = "streaming"
)

// Engine returns the config.toml transcription.engine value a model of this
// family drives, or "" for families that never select an engine.
func (f Family) Engine() string {
	switch f {
	case FamilyPrimary:
		return "whisper"
	case FamilyFast:
		return "parakeet"
	default:
		return ""
	}
}

// Model describes one downloadable model.
type Model struct {
	ID          string
	Family      Family
	SizeMB      int
	Description string

	// Path is the file (or directory, when IsDir) the model occupies
	// under muesli's models directory.
	Path  string
	IsDir bool

	// Default marks the model preselected in the setup wizard.
	Default bool

	aliases []string
}

// models is the canonical ordered catalog. Order matches the wizard's
// selection list: whisper first, then parakeet, then the secondary models.
var models = []Model{
	{ID: "tiny", Family: FamilyPrimary, SizeMB: 75, Description: "Fastest, lowest accuracy", Path: "ggml-tiny.bin"},
	{ID: "base", Family: FamilyPrimary, SizeMB: 142, Description: "Good balance (recommended)", Path: "ggml-base.bin", Default: true},
	{ID: "small", Family: FamilyPrimary, SizeMB: 466, Description: "Better accuracy", Path: "ggml-small.bin"},
	{ID: "medium", Family: FamilyPrimary, SizeMB: 1500, Description: "High accuracy", Path: "ggml-medium.bin"},
	{ID: "large", Family: FamilyPrimary, SizeMB: 2900, Description: "Best accuracy", Path: "ggml-large.bin"},
	{ID: "large-v3-turbo", Family: FamilyPrimary, SizeMB: 1620, Description: "Fast + high quality", Path: "ggml-large-v3-turbo.bin"},
	{ID: "distil-large-v3", Family: FamilyPrimary, SizeMB: 1520, Description: "Distilled, fast + accurate", Path: "ggml-distil-large-v3.bin"},

	{
		ID: "parakeet-v3", Family: FamilyFast, SizeMB: 672,
		Description: "Full precision, best quality",
		Path:        "parakeet-tdt-0.6b-v3", IsDir: true,
		aliases: []string{"tdt-v3", "parakeet"},
	},
	{
		ID: "parakeet-v3-int8", Family: FamilyFast, SizeMB: 217,
		Description: "INT8 quantized, fastest (recommended)",
		Path:        "parakeet-tdt-0.6b-v3-int8", IsDir: true,
		aliases: []string{"tdt-v3-int8", "parakeet-int8"},
	},

	{
		ID: "sortformer-v2", Family: FamilyDiarization, SizeMB: 50,
		Description: "Streaming speaker diarization (4 speakers)",
		Path:        "diar_streaming_sortformer_4spk-v2.onnx",
		aliases:     []string{"sortformer", "sortformer-2"},
	},

	{
		ID: "nemotron-streaming", Family: FamilyStreaming, SizeMB: 2515,
		Description: "Real-time transcription during recording",
		Path:        "nemotron-speech-streaming-en-0.6b", IsDir: true,
		aliases:     []string{"nemotron", "streaming"},
	},
}

// All returns the full catalog in display order.
func All() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// ByFamily returns the catalog entries of one family, in display order.
func ByFamily(f Family) []Model {
	var out []Model
	for _, m := range models {
		if m.Family == f {
			out = append(out, m)
		}
	}
	return out
}

// Selectable returns the models offered in the wizard's transcription-model
// step: the whisper and parakeet families, in display order.
func Selectable() []Model {
	var out []Model
	for _, m := range models {
		if m.Family == FamilyPrimary || m.Family == FamilyFast {
			out = append(out, m)
		}
	}
	return out
}

// Lookup resolves an id or alias to its catalog entry. Matching ignores
// case, hyphens, and underscores, so "Parakeet_V3" finds parakeet-v3.
func Lookup(id string) (Model, bool) {
	want := normalize(id)
	if want == "" {
		return Model{}, false
	}
	for _, m := range models {
		if normalize(m.ID) == want {
			return m, true
		}
		for _, alias := range m.aliases {
			if normalize(alias) == want {
				return m, true
			}
		}
	}
	return Model{}, false
}

// normalize lowercases and strips separator characters, mirroring how the
// muesli binary matches model names.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
