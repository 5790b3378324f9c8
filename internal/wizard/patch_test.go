package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_ReplacesExistingKey(t *testing.T) {
	content := `[transcription]
engine = "whisper"
model = "base"
use_gpu = false

[llm]
provider = "ollama"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "use_gpu", Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
engine = "whisper"
model = "base"
use_gpu = true

[llm]
provider = "ollama"
`, out)
}

func TestPatch_PreservesInlineComment(t *testing.T) {
	content := `[transcription]
use_gpu = true # gpu toggle
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "use_gpu", Value: false},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
use_gpu = false # gpu toggle
`, out)
}

func TestPatch_PreservesIndentation(t *testing.T) {
	content := `[transcription]
  model = "base"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "model", Value: "small"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
  model = "small"
`, out)
}

func TestPatch_UncommentsDisabledKey(t *testing.T) {
	content := `[transcription]
engine = "whisper"
# use_gpu = true
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "use_gpu", Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
engine = "whisper"
use_gpu = true
`, out)
}

func TestPatch_PrefersUncommentedOverCommented(t *testing.T) {
	content := `[transcription]
# model = "tiny"
model = "base"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "model", Value: "small"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
# model = "tiny"
model = "small"
`, out)
}

func TestPatch_InsertsMissingKeyBeforeTrailingBlank(t *testing.T) {
	content := `[transcription]
engine = "whisper"

[llm]
provider = "ollama"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "use_gpu", Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
engine = "whisper"
use_gpu = true

[llm]
provider = "ollama"
`, out)
}

func TestPatch_AppendsMissingSection(t *testing.T) {
	content := `[llm]
provider = "ollama"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "use_gpu", Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `[llm]
provider = "ollama"

[transcription]
use_gpu = true
`, out)
}

func TestPatch_AccumulatesIntoAppendedSection(t *testing.T) {
	content := `[llm]
provider = "ollama"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "engine", Value: "parakeet"},
		{Section: "transcription", Key: "model", Value: "parakeet-v3-int8"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[llm]
provider = "ollama"

[transcription]
engine = "parakeet"
model = "parakeet-v3-int8"
`, out)
}

func TestPatch_QuotedHashIsNotAComment(t *testing.T) {
	content := `[llm]
prompt = "use #tags"
provider = "ollama"
`
	out, err := Patch(content, []Change{
		{Section: "llm", Key: "provider", Value: "openai"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[llm]
prompt = "use #tags"
provider = "openai"
`, out)
}

func TestPatch_MultipleChangesInOneCall(t *testing.T) {
	content := `[audio]
sample_rate = 16000

[transcription]
engine = "whisper"
model = "base"
use_gpu = false
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "engine", Value: "parakeet"},
		{Section: "transcription", Key: "model", Value: "parakeet-v3-int8"},
		{Section: "transcription", Key: "use_gpu", Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `[audio]
sample_rate = 16000

[transcription]
engine = "parakeet"
model = "parakeet-v3-int8"
use_gpu = true
`, out)
}

func TestPatch_SameKeyNameInOtherSectionUntouched(t *testing.T) {
	content := `[transcription]
model = "base"

[llm]
model = "llama3.2"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "model", Value: "small"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
model = "small"

[llm]
model = "llama3.2"
`, out)
}

func TestPatch_KeyPrefixDoesNotMatch(t *testing.T) {
	content := `[transcription]
model_path = "/models/custom.bin"
`
	out, err := Patch(content, []Change{
		{Section: "transcription", Key: "model", Value: "small"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[transcription]
model_path = "/models/custom.bin"
model = "small"
`, out)
}

func TestPatch_InvalidTOML(t *testing.T) {
	_, err := Patch("[unclosed", []Change{
		{Section: "transcription", Key: "use_gpu", Value: true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestPatch_SecondApplyIsIdentical(t *testing.T) {
	content := `[transcription]
engine = "whisper"
use_gpu = false
`
	changes := []Change{
		{Section: "transcription", Key: "use_gpu", Value: true},
		{Section: "transcription", Key: "model", Value: "small"},
	}
	once, err := Patch(content, changes)
	require.NoError(t, err)
	twice, err := Patch(once, changes)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPatch_NoChangesKeepsContent(t *testing.T) {
	content := "# muesli configuration\n\n[transcription]\nmodel = \"base\"\n"
	out, err := Patch(content, nil)
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestPatch_ArrayOfTablesIsNotEdited(t *testing.T) {
	content := `[[profiles]]
name = "work"

[transcription]
model = "base"
`
	out, err := Patch(content, []Change{
		{Section: "profiles", Key: "name", Value: "home"},
	})
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestFormatTomlValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "parakeet-v3", `"parakeet-v3"`},
		{"string with quotes", `say "hi"`, `"say \"hi\""`},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 16000, "16000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTomlValue(tt.value))
		})
	}
}

func TestCommentIndex(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"no comment", `model = "base"`, -1},
		{"plain comment", `model = "base" # note`, 15},
		{"hash inside double quotes", `prompt = "use #tags"`, -1},
		{"hash inside single quotes", `prompt = 'use #tags'`, -1},
		{"hash after quoted hash", `prompt = "a#b" # real`, 15},
		{"escaped quote stays quoted", `prompt = "a\"#b" # real`, 17},
		{"full line comment", `# model = "base"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commentIndex(tt.line))
		})
	}
}

func TestParseTomlHeader(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantName  string
		wantArray bool
		wantOK    bool
	}{
		{"plain table", "[transcription]", "transcription", false, true},
		{"indented table", "  [transcription]", "transcription", false, true},
		{"inline comment", "[llm] # summarization", "llm", false, true},
		{"array of tables", "[[profiles]]", "profiles", true, true},
		{"key line", `model = "base"`, "", false, false},
		{"comment line", "# [transcription]", "", false, false},
		{"blank line", "", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, array, ok := parseTomlHeader(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, name)
				assert.Equal(t, tt.wantArray, array)
			}
		})
	}
}
