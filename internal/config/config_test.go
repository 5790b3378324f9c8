package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil, "empty")
	require.NoError(t, err)

	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.True(t, cfg.Audio.CaptureSystemAudio)
	assert.Equal(t, "whisper", cfg.Transcription.Engine)
	assert.Equal(t, "base", cfg.Transcription.Model)
	assert.False(t, cfg.Transcription.UseGPU)
	assert.True(t, cfg.Transcription.FallbackToLocal)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, "info", cfg.Daemon.LogLevel)
	assert.Equal(t, 500, cfg.Detection.DebounceMs)
	assert.Equal(t, 30, cfg.Detection.PollIntervalSecs)
	assert.InDelta(t, 0.5, cfg.AudioCues.Volume, 0.001)
	assert.Equal(t, "muesli-meetings", cfg.Qmd.CollectionName)
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	data := []byte(`[transcription]
engine = "parakeet"
model = "parakeet-v3-int8"
use_gpu = true

[audio]
sample_rate = 48000
capture_system_audio = false
`)
	cfg, err := ParseConfig(data, "test")
	require.NoError(t, err)

	assert.Equal(t, "parakeet", cfg.Transcription.Engine)
	assert.Equal(t, "parakeet-v3-int8", cfg.Transcription.Model)
	assert.True(t, cfg.Transcription.UseGPU)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.False(t, cfg.Audio.CaptureSystemAudio)
	// Unrelated sections keep their defaults.
	assert.Equal(t, "none", cfg.LLM.Provider)
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	data := []byte(`[transcription]
engine = "whisper"
modle = "base"
`)
	_, err := ParseConfig(data, "test")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestParseConfigLenientIgnoresUnknownKeys(t *testing.T) {
	data := []byte(`[transcription]
modle = "base"
`)
	cfg, err := ParseConfigLenient(data, "test")
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.Transcription.Model)
}

func TestParseConfigSyntaxError(t *testing.T) {
	_, err := ParseConfig([]byte("not = [valid"), "broken.toml")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigValidation)
	assert.Contains(t, err.Error(), "broken.toml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero sample rate",
			mutate:  func(c *Config) { c.Audio.SampleRate = 0 },
			wantErr: "sample_rate",
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Transcription.Engine = "banana" },
			wantErr: "transcription.engine",
		},
		{
			name:   "engine case is ignored",
			mutate: func(c *Config) { c.Transcription.Engine = "Parakeet" },
		},
		{
			name: "empty model",
			mutate: func(c *Config) {
				c.Transcription.Model = ""
			},
			wantErr: "transcription.model",
		},
		{
			name:    "volume above range",
			mutate:  func(c *Config) { c.AudioCues.Volume = 1.5 },
			wantErr: "audio_cues.volume",
		},
		{
			name:    "volume below range",
			mutate:  func(c *Config) { c.AudioCues.Volume = -0.1 },
			wantErr: "audio_cues.volume",
		},
		{
			name:    "zero debounce",
			mutate:  func(c *Config) { c.Detection.DebounceMs = 0 },
			wantErr: "debounce_ms",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Detection.PollIntervalSecs = 0 },
			wantErr: "poll_interval_secs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEffectiveModel(t *testing.T) {
	legacy := "small"
	tests := []struct {
		name string
		cfg  TranscriptionConfig
		want string
	}{
		{name: "explicit model wins", cfg: TranscriptionConfig{Model: "large", WhisperModel: &legacy}, want: "large"},
		{name: "legacy key used when model is default", cfg: TranscriptionConfig{Model: "base", WhisperModel: &legacy}, want: "small"},
		{name: "default without legacy key", cfg: TranscriptionConfig{Model: "base"}, want: "base"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.EffectiveModel())
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := []byte(`[transcription]
engine = "whisper"
model = "large-v3-turbo"
use_gpu = true
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "large-v3-turbo", cfg.Transcription.Model)
	assert.True(t, cfg.Transcription.UseGPU)
}
