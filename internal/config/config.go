package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/itsameandrea/muesliup/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax, filesystem, or other loading errors).
// Callers can use errors.Is(err, ErrConfigValidation) to distinguish
// validation problems from other loading failure modes.
var ErrConfigValidation = errors.New("config validation failed")

// Engines muesli can dispatch transcription to.
var validEngines = []string{"whisper", "parakeet", "deepgram", "openai"}

// Config mirrors muesli's config.toml. Absent keys fall back to the same
// defaults muesli applies, so a parsed empty document equals DefaultConfig.
type Config struct {
	Audio         AudioConfig         `toml:"audio"`
	Transcription TranscriptionConfig `toml:"transcription"`
	LLM           LLMConfig           `toml:"llm"`
	Storage       StorageConfig       `toml:"storage"`
	Daemon        DaemonConfig        `toml:"daemon"`
	Detection     DetectionConfig     `toml:"detection"`
	AudioCues     AudioCuesConfig     `toml:"audio_cues"`
	Waybar        WaybarConfig        `toml:"waybar"`
	Qmd           QmdConfig           `toml:"qmd"`
}

// AudioConfig controls capture devices and the recording sample rate.
type AudioConfig struct {
	DeviceMic          *string `toml:"device_mic,omitempty"`
	DeviceLoopback     *string `toml:"device_loopback,omitempty"`
	CaptureSystemAudio bool    `toml:"capture_system_audio"`
	SampleRate         int     `toml:"sample_rate"`
}

// TranscriptionConfig selects the transcription engine and model.
type TranscriptionConfig struct {
	Engine           string  `toml:"engine"`
	Model            string  `toml:"model"`
	WhisperModel     *string `toml:"whisper_model,omitempty"`
	WhisperModelPath *string `toml:"whisper_model_path,omitempty"`
	UseGPU           bool    `toml:"use_gpu"`
	DeepgramAPIKey   *string `toml:"deepgram_api_key,omitempty"`
	OpenAIAPIKey     *string `toml:"openai_api_key,omitempty"`
	FallbackToLocal  bool    `toml:"fallback_to_local"`
}

// EffectiveModel resolves the model name, honoring the legacy whisper_model
// key when the primary key still carries its default.
func (t TranscriptionConfig) EffectiveModel() string {
	if t.Model != "" && t.Model != "base" {
		return t.Model
	}
	if t.WhisperModel != nil && *t.WhisperModel != "" {
		return *t.WhisperModel
	}
	return t.Model
}

// LLMConfig selects the summarization provider.
type LLMConfig struct {
	Provider     string  `toml:"provider"`
	Model        string  `toml:"model"`
	APIKey       *string `toml:"api_key,omitempty"`
	LocalLmsPath string  `toml:"local_lms_path"`
	ContextLimit int     `toml:"context_limit"`
}

// StorageConfig overrides the default note, database, and recording locations.
type StorageConfig struct {
	NotesDir      *string `toml:"notes_dir,omitempty"`
	DatabasePath  *string `toml:"database_path,omitempty"`
	RecordingsDir *string `toml:"recordings_dir,omitempty"`
}

// DaemonConfig controls the background daemon.
type DaemonConfig struct {
	SocketPath *string `toml:"socket_path,omitempty"`
	LogLevel   string  `toml:"log_level"`
}

// DetectionConfig controls automatic meeting detection.
type DetectionConfig struct {
	AutoDetect        bool `toml:"auto_detect"`
	AutoPrompt        bool `toml:"auto_prompt"`
	PromptTimeoutSecs int  `toml:"prompt_timeout_secs"`
	DebounceMs        int  `toml:"debounce_ms"`
	PollIntervalSecs  int  `toml:"poll_interval_secs"`
}

// AudioCuesConfig controls start/stop sound playback.
type AudioCuesConfig struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"`
	StartSound *string `toml:"start_sound,omitempty"`
	StopSound  *string `toml:"stop_sound,omitempty"`
}

// WaybarConfig controls the waybar status file integration.
type WaybarConfig struct {
	Enabled    bool    `toml:"enabled"`
	StatusFile *string `toml:"status_file,omitempty"`
}

// QmdConfig controls qmd search indexing of meeting notes.
type QmdConfig struct {
	Enabled        bool   `toml:"enabled"`
	AutoIndex      bool   `toml:"auto_index"`
	CollectionName string `toml:"collection_name"`
}

// DefaultConfig returns the config muesli runs with when no file exists.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			CaptureSystemAudio: true,
			SampleRate:         16000,
		},
		Transcription: TranscriptionConfig{
			Engine:          "whisper",
			Model:           "base",
			FallbackToLocal: true,
		},
		LLM: LLMConfig{
			Provider: "none",
		},
		Daemon: DaemonConfig{
			LogLevel: "info",
		},
		Detection: DetectionConfig{
			AutoDetect:        true,
			AutoPrompt:        true,
			PromptTimeoutSecs: 30,
			DebounceMs:        500,
			PollIntervalSecs:  30,
		},
		AudioCues: AudioCuesConfig{
			Volume: 0.5,
		},
		Qmd: QmdConfig{
			AutoIndex:      true,
			CollectionName: "muesli-meetings",
		},
	}
}

// LoadConfig reads config.toml from path and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFmt, path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses and validates config TOML data from a source identifier.
// data is the TOML content; source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigParseFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigInvalidFmt, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
// This catches keys that toml.Unmarshal silently ignores, usually typos left
// behind by hand edits.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// ParseConfigLenient parses config TOML data without validation.
// Returns an error only on TOML syntax errors. Missing or invalid fields
// are not checked, making this suitable for repair tools (wizard, doctor)
// that need to read partially valid configs.
func ParseConfigLenient(data []byte, source string) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigParseFmt, source, err)
	}
	return &cfg, nil
}

// LoadConfigLenient reads config.toml without validation.
// Returns an error only on filesystem or TOML syntax errors.
func LoadConfigLenient(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFmt, path, err)
	}
	return ParseConfigLenient(data, path)
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return errors.New(messages.ConfigSampleRatePositive)
	}

	engine := strings.ToLower(c.Transcription.Engine)
	known := false
	for _, e := range validEngines {
		if engine == e {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf(messages.ConfigEngineUnknownFmt, strings.Join(validEngines, ", "))
	}

	if c.Transcription.EffectiveModel() == "" {
		return errors.New(messages.ConfigModelRequired)
	}

	if c.AudioCues.Volume < 0 || c.AudioCues.Volume > 1 {
		return fmt.Errorf(messages.ConfigVolumeRangeFmt, c.AudioCues.Volume)
	}

	if c.Detection.DebounceMs <= 0 {
		return fmt.Errorf(messages.ConfigTimeoutPositiveFmt, "debounce_ms")
	}
	if c.Detection.PollIntervalSecs <= 0 {
		return fmt.Errorf(messages.ConfigTimeoutPositiveFmt, "poll_interval_secs")
	}

	return nil
}
