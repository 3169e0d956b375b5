// Package storage persists user settings and lyric text as YAML under the
// platform config directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/blackcarburning/LyricLooper/internal/core/model"
	"github.com/blackcarburning/LyricLooper/internal/core/timing"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	BPM         int    `yaml:"bpm"`
	TimeSigNum  int    `yaml:"time_sig_num"`
	TimeSigDen  int    `yaml:"time_sig_den"`
	WordNote    string `yaml:"word_note"`
	FadeInNote  string `yaml:"fade_in_note"`
	FadeOutNote string `yaml:"fade_out_note"`
	GapNote     string `yaml:"gap_note"`
	GapNegative bool   `yaml:"gap_negative"`

	LoopEnabled  bool   `yaml:"loop_enabled"`
	LoopMode     string `yaml:"loop_mode"`
	LoopBars     int    `yaml:"loop_bars"`
	LoopTimes    int    `yaml:"loop_times"`
	LoopInfinite bool   `yaml:"loop_infinite"`

	ExportFPS    int    `yaml:"export_fps"`
	ExportWidth  int    `yaml:"export_width"`
	ExportHeight int    `yaml:"export_height"`
	ExportFormat string `yaml:"export_format"`
	Transparent  bool   `yaml:"transparent"`

	FontFamily  string `yaml:"font_family"`
	FontSize    int    `yaml:"font_size"`
	FontColor   string `yaml:"font_color"`
	Background  string `yaml:"background"`
	AspectRatio string `yaml:"aspect_ratio"`

	StartWord        int     `yaml:"start_word"`
	CountIn          bool    `yaml:"count_in"`
	MetronomeEnabled bool    `yaml:"metronome_enabled"`
	MetronomeVolume  float64 `yaml:"metronome_volume"`

	Text string `yaml:"text"`
}

// LoadSettings reads user settings from YAML, together with the last lyric
// text. Missing file or invalid content falls back to defaults.
func LoadSettings(appName string) (model.Settings, string, error) {
	settings := model.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, "", err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, "", nil
		}
		return settings, "", fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, "", fmt.Errorf("parse settings yaml: %w", err)
	}

	loaded := fromYamlSettings(fileData)
	if err := loaded.Validate(); err != nil {
		return settings, fileData.Text, fmt.Errorf("stored settings invalid, using defaults: %w", err)
	}
	return loaded, fileData.Text, nil
}

// SaveSettings writes user settings and the current lyric text to YAML.
func SaveSettings(appName string, settings model.Settings, text string) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYamlSettings(settings, text))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func toYamlSettings(settings model.Settings, text string) yamlSettings {
	return yamlSettings{
		BPM:         settings.Timing.BPM,
		TimeSigNum:  settings.Timing.TimeSigNum,
		TimeSigDen:  settings.Timing.TimeSigDen,
		WordNote:    string(settings.Timing.WordNote),
		FadeInNote:  string(settings.Timing.FadeInNote),
		FadeOutNote: string(settings.Timing.FadeOutNote),
		GapNote:     string(settings.Timing.GapNote),
		GapNegative: settings.Timing.GapNegative,

		LoopEnabled:  settings.Loop.Enabled,
		LoopMode:     string(settings.Loop.Mode),
		LoopBars:     settings.Loop.Bars,
		LoopTimes:    settings.Loop.Times,
		LoopInfinite: settings.Loop.Infinite,

		ExportFPS:    settings.Export.FPS,
		ExportWidth:  settings.Export.Width,
		ExportHeight: settings.Export.Height,
		ExportFormat: string(settings.Export.Format),
		Transparent:  settings.Export.Transparent,

		FontFamily:  settings.Appearance.FontFamily,
		FontSize:    settings.Appearance.FontSize,
		FontColor:   settings.Appearance.FontColor,
		Background:  settings.Appearance.Background,
		AspectRatio: settings.Appearance.AspectRatio,

		StartWord:        settings.StartWord,
		CountIn:          settings.CountIn,
		MetronomeEnabled: settings.MetronomeEnabled,
		MetronomeVolume:  settings.MetronomeVolume,

		Text: text,
	}
}

func fromYamlSettings(fileData yamlSettings) model.Settings {
	settings := model.DefaultSettings()

	settings.Timing.BPM = fileData.BPM
	settings.Timing.TimeSigNum = fileData.TimeSigNum
	settings.Timing.TimeSigDen = fileData.TimeSigDen
	settings.Timing.WordNote = timing.Note(fileData.WordNote)
	settings.Timing.FadeInNote = timing.Note(fileData.FadeInNote)
	settings.Timing.FadeOutNote = timing.Note(fileData.FadeOutNote)
	settings.Timing.GapNote = timing.Note(fileData.GapNote)
	settings.Timing.GapNegative = fileData.GapNegative

	settings.Loop.Enabled = fileData.LoopEnabled
	settings.Loop.Mode = model.LoopMode(fileData.LoopMode)
	settings.Loop.Bars = fileData.LoopBars
	settings.Loop.Times = fileData.LoopTimes
	settings.Loop.Infinite = fileData.LoopInfinite

	settings.Export.FPS = fileData.ExportFPS
	settings.Export.Width = fileData.ExportWidth
	settings.Export.Height = fileData.ExportHeight
	settings.Export.Format = model.ExportFormat(fileData.ExportFormat)
	settings.Export.Transparent = fileData.Transparent

	settings.Appearance.FontFamily = fileData.FontFamily
	settings.Appearance.FontSize = fileData.FontSize
	settings.Appearance.FontColor = fileData.FontColor
	settings.Appearance.Background = fileData.Background
	settings.Appearance.AspectRatio = fileData.AspectRatio

	settings.StartWord = fileData.StartWord
	settings.CountIn = fileData.CountIn
	settings.MetronomeEnabled = fileData.MetronomeEnabled
	settings.MetronomeVolume = fileData.MetronomeVolume

	return settings
}
