// Package config loads analysis pipeline settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable setting for the analysis pipeline.
type Config struct {
	VideoURL   string  `yaml:"video_url"`
	FPS        float64 `yaml:"fps"`
	Resolution []int   `yaml:"resolution"`
	OutputDir  string  `yaml:"output_dir"`
	LogsDir    string  `yaml:"logs_dir"`
	ModelsDir  string  `yaml:"models_dir"`

	Bat        BatConfig        `yaml:"bat"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
}

// BatConfig controls the bat object detector.
type BatConfig struct {
	// Weights is the ONNX model file name, resolved under ModelsDir.
	Weights    string  `yaml:"weights"`
	Confidence float64 `yaml:"confidence"`
}

// EvaluationConfig holds the scoring thresholds.
type EvaluationConfig struct {
	ElbowAngleThreshold       float64 `yaml:"elbow_angle_threshold"`
	SpineLeanThreshold        float64 `yaml:"spine_lean_threshold"`
	HeadKneeDistanceThreshold float64 `yaml:"head_knee_distance_threshold"`
}

// Default returns the configuration used when no settings file overrides it.
func Default() Config {
	return Config{
		FPS:        30,
		Resolution: []int{1280, 720},
		OutputDir:  "output",
		LogsDir:    "logs",
		ModelsDir:  "models",
		Bat: BatConfig{
			Weights:    "bat_detector.onnx",
			Confidence: 0.3,
		},
		Evaluation: EvaluationConfig{
			ElbowAngleThreshold:       110,
			SpineLeanThreshold:        10,
			HeadKneeDistanceThreshold: 15,
		},
	}
}

// Load reads a YAML settings file on top of the defaults. An empty path
// searches the usual candidate locations; when none exists the defaults are
// returned as-is. An explicit path that cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("settings file %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile checks the candidate settings locations in order.
func findConfigFile() string {
	candidates := []string{
		filepath.Join("config", "settings.yaml"),
		"settings.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".athleterise", "settings.yaml"))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if len(c.Resolution) != 2 || c.Resolution[0] <= 0 || c.Resolution[1] <= 0 {
		return fmt.Errorf("resolution must be [width, height] with positive values, got %v", c.Resolution)
	}
	if c.Bat.Confidence < 0 || c.Bat.Confidence > 1 {
		return fmt.Errorf("bat confidence must be within [0,1], got %v", c.Bat.Confidence)
	}
	if c.Evaluation.ElbowAngleThreshold <= 0 || c.Evaluation.SpineLeanThreshold <= 0 || c.Evaluation.HeadKneeDistanceThreshold <= 0 {
		return fmt.Errorf("evaluation thresholds must be positive")
	}
	return nil
}

// Width returns the target frame width in pixels.
func (c Config) Width() int { return c.Resolution[0] }

// Height returns the target frame height in pixels.
func (c Config) Height() int { return c.Resolution[1] }

// BatWeightsPath resolves the bat model file under ModelsDir.
func (c Config) BatWeightsPath() string {
	return filepath.Join(c.ModelsDir, c.Bat.Weights)
}
