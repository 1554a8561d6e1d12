package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gioui.org/f32"
	"github.com/skycoin/skycoin/src/util/logging"
	"gopkg.in/yaml.v3"

	"github.com/Tubbz-alt/DarkRadiant/selection"
)

const configFileName = "radiant.yaml"

// Config represents the project configuration from radiant.yaml.
type Config struct {
	Name      string    `yaml:"name"`
	LogLevel  string    `yaml:"log_level,omitempty"`
	Selection Selection `yaml:"selection"`
	Sets      Sets      `yaml:"sets"`
}

// Selection holds the tunables of picking and manipulation.
type Selection struct {
	Epsilon        float64           `yaml:"epsilon"`
	DeviceEpsilon  float64           `yaml:"device_epsilon"`
	CycleTolerance float64           `yaml:"cycle_tolerance"`
	Grid           float64           `yaml:"grid"`
	Manipulator    Manipulator       `yaml:"manipulator"`
	Modifiers      map[string]string `yaml:"modifiers,omitempty"`
}

// Manipulator configures the manipulator handles.
type Manipulator struct {
	Size float64 `yaml:"size"`
	Mode string  `yaml:"mode"`
}

// Sets configures the selection set store.
type Sets struct {
	Path string `yaml:"path"`
}

// Default returns the configuration written by `radiant init`.
func Default(name string) *Config {
	return &Config{
		Name:     name,
		LogLevel: "info",
		Selection: Selection{
			Epsilon:        0.1,
			DeviceEpsilon:  0.02,
			CycleTolerance: 0.001,
			Grid:           8,
			Manipulator:    Manipulator{Size: 64, Mode: "translate"},
			Modifiers: map[string]string{
				"shift":      "toggle",
				"alt":        "cycle",
				"ctrl+shift": "manipulator",
			},
		},
		Sets: Sets{Path: "selection_sets.db"},
	}
}

// FindProjectRoot walks up from the current working directory looking for radiant.yaml.
// Returns the directory containing radiant.yaml, or an error if not found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return findProjectRoot(cwd)
}

func findProjectRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, configFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found in any parent directory of %s", configFileName, start)
		}
		dir = parent
	}
}

// LoadConfig loads and parses the radiant.yaml file from the given project root.
// Missing selection values fall back to their defaults.
func LoadConfig(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, configFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configFileName, err)
	}

	config := Default("")
	config.Selection.Modifiers = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFileName, err)
	}

	if config.Name == "" {
		return nil, fmt.Errorf("'name' field is required in %s", configFileName)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configFileName, err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	s := c.Selection
	if s.Epsilon < 0 || s.DeviceEpsilon < 0 || s.CycleTolerance < 0 {
		return fmt.Errorf("selection tolerances must not be negative")
	}
	if s.Grid <= 0 {
		return fmt.Errorf("selection.grid must be positive")
	}
	if s.Manipulator.Size <= 0 {
		return fmt.Errorf("selection.manipulator.size must be positive")
	}
	if _, err := selection.ParseManipulatorMode(s.Manipulator.Mode); err != nil {
		return fmt.Errorf("selection.manipulator.mode: %w", err)
	}
	for key, name := range s.Modifiers {
		if _, err := selection.ParseModifier(name); err != nil {
			return fmt.Errorf("selection.modifiers.%s: %w", key, err)
		}
	}
	return nil
}

// Save writes the configuration to radiant.yaml in projectRoot.
func (c *Config) Save(projectRoot string) error {
	f, err := os.Create(filepath.Join(projectRoot, configFileName))
	if err != nil {
		return fmt.Errorf("creating %s: %w", configFileName, err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	defer encoder.Close()
	encoder.SetIndent(4)

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("writing %s: %w", configFileName, err)
	}
	return nil
}

// SetsPath returns the selection set file, relative paths resolved
// against projectRoot.
func (c *Config) SetsPath(projectRoot string) string {
	if filepath.IsAbs(c.Sets.Path) {
		return c.Sets.Path
	}
	return filepath.Join(projectRoot, c.Sets.Path)
}

// Modifier returns the modifier bound to a key chord such as "shift" or
// "ctrl+shift". Unbound chords replace the selection.
func (c *Config) Modifier(chord string) selection.Modifier {
	name, ok := c.Selection.Modifiers[strings.ToLower(chord)]
	if !ok {
		return selection.ModifierReplace
	}
	m, err := selection.ParseModifier(name)
	if err != nil {
		return selection.ModifierReplace
	}
	return m
}

// ManipulatorMode returns the configured initial manipulator mode.
func (c *Config) ManipulatorMode() selection.ManipulatorMode {
	m, err := selection.ParseManipulatorMode(c.Selection.Manipulator.Mode)
	if err != nil {
		return selection.ManipulatorTranslate
	}
	return m
}

func (c *Config) PlaneEpsilon() float64 { return c.Selection.Epsilon }

func (c *Config) DeviceEpsilon() f32.Point {
	e := float32(c.Selection.DeviceEpsilon)
	return f32.Point{X: e, Y: e}
}

func (c *Config) CycleTolerance() float64  { return c.Selection.CycleTolerance }
func (c *Config) ManipulatorSize() float64 { return c.Selection.Manipulator.Size }
func (c *Config) GridSize() float64        { return c.Selection.Grid }

// Config is a selection.Settings.
var _ selection.Settings = (*Config)(nil)
