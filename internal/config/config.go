package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var validStrategies = []string{"serial", "parallel"}

// DataConfig locates the five input datasets.
type DataConfig struct {
	CoursesFile     string `json:"courses_file"`
	InstructorsFile string `json:"instructors_file"`
	RoomsFile       string `json:"rooms_file"`
	TimeSlotsFile   string `json:"timeslots_file"`
	SectionsFile    string `json:"sections_file"`
	Delimiter       string `json:"delimiter"`
}

// SetDefaults applies sane defaults.
func (c *DataConfig) SetDefaults() {
	if c.CoursesFile == "" {
		c.CoursesFile = "Courses.csv"
	}
	if c.InstructorsFile == "" {
		c.InstructorsFile = "Instructor.csv"
	}
	if c.RoomsFile == "" {
		c.RoomsFile = "Rooms.csv"
	}
	if c.TimeSlotsFile == "" {
		c.TimeSlotsFile = "TimeSlots.csv"
	}
	if c.SectionsFile == "" {
		c.SectionsFile = "Sections.csv"
	}
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if len([]rune(c.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return nil
}

// SolverConfig tunes the search.
type SolverConfig struct {
	// Strategy selects the scheduler: "serial" or "parallel".
	Strategy string `json:"strategy"`
	// Workers is the number of parallel branches; only used by "parallel".
	Workers int `json:"workers"`
	// Budget caps the number of search steps; 0 means unbounded.
	Budget uint64 `json:"budget"`
}

func (c *SolverConfig) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = "serial"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c SolverConfig) Validate() error {
	if !slices.Contains(validStrategies, c.Strategy) {
		return fmt.Errorf("unknown strategy %s", c.Strategy)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// OutputConfig locates the generated timetable.
type OutputConfig struct {
	File string `json:"file"`
}

func (c *OutputConfig) SetDefaults() {
	if c.File == "" {
		c.File = "generated_timetable.csv"
	}
}

type Config struct {
	Data   DataConfig   `json:"data"`
	Solver SolverConfig `json:"solver"`
	Output OutputConfig `json:"output"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.Data.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Output.SetDefaults()
	return &cfg
}

// Load reads a JSON or YAML configuration file, applies CT_-prefixed
// environment overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ct_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Data.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Output.SetDefaults()
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
