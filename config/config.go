// Package config holds the training configuration and its YAML loader.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RewardType selects how step rewards are assigned.
type RewardType string

const (
	// OnlySuccess rewards only the terminal outcome, intermediate steps earn 0.
	OnlySuccess RewardType = "only_success"
	// Dense rewards every step by how much it narrows the candidates.
	Dense RewardType = "dense"
)

// Policy names.
const (
	Attention = "attention"
	NodeSel   = "nodesel"
)

// Store names.
const (
	FileStore   = "file"
	BadgerStore = "badger"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is every knob of a training run.
type Config struct {
	Eps            float64    `yaml:"eps" json:"eps" validate:"gte=0,lte=1"`
	EpsDecay       float64    `yaml:"eps_decay" json:"eps_decay" validate:"gte=0,lte=1"`
	EpisodeLength  int        `yaml:"episode_length" json:"episode_length" validate:"gte=1"`
	MaxSubProblems int        `yaml:"max_sub_problems" json:"max_sub_problems" validate:"gte=0"`
	RewardType     RewardType `yaml:"reward_type" json:"reward_type" validate:"oneof=only_success dense"`
	SubLoss        bool       `yaml:"sub_loss" json:"sub_loss"`
	BatchSize      int        `yaml:"batch_size" json:"batch_size" validate:"gte=1"`
	SaveNum        int        `yaml:"save_num" json:"save_num" validate:"gte=1"`
	EpisodeIter    int        `yaml:"episode_iter" json:"episode_iter" validate:"gte=0"`
	TestIter       int        `yaml:"test_iter" json:"test_iter" validate:"gte=1"`

	// TestSignificance evaluates a statistically sufficient sample at this confidence
	// (90, 95 or 99), 0 evaluates every sample.
	TestSignificance int `yaml:"test_significance" json:"test_significance" validate:"gte=0,lte=99"`

	LR            float64 `yaml:"lr" json:"lr" validate:"gt=0"`
	Gamma         float64 `yaml:"gamma" json:"gamma" validate:"gte=0,lte=1"`
	MaxGradNorm   float64 `yaml:"max_grad_norm" json:"max_grad_norm" validate:"gte=0"`
	HiddenDim     int     `yaml:"hidden_dim" json:"hidden_dim" validate:"gte=1"`
	GNNLayers     int     `yaml:"gnn_layers" json:"gnn_layers" validate:"gte=0"`
	TrainFraction float64 `yaml:"train_fraction" json:"train_fraction" validate:"gte=0,lte=1"`
	Policy        string  `yaml:"policy" json:"policy" validate:"oneof=attention nodesel"`
	Seed          int64   `yaml:"seed" json:"seed"`

	ModelPath string `yaml:"model_path" json:"model_path" validate:"required"`
	Store     string `yaml:"store" json:"store" validate:"oneof=file badger"`

	LogLevel    string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `yaml:"log_format" json:"log_format" validate:"oneof=text json"`
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Eps:            0.5,
		EpsDecay:       0.95,
		EpisodeLength:  10,
		MaxSubProblems: 10,
		RewardType:     OnlySuccess,
		BatchSize:      1,
		SaveNum:        100,
		EpisodeIter:    10,
		TestIter:       1,
		LR:             1e-3,
		Gamma:          0.99,
		HiddenDim:      16,
		GNNLayers:      2,
		TrainFraction:  0.8,
		Policy:         Attention,
		Seed:           1,
		ModelPath:      "refrl.ckpt.zlib",
		Store:          FileStore,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalid, e.Namespace(), e.Tag(), e.Value())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
