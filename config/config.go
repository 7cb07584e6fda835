// Package config holds the settings shared by the commands
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/zeu5/carsim/track"
	"github.com/zeu5/carsim/vehicle"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// maximum number of concurrent episodes, 0 for no limit
	MaxEpisodes int `yaml:"max_episodes"`
}

type ExperimentConfig struct {
	Episodes int `yaml:"episodes"`
	Horizon  int `yaml:"horizon"`
	Workers  int `yaml:"workers"`
	// traces are recorded under this folder when not empty
	RecordPath string `yaml:"record_path"`
}

type Config struct {
	// track description file, the default track is used when empty
	TrackPath string `yaml:"track"`
	LogLevel  string `yaml:"log_level"`

	Vehicle    vehicle.Config     `yaml:"vehicle"`
	Reward     track.RewardConfig `yaml:"reward"`
	Server     ServerConfig       `yaml:"server"`
	Experiment ExperimentConfig   `yaml:"experiment"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Vehicle:  vehicle.DefaultConfig(),
		Reward:   track.DefaultRewardConfig(),
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
		Experiment: ExperimentConfig{
			Episodes: 10,
			Horizon:  500,
			Workers:  1,
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result
func Load(path string) (Config, error) {
	c := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return c, errors.Wrap(err, "parsing config file")
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	v := c.Vehicle
	switch {
	case v.Radius <= 0:
		return errors.Wrapf(ErrInvalidConfig, "vehicle radius must be positive, got %v", v.Radius)
	case v.WheelMin > v.WheelMax:
		return errors.Wrapf(ErrInvalidConfig, "wheel bounds inverted [%v, %v]", v.WheelMin, v.WheelMax)
	case v.HeadingMax-v.HeadingMin != 360:
		return errors.Wrapf(ErrInvalidConfig, "heading window must span 360 degrees, got [%v, %v]", v.HeadingMin, v.HeadingMax)
	case v.StartJitter < 0:
		return errors.Wrapf(ErrInvalidConfig, "start jitter must not be negative, got %v", v.StartJitter)
	case c.Experiment.Workers < 1:
		return errors.Wrapf(ErrInvalidConfig, "at least one worker needed, got %d", c.Experiment.Workers)
	case c.Experiment.Horizon < 1:
		return errors.Wrapf(ErrInvalidConfig, "horizon must be positive, got %d", c.Experiment.Horizon)
	case c.Server.MaxEpisodes < 0:
		return errors.Wrapf(ErrInvalidConfig, "max episodes must not be negative, got %d", c.Server.MaxEpisodes)
	}
	return nil
}

// Printable renders the configuration as YAML
func (c Config) Printable() string {
	bs, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(bs)
}
