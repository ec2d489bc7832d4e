// Package config loads the gesture engine settings.
package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/heathj/gobrowse/touch"
)

// Config holds all settings of the gobrowse command.
type Config struct {
	Gesture GestureConfig `mapstructure:"gesture" validate:"required"`
	Input   InputConfig   `mapstructure:"input" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// GestureConfig contains the thresholds shared by the gesture recognizers.
type GestureConfig struct {
	MoveThreshold   float64       `mapstructure:"move_threshold" validate:"gt=0"`
	DoubleTapWindow time.Duration `mapstructure:"double_tap_window" validate:"gt=0"`
	HoldDelay       time.Duration `mapstructure:"hold_delay" validate:"gt=0"`
}

type InputConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=auto touch mouse"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Gestures converts the gesture and input settings for touch.Install.
func (c *Config) Gestures() touch.Config {
	return touch.Config{
		MoveThreshold:   c.Gesture.MoveThreshold,
		DoubleTapWindow: c.Gesture.DoubleTapWindow,
		HoldDelay:       c.Gesture.HoldDelay,
		Mode:            touch.Mode(c.Input.Mode),
	}
}

// LogLevel returns the configured logrus level. Load has already validated
// the name, so unknown levels fall back to info.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
