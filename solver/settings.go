// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Method selects the LP strategy.
type Method string

const (
	MethodAuto    Method = "auto"    // Gonum for float64, Tableau for exact domains
	MethodSimplex Method = "simplex" // gonum simplex, float64 only
	MethodTableau Method = "tableau" // generic tableau simplex, any domain
)

// Defaults. The ADMM values follow common OSQP practice.
const (
	DefaultTolerance    = 1e-10
	DefaultRho          = 0.1
	DefaultSigma        = 1e-6
	DefaultAlpha        = 1.6
	DefaultEpsAbs       = 1e-5
	DefaultEpsRel       = 1e-5
	DefaultEpsPrimInf   = 1e-6
	DefaultMaxIter      = 20000
	DefaultPolishRefine = 3
	DefaultCheckEvery   = 10
)

// ADMMSettings tunes the quadratic backend.
type ADMMSettings struct {
	Rho          float64 `yaml:"rho" validate:"gt=0"`
	Sigma        float64 `yaml:"sigma" validate:"gt=0"`
	Alpha        float64 `yaml:"alpha" validate:"gt=0,lt=2"`
	EpsAbs       float64 `yaml:"eps_abs" validate:"gte=0"`
	EpsRel       float64 `yaml:"eps_rel" validate:"gte=0"`
	EpsPrimInf   float64 `yaml:"eps_prim_inf" validate:"gt=0"`
	MaxIter      int     `yaml:"max_iter" validate:"gt=0"`
	Polish       bool    `yaml:"polish"`
	PolishRefine int     `yaml:"polish_refine" validate:"gte=0"`
	CheckEvery   int     `yaml:"check_every" validate:"gt=0"`
}

// Settings is read at the start of every Solve. It is a value: callers
// copy and adjust it, nothing in this package keeps one.
type Settings struct {
	Method    Method       `yaml:"method" validate:"oneof=auto simplex tableau"`
	Presolve  bool         `yaml:"presolve"`
	Verbose   bool         `yaml:"verbose"`
	Tolerance float64      `yaml:"tolerance" validate:"gt=0"`
	ADMM      ADMMSettings `yaml:"admm"`

	// Logger receives progress when Verbose is set; nil means logrus.StandardLogger().
	Logger *logrus.Logger `yaml:"-" validate:"-"`
}

var settingsValidate = validator.New()

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Method:    MethodAuto,
		Presolve:  true,
		Tolerance: DefaultTolerance,
		ADMM: ADMMSettings{
			Rho:          DefaultRho,
			Sigma:        DefaultSigma,
			Alpha:        DefaultAlpha,
			EpsAbs:       DefaultEpsAbs,
			EpsRel:       DefaultEpsRel,
			EpsPrimInf:   DefaultEpsPrimInf,
			MaxIter:      DefaultMaxIter,
			Polish:       true,
			PolishRefine: DefaultPolishRefine,
			CheckEvery:   DefaultCheckEvery,
		},
	}
}

// Validate checks the field constraints.
func (s Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: %w", verrs[0].Namespace(), ErrInvalidSettings)
		}

		return fmt.Errorf("%v: %w", err, ErrInvalidSettings)
	}

	return nil
}

// ParseSettings overlays YAML onto DefaultSettings and validates the result.
// Fields absent from data keep their defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("ParseSettings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("ParseSettings: %w", err)
	}

	return s, nil
}

// LoadSettings reads a YAML file with ParseSettings. A missing file yields
// DefaultSettings.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}

		return DefaultSettings(), fmt.Errorf("LoadSettings: %w", err)
	}

	return ParseSettings(data)
}

// Log returns the configured logger or logrus.StandardLogger().
func (s Settings) Log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return logrus.StandardLogger()
}

// logf logs at Info when Verbose is set.
func (s Settings) logf(fields logrus.Fields, format string, args ...any) {
	if !s.Verbose {
		return
	}
	s.Log().WithFields(fields).Infof(format, args...)
}
