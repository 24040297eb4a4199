package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks invalid tunables detected during setup.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingDependency marks a component constructed without a collaborator it needs.
	ErrMissingDependency = errors.New("missing dependency")
)

// ConfigError describes a single rejected tunable.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// MissingDependencyError is returned when Component was built without Dependency.
type MissingDependencyError struct {
	Component  string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s: %s requires %s", ErrMissingDependency, e.Component, e.Dependency)
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}
