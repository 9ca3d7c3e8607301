package config

import (
	"fmt"
	"net"
	"strings"

	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/setting"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "log_level", Message: err.Error()})
	}

	if c.API != nil && !c.API.Disabled {
		if _, _, err := net.SplitHostPort(c.API.Listen); err != nil {
			errs = append(errs, ValidationError{Field: "api.listen", Message: err.Error()})
		}
	}

	for _, k := range c.DisabledKinds {
		if k == setting.TypeGeneric {
			errs = append(errs, ValidationError{Field: "disabled_kinds", Message: "the generic kind cannot be disabled"})
		}
	}

	seen := make(map[string]bool)
	for i, d := range c.Devices {
		field := fmt.Sprintf("device[%d]", i)
		if err := setting.ValidateInterfaceName(d.Name); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
			continue
		}
		if seen[d.Name] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate device block %q", d.Name)})
		}
		seen[d.Name] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
