package nutrient

import "fmt"

// ConfigError reports an invalid unit or nutrient registration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid registration: %s: %s", e.Field, e.Message)
}

func newConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IncompatibleUnitError reports a unit whose type is not accepted by a nutrient
// or by the other side of a conversion.
type IncompatibleUnitError struct {
	Nutrient string
	Unit     string
	Reason   string
}

func (e *IncompatibleUnitError) Error() string {
	if e.Nutrient == "" {
		return fmt.Sprintf("incompatible unit %s: %s", e.Unit, e.Reason)
	}
	return fmt.Sprintf("unit %s is incompatible with %s: %s", e.Unit, e.Nutrient, e.Reason)
}

// MissingDensityError reports a mass/volume conversion attempted without a density.
type MissingDensityError struct {
	From string
	To   string
}

func (e *MissingDensityError) Error() string {
	return fmt.Sprintf("density (g/ml) is required to convert %s to %s", e.From, e.To)
}

// ImmutabilityError reports a mutation attempted on a frozen container.
type ImmutabilityError struct {
	Op       string
	Nutrient string
}

func (e *ImmutabilityError) Error() string {
	if e.Nutrient == "" {
		return fmt.Sprintf("%s: container is frozen", e.Op)
	}
	return fmt.Sprintf("%s %s: container is frozen", e.Op, e.Nutrient)
}

// RegistryClosedError reports a registration attempted after the registry was sealed.
type RegistryClosedError struct {
	Registry string
}

func (e *RegistryClosedError) Error() string {
	return fmt.Sprintf("%s registry is closed to new registrations", e.Registry)
}

// UnitMismatchError reports containers that disagree on the unit of a nutrient
// being summed.
type UnitMismatchError struct {
	Nutrient string
	Want     string
	Got      string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("cannot sum %s: expected unit %s, got %s", e.Nutrient, e.Want, e.Got)
}
