package mediator

import (
	"fmt"
	"strings"
)

// Lifetime controls how long a constructed handler instance is reused
type Lifetime int

const (
	// LifetimeDefault inherits the registry's configured lifetime
	LifetimeDefault Lifetime = iota
	// LifetimeTransient constructs a fresh handler for every dispatch
	LifetimeTransient
	// LifetimeScoped reuses one handler per Scope
	LifetimeScoped
	// LifetimeSingleton reuses one handler per Dispatcher
	LifetimeSingleton
)

// String returns the configuration name of the lifetime
func (l Lifetime) String() string {
	switch l {
	case LifetimeDefault:
		return "default"
	case LifetimeTransient:
		return "transient"
	case LifetimeScoped:
		return "scoped"
	case LifetimeSingleton:
		return "singleton"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// ParseLifetime converts a configuration value into a Lifetime.
// Both the short names and the descriptive aliases are accepted.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient", "per-call":
		return LifetimeTransient, nil
	case "scoped", "shared-per-scope":
		return LifetimeScoped, nil
	case "singleton", "process-singleton":
		return LifetimeSingleton, nil
	case "", "default":
		return LifetimeDefault, nil
	default:
		return LifetimeDefault, fmt.Errorf("unknown handler lifetime %q", s)
	}
}

func (l Lifetime) valid() bool {
	return l >= LifetimeTransient && l <= LifetimeSingleton
}
