package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/autodrive/internal/sim"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var factories = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return NewEuler() },
	"rk4":   func() sim.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name. RK4 keeps scratch buffers, so
// concurrent simulations each need their own.
func New(name string) (sim.Integrator, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
