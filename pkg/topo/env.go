package topo

import (
	"github.com/edaniels/golog"

	"github.com/chazu/kerf/pkg/kernel"
)

// Env bundles the injected collaborators every shape operation may need:
// the geometry kernel handle and a logger. It replaces ambient global
// state so independent documents can coexist.
type Env struct {
	Kernel kernel.Kernel
	Logger golog.Logger
}

// NewEnv creates an Env around the given kernel with a development logger.
// A nil kernel is allowed; operations that require one degrade and log.
func NewEnv(k kernel.Kernel) *Env {
	return &Env{
		Kernel: k,
		Logger: golog.NewDevelopmentLogger("topo"),
	}
}

// NewEnvWithLogger creates an Env with an explicit logger.
func NewEnvWithLogger(k kernel.Kernel, logger golog.Logger) *Env {
	return &Env{Kernel: k, Logger: logger}
}
