package commands

import (
	"github.com/de-tools/port-atlas/pkg/runtime/bootstrap"
)

// Provider returns the services wired by the root command before any subcommand runs.
type Provider func() *bootstrap.Services
