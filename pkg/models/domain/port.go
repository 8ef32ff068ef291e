package domain

import (
	"fmt"
	"strings"
)

// AllPorts is the port scope sentinel meaning every configured port, aggregated.
const AllPorts = "ALL"

var DefaultPorts = []string{"APAPA", "WARRI", "RIVERS", "ONNE", "CALABAR", "TIN CAN"}

// PortScope is either a single configured port or the ALL sentinel.
type PortScope struct {
	port string
}

func AllPortsScope() PortScope {
	return PortScope{}
}

func SinglePort(port string) PortScope {
	return PortScope{port: strings.ToUpper(strings.TrimSpace(port))}
}

// ParsePortScope matches raw against the configured ports case-insensitively.
// An empty value or "ALL" selects every port.
func ParsePortScope(raw string, configured []string) (PortScope, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllPorts) {
		return AllPortsScope(), nil
	}
	for _, p := range configured {
		if strings.EqualFold(p, raw) {
			return SinglePort(p), nil
		}
	}
	return PortScope{}, fmt.Errorf("%w: unknown port %q", ErrInvalidInput, raw)
}

func (s PortScope) IsAll() bool {
	return s.port == ""
}

// Port returns the selected port, or "" for the ALL scope.
func (s PortScope) Port() string {
	return s.port
}

// Ports resolves the scope into the list of target ports.
func (s PortScope) Ports(configured []string) []string {
	if s.IsAll() {
		return append([]string(nil), configured...)
	}
	return []string{s.port}
}

func (s PortScope) String() string {
	if s.IsAll() {
		return AllPorts
	}
	return s.port
}
