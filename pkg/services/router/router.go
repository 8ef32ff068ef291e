package router

import (
	"context"
	"sort"
	"strings"

	"github.com/de-tools/port-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Route returns the physical table name for a port and report suffix.
// The port is lower-cased as-is, so multi-word ports keep their space.
func Route(port, suffix string) string {
	return strings.ToLower(port) + "_" + suffix
}

type TableLister interface {
	ListTables(ctx context.Context) ([]string, error)
}

type Catalog struct {
	lister TableLister
	ports  []string
}

func NewCatalog(lister TableLister, ports []string) *Catalog {
	return &Catalog{lister: lister, ports: ports}
}

func (c *Catalog) Ports() []string {
	return c.ports
}

// ListTables returns the tables visible for scope in ascending order. Catalog
// failures are logged and yield an empty list.
func (c *Catalog) ListTables(ctx context.Context, scope domain.PortScope) []string {
	logger := zerolog.Ctx(ctx)

	tables, err := c.lister.ListTables(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("port", scope.String()).Msg("failed to list tables")
		return []string{}
	}

	if !scope.IsAll() {
		needle := strings.ToLower(scope.Port())
		tables = lo.Filter(tables, func(t string, _ int) bool {
			return strings.Contains(t, needle)
		})
	}

	sorted := append([]string{}, tables...)
	sort.Strings(sorted)
	return sorted
}

// HasTable reports whether table is present in the catalog. Lookup failures count as absent.
func (c *Catalog) HasTable(ctx context.Context, table string) bool {
	return lo.Contains(c.ListTables(ctx, domain.AllPortsScope()), table)
}
