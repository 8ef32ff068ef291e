package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/databricks/databricks-sdk-go"
	dbsql "github.com/databricks/databricks-sdk-go/service/sql"
	"github.com/de-tools/port-atlas/pkg/services/config"
)

// WarehouseResolver looks up the HTTP path of a SQL warehouse.
type WarehouseResolver interface {
	HTTPPath(ctx context.Context, warehouseID string) (string, error)
}

type workspaceResolver struct {
	client *databricks.WorkspaceClient
}

func newWorkspaceResolver(profile config.Profile) (WarehouseResolver, error) {
	cfg := profile.Databricks()
	client, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:  cfg.Host,
		Token: cfg.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("create databricks workspace client: %w", err)
	}
	return &workspaceResolver{client: client}, nil
}

func (r *workspaceResolver) HTTPPath(ctx context.Context, warehouseID string) (string, error) {
	warehouse, err := r.client.Warehouses.GetById(ctx, warehouseID)
	if err != nil {
		return "", fmt.Errorf("failed to get warehouse %s: %w", warehouseID, err)
	}
	return odbcPath(warehouse)
}

func odbcPath(warehouse *dbsql.GetWarehouseResponse) (string, error) {
	if warehouse.OdbcParams == nil || warehouse.OdbcParams.Path == "" {
		return "", fmt.Errorf("warehouse %s has no http path", warehouse.Id)
	}
	return warehouse.OdbcParams.Path, nil
}

// DatabricksDSN builds a databricks-sql-go DSN from a profile. When the profile has a
// warehouse_id but no http_path the path is resolved through the workspace API.
func DatabricksDSN(ctx context.Context, profile config.Profile, resolver WarehouseResolver) (string, error) {
	cfg := profile.Databricks()
	if cfg.Host == "" || cfg.Token == "" {
		return "", fmt.Errorf("databricks profile %s needs host and token", profile.Name)
	}

	httpPath := profile.Get("http_path")
	if httpPath == "" {
		warehouseID := profile.Get("warehouse_id")
		if warehouseID == "" {
			return "", fmt.Errorf("databricks profile %s needs http_path or warehouse_id", profile.Name)
		}
		if resolver == nil {
			var err error
			if resolver, err = newWorkspaceResolver(profile); err != nil {
				return "", err
			}
		}
		var err error
		if httpPath, err = resolver.HTTPPath(ctx, warehouseID); err != nil {
			return "", err
		}
	}
	if !strings.HasPrefix(httpPath, "/") {
		httpPath = "/" + httpPath
	}

	host := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(cfg.Host, "https://"), "http://"), "/")
	if !strings.Contains(host, ":") {
		host += ":443"
	}

	dsn := fmt.Sprintf("token:%s@%s%s", cfg.Token, host, httpPath)

	params := url.Values{}
	if catalog := profile.Get("catalog"); catalog != "" {
		params.Set("catalog", catalog)
	}
	if schema := profile.Get("schema"); schema != "" {
		params.Set("schema", schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn, nil
}
