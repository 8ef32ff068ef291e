package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const defaultThreads = 4

type Settings struct {
	DbPath  string
	Threads int
}

// bootQueries run on every new connection. Schema setup is left to sqlstore.Init
// so all drivers share one definition of the upload log.
func bootQueries(settings Settings) []string {
	threads := settings.Threads
	if threads <= 0 {
		threads = defaultThreads
	}
	return []string{
		fmt.Sprintf("SET threads TO %d", threads),
	}
}

func NewDB(settings Settings) (*sql.DB, error) {
	queries := bootQueries(settings)

	c, err := duckdb.NewConnector(settings.DbPath, func(exec driver.ExecerContext) error {
		for _, query := range queries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
