package mysql

import (
	"context"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.AdapterInfo{
			Dialect:     "mysql",
			DisplayName: "MySQL",
			Description: "Connect to MySQL 5.7+, MariaDB, Aurora MySQL",
		},
		Connect: func(ctx context.Context, cfg *datasource.Config) (datasource.SchemaSource, error) {
			return New(ctx, cfg)
		},
	})
}
