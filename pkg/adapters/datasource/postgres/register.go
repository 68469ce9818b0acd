package postgres

import (
	"context"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.AdapterInfo{
			Dialect:     "postgres",
			DisplayName: "PostgreSQL",
			Description: "Connect to PostgreSQL 12+, Aurora PostgreSQL, Supabase",
		},
		Connect: func(ctx context.Context, cfg *datasource.Config) (datasource.SchemaSource, error) {
			return New(ctx, cfg)
		},
	})
}
