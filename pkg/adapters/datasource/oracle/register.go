package oracle

import (
	"context"

	"github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.AdapterInfo{
			Dialect:     "oracle",
			DisplayName: "Oracle",
			Description: "Connect to Oracle Database 12c+ via service name",
		},
		Connect: func(ctx context.Context, cfg *datasource.Config) (datasource.SchemaSource, error) {
			return New(ctx, cfg)
		},
	})
}
