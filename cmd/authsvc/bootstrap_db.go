package main

import (
	"context"

	"github.com/mlukyanov/authsvc/internal/config"
	pg "github.com/mlukyanov/authsvc/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}
