package main

import (
	"context"

	"github.com/mlukyanov/authsvc/internal/config"
	"github.com/mlukyanov/authsvc/internal/obs"
)

func initOTel(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	closer, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		return nil, err
	}
	return closer.Shutdown, nil
}
