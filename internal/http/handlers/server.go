package handlers

import (
	"context"

	"go.uber.org/zap"

	repo "github.com/rogerio-castellano/product-api/internal/repo"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	productRepo repo.ProductRepository
	pinger      Pinger
	logger      = zap.NewNop()
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetPinger(p Pinger) {
	pinger = p
}

func SetLogger(l *zap.Logger) {
	logger = l.Named("handlers")
}
