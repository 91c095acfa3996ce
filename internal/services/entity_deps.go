package services

import (
	"time"

	"dashboard-api/internal/repositories"

	"go.uber.org/zap"
)

// EntityDeps are the collaborators every concrete entity service is built from.
type EntityDeps struct {
	Repository repositories.Repository
	Validator  Validator
	Logger     *zap.Logger
	// Now defaults to time.Now.
	Now      func() time.Time
	MaxLimit int
}

func (d EntityDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d EntityDeps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
