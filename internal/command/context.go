// Package command implements the bizctl subcommands that operate on a data directory offline.
package command

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/config"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Env is what every subcommand needs, prepared once by the root command.
type Env struct {
	Config  *config.Configuration
	DB      *jsonstore.DB
	Log     logrus.FieldLogger
	Printer *Printer
}

type envKey struct{}

// WithEnv stores env in ctx.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// EnvFrom returns the Env stored by the root command.
func EnvFrom(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, errors.New("command environment not initialised")
	}
	return env, nil
}
