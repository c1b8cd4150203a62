package environment

import (
	"context"
	"strings"
)

// Environment names the deployment stage the process runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Staging     Environment = "staging"
)

// Parse normalizes s, accepting the short aliases dev, prod and stage.
// Unknown values are returned lowercased as-is; empty means Development.
func Parse(s string) Environment {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "dev", string(Development):
		return Development
	case "prod", string(Production):
		return Production
	case "stage", string(Staging):
		return Staging
	default:
		return Environment(v)
	}
}

func (e Environment) String() string { return string(e) }

// IsProduction reports whether e is a production-like stage where cookies
// must be Secure and logs are structured.
func (e Environment) IsProduction() bool {
	return e == Production || e == Staging
}

type contextKey struct{}

func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext returns the environment stored in ctx, or "" when absent.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction reports whether ctx carries Production.
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}
