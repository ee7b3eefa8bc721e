package main

import (
	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/cache"
	"github.com/signalis/connector-cli/internal/enrich"
	"github.com/signalis/connector-cli/internal/enrich/provider"
	"github.com/signalis/connector-cli/pkg/anymail"
	"github.com/signalis/connector-cli/pkg/apollo"
	"github.com/signalis/connector-cli/pkg/ssm"
)

// enrichEnv holds the initialized cache store, provider registry, and
// enricher shared by the enrich/batch/serve commands.
type enrichEnv struct {
	Store    *cache.Store
	Registry *provider.Registry
	Enricher *enrich.Enricher
}

// initEnrich builds vendor clients from config, registers the configured
// providers, and assembles the enricher. Providers without credentials are
// skipped with a warning so the waterfall can degrade instead of failing.
func initEnrich() (*enrichEnv, error) {
	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = cache.DefaultPath()
	}
	store := cache.NewStore(cachePath, cache.WithTTL(cfg.Cache.TTL()))

	registry := provider.NewRegistry()
	opts := []enrich.Option{enrich.WithWorkers(cfg.Batch.Workers)}

	if cfg.Providers.SSM.Configured() {
		ssmOpts := []ssm.Option{
			ssm.WithBaseURL(cfg.Providers.SSM.BaseURL),
			ssm.WithTimeout(cfg.Enrich.Timeout()),
		}
		if cfg.Providers.SSM.RPS > 0 {
			ssmOpts = append(ssmOpts, ssm.WithRateLimit(cfg.Providers.SSM.RPS))
		}
		client := ssm.NewClient(cfg.Providers.SSM.Key, ssmOpts...)
		adapter := provider.NewSSM(client)
		registry.Register(adapter)
		opts = append(opts, enrich.WithVerifier(adapter))
	} else {
		zap.L().Warn("ssm not configured, verification disabled")
	}

	if cfg.Providers.Apollo.Configured() {
		apolloOpts := []apollo.Option{
			apollo.WithBaseURL(cfg.Providers.Apollo.BaseURL),
			apollo.WithTimeout(cfg.Enrich.Timeout()),
		}
		if cfg.Providers.Apollo.RPS > 0 {
			apolloOpts = append(apolloOpts, apollo.WithRateLimit(cfg.Providers.Apollo.RPS))
		}
		registry.Register(provider.NewApollo(apollo.NewClient(cfg.Providers.Apollo.Key, apolloOpts...)))
	} else {
		zap.L().Warn("apollo not configured, skipping provider")
	}

	if cfg.Providers.Anymail.Configured() {
		anymailOpts := []anymail.Option{
			anymail.WithBaseURL(cfg.Providers.Anymail.BaseURL),
			anymail.WithTimeout(cfg.Enrich.Timeout()),
		}
		if cfg.Providers.Anymail.RPS > 0 {
			anymailOpts = append(anymailOpts, anymail.WithRateLimit(cfg.Providers.Anymail.RPS))
		}
		registry.Register(provider.NewAnymail(anymail.NewClient(cfg.Providers.Anymail.Key, anymailOpts...)))
	} else {
		zap.L().Warn("anymail not configured, skipping provider")
	}

	if cfg.Enrich.RoutesPath != "" {
		routes, err := enrich.LoadRoutes(cfg.Enrich.RoutesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, enrich.WithRoutes(routes))
	}

	return &enrichEnv{
		Store:    store,
		Registry: registry,
		Enricher: enrich.New(registry, store, opts...),
	}, nil
}
