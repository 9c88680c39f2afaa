// probed serves the configured checks over HTTP so a remote Nagios can run
// them with check_probed.
package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/cli"
	"github.com/CarltonSoftware/nagios-plugins/internal/httpapi"
)

func main() {
	env, err := cli.Setup("probed", false)
	if err != nil {
		log.Fatal(err)
	}
	defer env.Logger.Sync()
	cfg := env.Config

	defs, err := checks.Load(cfg.ChecksFile)
	if err != nil {
		env.Logger.Fatal("checks_load_error", zap.String("file", cfg.ChecksFile), zap.Error(err))
	}
	deps, err := env.AWSDeps(context.Background())
	if err != nil {
		env.Logger.Fatal("aws_config_error", zap.Error(err))
	}

	api := httpapi.NewServer(env.Logger, checks.NewRegistry(defs), deps, cfg.CheckTimeout)
	if len(cfg.APIKeys) == 0 {
		env.Logger.Warn("api_unauthenticated", zap.String("hint", "set PROBED_API_KEYS"))
	}

	env.Logger.Info("api_listen", zap.String("addr", cfg.Addr), zap.Int("checks", len(defs)))
	if err := http.ListenAndServe(cfg.Addr, api.Router(cfg.APIKeys, cfg.RatePerMin, cfg.RateBurst, cfg.TrustProxy)); err != nil {
		env.Logger.Fatal("api_listen_error", zap.Error(err))
	}
}
