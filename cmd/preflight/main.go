// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/CarltonSoftware/nagios-plugins/internal/awsenv"
	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/config"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

func run(stdout, stderr io.Writer) int {
	fail := func(msg string) int {
		fmt.Fprintln(stderr, "✖", msg)
		return 1
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	cfg, err := config.FromEnv()
	if err != nil {
		return fail(err.Error())
	}
	ok("AWS_REGION=" + cfg.AWSRegion)

	if cfg.PageSpeedAPIKey == "" {
		warn("PAGESPEED_API_KEY empty; pagespeed checks run unauthenticated and may be throttled.")
	} else {
		ok("PAGESPEED_API_KEY present")
	}

	if cfg.ITaggUsername == "" || cfg.ITaggPassword == "" {
		warn("ITAGG_USERNAME/ITAGG_PASSWORD empty; notify_sms will fail to log in.")
	} else {
		ok("iTagg credentials present, route " + fmt.Sprint(cfg.ITaggRoute))
	}

	if len(cfg.APIKeys) == 0 {
		warn("PROBED_API_KEYS empty; probed /api is open to anyone who can reach " + cfg.Addr)
	} else {
		for _, k := range cfg.APIKeys {
			if strings.TrimSpace(k) != k {
				warn("PROBED_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
				break
			}
		}
		ok(fmt.Sprintf("PROBED_API_KEYS has %d key(s)", len(cfg.APIKeys)))
	}
	if cfg.TrustProxy {
		warn("PROBED_TRUST_PROXY set; rate limits key on X-Forwarded-For, only run probed behind a proxy that sets it.")
	}

	defs, err := checks.Load(cfg.ChecksFile)
	if err != nil {
		if os.IsNotExist(err) {
			warn("PROBED_CHECKS file " + cfg.ChecksFile + " not found; probed will not start.")
			ok("preflight passed")
			return 0
		}
		return fail(err.Error())
	}

	// AWS clients are only constructed here; nothing is called.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	awsCfg, err := awsenv.Load(context.Background(), cfg.AWSRegion, httpClient)
	if err != nil {
		return fail("aws config: " + err.Error())
	}
	c := awsenv.NewClients(awsCfg)
	deps := checks.Deps{
		CloudWatch:   c.CloudWatch,
		TargetHealth: c.ELB,
		AutoScaling:  c.AutoScaling,
		Volumes:      c.EC2,
		HTTP:         httpClient,
		PageSpeedKey: cfg.PageSpeedAPIKey,
	}
	var errs error
	for _, d := range defs {
		if _, err := d.Build(deps); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		for _, err := range multierr.Errors(errs) {
			fmt.Fprintln(stderr, "✖", err)
		}
		return 1
	}
	ok(fmt.Sprintf("%s: %d check(s) valid", cfg.ChecksFile, len(defs)))

	ok("preflight passed")
	return 0
}
