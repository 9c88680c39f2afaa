package config

import (
	"os"
	"testing"
	"time"
)

func TestFromEnv_ParsesValues(t *testing.T) {
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("HTTP_TIMEOUT", "1500ms")
	t.Setenv("PAGESPEED_API_KEY", "psi")
	t.Setenv("ITAGG_USERNAME", "u")
	t.Setenv("ITAGG_PASSWORD", "p")
	t.Setenv("ITAGG_ROUTE", "3")
	t.Setenv("PROBED_ADDR", ":9090")
	t.Setenv("PROBED_API_KEYS", "key_a,key_b")
	t.Setenv("PROBED_RPM", "111")
	t.Setenv("PROBED_BURST", "22")
	t.Setenv("PROBED_CHECKS", "/etc/probed/checks.yaml")
	t.Setenv("PROBED_TRUST_PROXY", "true")
	t.Setenv("PROBED_API_KEY", "client_key")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.LogDir != "./_testlogs" || cfg.AWSRegion != "us-east-1" {
		t.Fatalf("logdir/region wrong: %+v", cfg)
	}
	if cfg.HTTPTimeout != 1500*time.Millisecond {
		t.Fatalf("timeout wrong: %v", cfg.HTTPTimeout)
	}
	if cfg.ITaggUsername != "u" || cfg.ITaggPassword != "p" || cfg.ITaggRoute != 3 {
		t.Fatalf("itagg wrong: %+v", cfg)
	}
	if len(cfg.APIKeys) != 2 || cfg.APIKeys[0] != "key_a" {
		t.Fatalf("api keys wrong: %+v", cfg.APIKeys)
	}
	if cfg.Addr != ":9090" || cfg.RatePerMin != 111 || cfg.RateBurst != 22 {
		t.Fatalf("probed settings wrong: %+v", cfg)
	}
	if cfg.ChecksFile != "/etc/probed/checks.yaml" {
		t.Fatalf("checks file wrong: %q", cfg.ChecksFile)
	}
	if !cfg.TrustProxy || cfg.ProbedAPIKey != "client_key" {
		t.Fatalf("proxy/client key wrong: %+v", cfg)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"LOG_DIR", "AWS_REGION", "HTTP_TIMEOUT", "ITAGG_ROUTE", "PROBED_ADDR", "PROBED_API_KEYS", "PROBED_TRUST_PROXY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.LogDir != "logs" || cfg.AWSRegion != "eu-west-1" || cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if cfg.ITaggRoute != 7 || cfg.Addr != "127.0.0.1:5667" || cfg.TrustProxy {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
}

func TestFromEnv_BadDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	if _, err := FromEnv(); err == nil {
		t.Fatal("want error for invalid duration")
	}
}
