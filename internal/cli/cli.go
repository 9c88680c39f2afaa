// Package cli wires a plugin check to a cobra command that prints one status
// line and exits with the plugin exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/CarltonSoftware/nagios-plugins/internal/awsenv"
	"github.com/CarltonSoftware/nagios-plugins/internal/checks"
	"github.com/CarltonSoftware/nagios-plugins/internal/config"
	"github.com/CarltonSoftware/nagios-plugins/internal/logging"
	"github.com/CarltonSoftware/nagios-plugins/internal/plugin"
)

// Env is the runtime a plugin builds its check from.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	RunID  string
}

// Setup loads configuration and opens the plugin's log file.
func Setup(name string, verbose bool) (*Env, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(logging.Options{
		Dir:     cfg.LogDir,
		File:    name + ".log",
		Level:   cfg.LogLevel,
		Verbose: verbose,
	})
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	return &Env{
		Config: cfg,
		Logger: logger.With(zap.String("plugin", name), zap.String("run_id", runID)),
		RunID:  runID,
	}, nil
}

func (e *Env) HTTPClient() *http.Client {
	return &http.Client{Timeout: e.Config.HTTPTimeout}
}

// Deps returns the HTTP based dependencies. AWS clients are added by AWSDeps.
func (e *Env) Deps() checks.Deps {
	return checks.Deps{
		HTTP:         e.HTTPClient(),
		PageSpeedKey: e.Config.PageSpeedAPIKey,
		Logger:       e.Logger,
	}
}

// AWSDeps is Deps plus the AWS service clients for the configured region.
func (e *Env) AWSDeps(ctx context.Context) (checks.Deps, error) {
	d := e.Deps()
	cfg, err := awsenv.Load(ctx, e.Config.AWSRegion, d.HTTP)
	if err != nil {
		return d, err
	}
	c := awsenv.NewClients(cfg)
	d.CloudWatch = c.CloudWatch
	d.TargetHealth = c.ELB
	d.AutoScaling = c.AutoScaling
	d.Volumes = c.EC2
	return d, nil
}

// Plugin describes one check binary.
type Plugin struct {
	Name string
	// CheckName prefixes every status line. Defaults to Name.
	CheckName string
	Short     string
	// Thresholds adds -w/--warning and -c/--critical.
	Thresholds bool
	Flags      func(fs *pflag.FlagSet)
	Build      func(ctx context.Context, env *Env, th checks.Thresholds) (*plugin.Check, error)
}

// Main runs p with the process arguments and exits.
func Main(p Plugin) {
	os.Exit(Execute(p, os.Args[1:], os.Stdout))
}

// Execute runs p and returns the exit code. Usage and setup errors are
// reported as UNKNOWN.
func Execute(p Plugin, args []string, stdout io.Writer) int {
	var (
		verbose bool
		timeout time.Duration
		th      checks.Thresholds
		code    = int(plugin.Unknown)
	)
	checkName := p.CheckName
	if checkName == "" {
		checkName = p.Name
	}
	cmd := &cobra.Command{
		Use:           p.Name,
		Short:         p.Short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := Setup(p.Name, verbose)
			if err != nil {
				return err
			}
			defer func() { _ = env.Logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			chk, err := p.Build(ctx, env, th)
			if err != nil {
				env.Logger.Warn("check_build_error", zap.Error(err))
				return err
			}
			chk.Name = checkName
			out := chk.Run(ctx)
			fmt.Fprintln(stdout, out.String())
			code = out.Code()
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetArgs(args)

	fs := cmd.Flags()
	fs.BoolVarP(&verbose, "verbose", "v", false, "also log to stderr at debug level")
	fs.DurationVar(&timeout, "timeout", 30*time.Second, "abort the check after this long")
	if p.Thresholds {
		fs.StringVarP(&th.Warning, "warning", "w", "", "return warning if value is outside `RANGE`")
		fs.StringVarP(&th.Critical, "critical", "c", "", "return critical if value is outside `RANGE`")
	}
	if p.Flags != nil {
		p.Flags(fs)
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stdout, plugin.UnknownOutcome(checkName, err).String())
		return int(plugin.Unknown)
	}
	return code
}
