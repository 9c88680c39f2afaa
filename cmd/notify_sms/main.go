// notify_sms sends a notification by SMS through the iTagg gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/CarltonSoftware/nagios-plugins/internal/cli"
	"github.com/CarltonSoftware/nagios-plugins/internal/notify"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	var (
		recipients []string
		message    string
		sender     string
		title      string
		slack      bool
		code       = 1
	)
	cmd := &cobra.Command{
		Use:           "notify_sms",
		Short:         "Send an SMS via the iTagg SMS service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cli.Setup("notify_sms", false)
			if err != nil {
				return err
			}
			defer func() { _ = env.Logger.Sync() }()
			cfg := env.Config

			sms := notify.NewITagg(cfg.ITaggUsername, cfg.ITaggPassword, sender, recipients...)
			sms.Endpoint = cfg.ITaggURL
			sms.Route = cfg.ITaggRoute
			sms.Client = env.HTTPClient()
			sms.OnSubmit = func(to string, sub notify.Submission, err error) {
				switch {
				case errors.Is(err, notify.ErrLoginFailed):
					fmt.Fprintln(stdout, "Unable to login to iTagg")
					env.Logger.Error("sms_login_failed", zap.String("to", to))
				case err != nil:
					fmt.Fprintln(stdout, "SMS failed to send -", err)
					env.Logger.Error("sms_failed", zap.String("to", to), zap.Error(err))
				default:
					fmt.Fprintln(stdout, "SMS was sent successfully -", sub.Ref)
					env.Logger.Info("sms_sent", zap.String("to", to), zap.String("ref", sub.Ref))
				}
			}

			targets := notify.Multi{sms}
			if s := notify.NewSlack(cfg.SlackWebhook); slack && s != nil {
				s.Client = env.HTTPClient()
				targets = append(targets, s)
			}

			failed := false
			for _, err := range multierr.Errors(targets.Send(cmd.Context(), title, message)) {
				failed = true
				var re *notify.RecipientError
				if errors.As(err, &re) {
					// already reported by OnSubmit
					continue
				}
				fmt.Fprintln(stdout, "Notification failed -", err)
				env.Logger.Error("notify_failed", zap.Error(err))
			}
			if !failed {
				code = 0
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringSliceVarP(&recipients, "recipient", "r", nil, "`PHONE_NUMBER` to send the SMS to (repeatable)")
	fs.StringVarP(&message, "message", "m", "", "the message to send")
	fs.StringVarP(&sender, "sender", "s", "nagios", "the phone number or short code to send from")
	fs.StringVarP(&title, "title", "T", "", "optional prefix for the message")
	fs.BoolVar(&slack, "slack", false, "also post to SLACK_WEBHOOK")
	_ = cmd.MarkFlagRequired("recipient")
	_ = cmd.MarkFlagRequired("message")
	cmd.SetOut(stdout)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stdout, "notify_sms:", err)
		return 1
	}
	return code
}
