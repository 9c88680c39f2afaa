package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const (
	DefaultITaggURL   = "http://secure.itagg.com/smsg/sms.mes"
	DefaultITaggRoute = 7
)

// ErrLoginFailed is returned when iTagg rejects the account credentials.
var ErrLoginFailed = errors.New("unable to login to iTagg")

// SubmissionError is a rejected SMS submission.
type SubmissionError struct {
	Code string
	Text string
	Ref  string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("sms rejected: code=%s %s", e.Code, e.Text)
}

// Submission is an accepted SMS.
type Submission struct {
	Ref string
}

// RecipientError is a failed submission to one recipient.
type RecipientError struct {
	To  string
	Err error
}

func (e *RecipientError) Error() string { return "sms to " + e.To + ": " + e.Err.Error() }

func (e *RecipientError) Unwrap() error { return e.Err }

// ITagg sends SMS through the iTagg HTTP gateway.
type ITagg struct {
	Endpoint   string
	Username   string
	Password   string
	Sender     string
	Route      int
	Recipients []string
	Client     *http.Client
	// OnSubmit, when set, is called by Send after each recipient.
	OnSubmit func(to string, sub Submission, err error)
}

func NewITagg(username, password, sender string, recipients ...string) *ITagg {
	return &ITagg{
		Endpoint:   DefaultITaggURL,
		Username:   username,
		Password:   password,
		Sender:     sender,
		Route:      DefaultITaggRoute,
		Recipients: recipients,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Submit sends message to one recipient.
func (t *ITagg) Submit(ctx context.Context, to, message string) (Submission, error) {
	form := url.Values{
		"usr":   {t.Username},
		"pwd":   {t.Password},
		"from":  {t.Sender},
		"to":    {to},
		"type":  {"text"},
		"route": {strconv.Itoa(t.Route)},
		"txt":   {message},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Submission{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.Client.Do(req)
	if err != nil {
		return Submission{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Submission{}, err
	}
	if resp.StatusCode/100 != 2 {
		return Submission{}, fmt.Errorf("itagg returned %s", resp.Status)
	}
	return parseITaggResponse(string(body))
}

// parseITaggResponse reads the pipe-delimited reply:
//
//	error code|error text|submission reference
//	0|sms submitted|996a4201cfe1cb7acfac341a6c7a2b0e-3
func parseITaggResponse(body string) (Submission, error) {
	if strings.TrimSpace(body) == "fail,login" {
		return Submission{}, ErrLoginFailed
	}
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) == "" {
		return Submission{}, fmt.Errorf("unexpected itagg response %q", body)
	}
	fields := strings.Split(strings.TrimSpace(lines[1]), "|")
	if len(fields) < 3 {
		return Submission{}, fmt.Errorf("unexpected itagg response %q", body)
	}
	if fields[0] != "0" {
		return Submission{}, &SubmissionError{Code: fields[0], Text: fields[1], Ref: fields[2]}
	}
	return Submission{Ref: fields[2]}, nil
}

// Send delivers "title: text" to every configured recipient. Every
// recipient is attempted; failures come back as *RecipientError.
func (t *ITagg) Send(ctx context.Context, title, text string) error {
	if t == nil || len(t.Recipients) == 0 {
		return errors.New("itagg disabled")
	}
	msg := text
	if title != "" {
		msg = title + ": " + text
	}
	var errs error
	for _, to := range t.Recipients {
		sub, err := t.Submit(ctx, to, msg)
		if t.OnSubmit != nil {
			t.OnSubmit(to, sub, err)
		}
		if err != nil {
			errs = multierr.Append(errs, &RecipientError{To: to, Err: err})
		}
	}
	return errs
}
