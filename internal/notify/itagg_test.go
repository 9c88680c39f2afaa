package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func itaggServer(t *testing.T, body string, form *map[string]string) *ITagg {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if form != nil {
			m := map[string]string{}
			for k := range r.PostForm {
				m[k] = r.PostForm.Get(k)
			}
			*form = m
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	it := NewITagg("user", "secret", "nagios", "447700900000")
	it.Endpoint = ts.URL
	return it
}

func TestITagg_SubmitOK(t *testing.T) {
	var form map[string]string
	it := itaggServer(t, "error code|error text|submission reference\n0|sms submitted|996a4201cfe1cb7acfac341a6c7a2b0e-3\n", &form)

	sub, err := it.Submit(context.Background(), "447700900001", "disk full")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Ref != "996a4201cfe1cb7acfac341a6c7a2b0e-3" {
		t.Fatalf("unexpected ref %q", sub.Ref)
	}
	want := map[string]string{
		"usr": "user", "pwd": "secret", "from": "nagios", "to": "447700900001",
		"type": "text", "route": "7", "txt": "disk full",
	}
	for k, v := range want {
		if form[k] != v {
			t.Fatalf("form[%s]=%q want %q", k, form[k], v)
		}
	}
}

func TestITagg_LoginFailure(t *testing.T) {
	it := itaggServer(t, "fail,login", nil)
	_, err := it.Submit(context.Background(), "1", "x")
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("want ErrLoginFailed, got %v", err)
	}
}

func TestITagg_Rejected(t *testing.T) {
	it := itaggServer(t, "error code|error text|submission reference\n12|invalid number|\n", nil)
	_, err := it.Submit(context.Background(), "1", "x")
	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("want SubmissionError, got %v", err)
	}
	if se.Code != "12" || se.Text != "invalid number" {
		t.Fatalf("unexpected error %+v", se)
	}
}

func TestITagg_Malformed(t *testing.T) {
	for _, body := range []string{"", "only a header", "h\n0|missing ref"} {
		if _, err := parseITaggResponse(body); err == nil {
			t.Fatalf("want error for %q", body)
		}
	}
}

func TestITagg_SendPrefixesTitle(t *testing.T) {
	var form map[string]string
	it := itaggServer(t, "h\n0|ok|ref\n", &form)
	if err := it.Send(context.Background(), "PROBLEM", "web01 CPU critical"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if form["txt"] != "PROBLEM: web01 CPU critical" {
		t.Fatalf("unexpected txt %q", form["txt"])
	}
}

type failing struct{ err error }

func (f failing) Send(context.Context, string, string) error { return f.err }

func TestMulti_CombinesErrors(t *testing.T) {
	a, b := errors.New("a down"), errors.New("b down")
	err := Multi{failing{a}, nil, failing{nil}, failing{b}}.Send(context.Background(), "t", "x")
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Fatalf("want both errors, got %v", err)
	}
}

func TestITagg_SendTriesEveryRecipient(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.FormValue("to") == "bad" {
			w.Write([]byte("h\n12|invalid number|\n"))
			return
		}
		w.Write([]byte("h\n0|ok|ref-" + r.FormValue("to") + "\n"))
	}))
	t.Cleanup(ts.Close)

	it := NewITagg("user", "secret", "nagios", "bad", "good")
	it.Endpoint = ts.URL
	var seen []string
	it.OnSubmit = func(to string, sub Submission, err error) {
		if err != nil {
			seen = append(seen, to+":err")
			return
		}
		seen = append(seen, to+":"+sub.Ref)
	}

	err := it.Send(context.Background(), "", "x")
	if calls != 2 {
		t.Fatalf("want 2 submissions, got %d", calls)
	}
	if len(seen) != 2 || seen[0] != "bad:err" || seen[1] != "good:ref-good" {
		t.Fatalf("unexpected callbacks %v", seen)
	}
	var re *RecipientError
	if !errors.As(err, &re) || re.To != "bad" {
		t.Fatalf("want RecipientError for bad, got %v", err)
	}
	var se *SubmissionError
	if !errors.As(err, &se) || se.Code != "12" {
		t.Fatalf("want wrapped SubmissionError, got %v", err)
	}
}
