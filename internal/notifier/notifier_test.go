package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"GoldSentinel/internal/retry"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var fast = retry.Policy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

type flakyNotifier struct {
	fails int32
	calls int32
}

func (f *flakyNotifier) Name() string { return "flaky" }

func (f *flakyNotifier) Send(context.Context, string, string) error {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.fails {
		return errors.New("temporary")
	}
	return nil
}

func TestDeliver_RetriesTransientFailures(t *testing.T) {
	n := &flakyNotifier{fails: 2}
	if err := Deliver(context.Background(), n, "s", "b", fast, zap.NewNop()); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if n.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", n.calls)
	}
}

func TestDeliver_GivesUp(t *testing.T) {
	n := &flakyNotifier{fails: 10}
	if err := Deliver(context.Background(), n, "s", "b", fast, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
	if n.calls != 3 {
		t.Errorf("expected 1 call plus 2 retries, got %d", n.calls)
	}
}

func TestEmail_MissingCredentials(t *testing.T) {
	e := NewEmailNotifier("smtp.gmail.com", 587, "", "", "to@example.com")
	err := Deliver(context.Background(), e, "s", "b", fast, zap.NewNop())
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestEmail_BuildsMessage(t *testing.T) {
	e := NewEmailNotifier("smtp.example.com", 587, "me@example.com", "pw", "a@example.com, b@example.com")
	var got *gomail.Message
	e.send = func(m *gomail.Message) error {
		got = m
		return nil
	}

	if err := e.Send(context.Background(), "Gold Analysis", "body text"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got == nil {
		t.Fatal("message not sent")
	}
	if to := got.GetHeader("To"); len(to) != 2 || to[1] != "b@example.com" {
		t.Errorf("unexpected recipients %v", to)
	}
	if subj := got.GetHeader("Subject"); len(subj) != 1 || subj[0] != "Gold Analysis" {
		t.Errorf("unexpected subject %v", subj)
	}
	var sb strings.Builder
	if _, err := got.WriteTo(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "body text") {
		t.Error("body missing from rendered message")
	}
}

func TestTelegram_SendSplitsLongMessages(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/botTOKEN/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var p map[string]string
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p["chat_id"] != "42" {
			t.Errorf("unexpected chat id %q", p["chat_id"])
		}
		texts = append(texts, p["text"])
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", srv.Client())
	tn.APIBase = srv.URL

	body := strings.Repeat("₹119,020 line of report\n", 400)
	if err := tn.Send(context.Background(), "subject", body); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(texts) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(texts))
	}
	if got := strings.Join(texts, ""); got != "subject\n\n"+body {
		t.Error("chunks do not reassemble to the input text")
	}
}

func TestTelegram_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"ok":false}`)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("bad", "1", srv.Client())
	tn.APIBase = srv.URL
	if err := Deliver(context.Background(), tn, "", "hi", fast, zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("401 should not be retried, got %d calls", calls)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 100); len(got) != 1 {
		t.Errorf("expected one chunk, got %d", len(got))
	}
	long := strings.Repeat("x", 25)
	chunks := splitMessage(long, 10)
	if len(chunks) != 3 || strings.Join(chunks, "") != long {
		t.Errorf("unexpected chunks %q", chunks)
	}
	for _, c := range splitMessage(strings.Repeat("₹", 30), 10) {
		if !strings.HasPrefix(c, "₹") || len(c) > 10 {
			t.Errorf("chunk split inside a rune: %q", c)
		}
	}
}

func TestSMS_PostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Errorf("bad auth %q/%q", user, pass)
		}
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		if form.Get("To") != "+910000000000" || form.Get("From") != "+15550000000" {
			t.Errorf("unexpected numbers %v", form)
		}
		if n := len([]rune(form.Get("Body"))); n > smsLimit {
			t.Errorf("body not truncated: %d runes", n)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSMSNotifier(srv.URL+"/", "AC123", "secret", "+15550000000", "+910000000000", srv.Client())
	if err := s.Send(context.Background(), "ignored", strings.Repeat("gold ", 100)); err != nil {
		t.Fatalf("Send: %v", err)
	}
}
