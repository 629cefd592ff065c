package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"GoldSentinel/internal/retry"
)

// smsLimit caps alerts at two concatenated segments.
const smsLimit = 320

// SMSNotifier sends short alerts through the Twilio Messages API.
type SMSNotifier struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	To         string
	Client     *http.Client
}

// NewSMSNotifier creates an SMS notifier.
func NewSMSNotifier(baseURL, accountSID, authToken, from, to string, client *http.Client) *SMSNotifier {
	return &SMSNotifier{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		To:         to,
		Client:     client,
	}
}

func (s *SMSNotifier) Name() string { return "sms" }

// Send delivers body as a text message; subject is ignored.
func (s *SMSNotifier) Send(ctx context.Context, _ string, body string) error {
	if r := []rune(body); len(r) > smsLimit {
		body = string(r[:smsLimit-1]) + "…"
	}
	form := url.Values{}
	form.Set("To", s.To)
	form.Set("From", s.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.BaseURL, url.PathEscape(s.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return retry.Permanent(err)
	}
	req.SetBasicAuth(s.AccountSID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return retry.StatusError(fmt.Sprintf("twilio error (%s)", strings.TrimSpace(string(respBody))), resp.StatusCode)
	}
	return nil
}
