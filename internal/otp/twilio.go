package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioVerifyBase = "https://verify.twilio.com/v2"

// TwilioVerify implements Verifier against the Twilio Verify v2 REST API.
// Requests are form-encoded POSTs authenticated with the account SID and
// auth token; the verification service SID selects the Verify service.
type TwilioVerify struct {
	AccountSID string
	AuthToken  string
	ServiceSID string
	BaseURL    string // overridable for tests
	Client     *http.Client
}

// NewTwilioVerify builds a client with a bounded request timeout.
func NewTwilioVerify(accountSID, authToken, serviceSID string) *TwilioVerify {
	return &TwilioVerify{
		AccountSID: accountSID,
		AuthToken:  authToken,
		ServiceSID: serviceSID,
		BaseURL:    twilioVerifyBase,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendCode starts a verification: POST /Services/{sid}/Verifications.
func (t *TwilioVerify) SendCode(ctx context.Context, phone string) (string, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")
	var resp struct {
		Status string `json:"status"`
	}
	if err := t.post(ctx, "/Services/"+t.ServiceSID+"/Verifications", form, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// CheckCode completes a verification: POST /Services/{sid}/VerificationCheck.
// Twilio reports a wrong code as status != "approved", not as an HTTP error.
func (t *TwilioVerify) CheckCode(ctx context.Context, phone, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)
	var resp struct {
		Status string `json:"status"`
	}
	if err := t.post(ctx, "/Services/"+t.ServiceSID+"/VerificationCheck", form, &resp); err != nil {
		return false, err
	}
	return resp.Status == "approved", nil
}

func (t *TwilioVerify) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.AccountSID, t.AuthToken)

	res, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("verify provider: unexpected status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
