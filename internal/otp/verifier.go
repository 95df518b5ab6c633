// Package otp wraps the external phone-verification provider. Handlers
// depend only on the Verifier interface so the provider can be swapped for
// a fake in tests; the production implementation talks to Twilio Verify.
package otp

import "context"

// Verifier sends one-time codes to phone numbers and checks the code the
// user types back. Both calls are synchronous round-trips to the provider.
type Verifier interface {
	// SendCode asks the provider to deliver a code to the phone number and
	// returns the provider's delivery status (e.g. "pending").
	SendCode(ctx context.Context, phone string) (string, error)
	// CheckCode verifies a code for a phone number. approved is true only
	// when the provider accepts the code; a wrong code is (false, nil).
	CheckCode(ctx context.Context, phone, code string) (bool, error)
}
