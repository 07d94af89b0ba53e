package fetch

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/vporoshin/docdecay/internal/model"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyOrder(t *testing.T) {
	tests := []struct {
		name string
		res  model.FetchResult
		want model.OutcomeClass
	}{
		{"ok", model.FetchResult{URL: "https://a/x", FinalURL: "https://a/x", StatusCode: 200}, model.OutcomeOK},
		{"not found", model.FetchResult{StatusCode: 404}, model.OutcomeNotFound},
		{"server error", model.FetchResult{StatusCode: 503}, model.OutcomeServerError},
		{"soft 404 beats ok", model.FetchResult{URL: "https://a/x", FinalURL: "https://a/x", StatusCode: 200, SoftFailure: true}, model.OutcomeSoftNotFound},
		{"redirect resolved", model.FetchResult{URL: "https://a/x", FinalURL: "https://a/y", StatusCode: 200}, model.OutcomeRedirectResolved},
		{"bare redirect", model.FetchResult{StatusCode: 301}, model.OutcomeRedirect},
		{"teapot", model.FetchResult{StatusCode: 418}, model.OutcomeUnclassified},
		{"dns", model.FetchResult{Err: &net.DNSError{Err: "no such host", Name: "gone.example"}}, model.OutcomeDomainError},
		{"timeout", model.FetchResult{Err: timeoutError{}}, model.OutcomeTimeout},
		{"deadline", model.FetchResult{Err: context.DeadlineExceeded}, model.OutcomeTimeout},
		{"client timeout string", model.FetchResult{Err: errors.New("Get \"x\": context deadline exceeded (Client.Timeout exceeded while awaiting headers)")}, model.OutcomeTimeout},
		{"refused", model.FetchResult{Err: errors.New("connection refused")}, model.OutcomeConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.res); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDNSBeatsTimeoutFlag(t *testing.T) {
	// A DNS error that is also a timeout still classifies as DOMAIN_ERROR.
	err := &net.DNSError{Err: "lookup timed out", Name: "slow.example", IsTimeout: true}
	if got := Classify(model.FetchResult{Err: err}); got != model.OutcomeDomainError {
		t.Errorf("Classify() = %v, want DOMAIN_ERROR", got)
	}
}

func TestSuggestedActionNeverEmpty(t *testing.T) {
	classes := []model.OutcomeClass{
		model.OutcomeOK, model.OutcomeRedirect, model.OutcomeRedirectResolved,
		model.OutcomeMovedDocument, model.OutcomeNotFound, model.OutcomeSoftNotFound,
		model.OutcomeServerError, model.OutcomeTimeout, model.OutcomeDomainError,
		model.OutcomeConnectionError, model.OutcomeUnclassified,
	}
	for _, class := range classes {
		if SuggestedAction(class) == "" {
			t.Errorf("no suggested action for %v", class)
		}
	}
}
