package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/vporoshin/docdecay/internal/model"
)

// Classify maps a raw fetch result to its outcome class. The rule order is
// load-bearing: transport failures first, then hard statuses, then the
// soft-failure override, so a 200 error page never reads as OK.
func Classify(r model.FetchResult) model.OutcomeClass {
	if r.Err != nil {
		return classifyTransport(r.Err)
	}

	switch {
	case r.StatusCode == http.StatusNotFound:
		return model.OutcomeNotFound
	case r.StatusCode >= 500:
		return model.OutcomeServerError
	case r.StatusCode == http.StatusOK && r.SoftFailure:
		return model.OutcomeSoftNotFound
	case r.StatusCode == http.StatusOK && r.FinalURL != "" && r.FinalURL != r.URL:
		return model.OutcomeRedirectResolved
	case r.StatusCode == http.StatusOK:
		return model.OutcomeOK
	case r.StatusCode >= 300 && r.StatusCode < 400:
		return model.OutcomeRedirect
	default:
		return model.OutcomeUnclassified
	}
}

// classifyTransport separates timeouts, DNS failures and everything else.
func classifyTransport(err error) model.OutcomeClass {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return model.OutcomeDomainError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.OutcomeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.OutcomeTimeout
	}
	// net/http wraps its client timeout in a plain error string.
	if strings.Contains(err.Error(), "Client.Timeout") {
		return model.OutcomeTimeout
	}

	return model.OutcomeConnectionError
}

// SuggestedAction returns the remediation hint shown next to a failed URL.
func SuggestedAction(class model.OutcomeClass) string {
	switch class {
	case model.OutcomeNotFound, model.OutcomeSoftNotFound:
		return "Find replacement URL or remove the link"
	case model.OutcomeRedirect, model.OutcomeRedirectResolved:
		return "Update the link to its final URL"
	case model.OutcomeMovedDocument:
		return "Review the new document version and update quoted facts"
	case model.OutcomeServerError:
		return "Source is failing; re-check later and consider mirroring"
	case model.OutcomeTimeout:
		return "Source is slow or blocking; re-check later"
	case model.OutcomeDomainError:
		return "Domain no longer resolves; find where the source moved"
	case model.OutcomeConnectionError:
		return "Could not connect; re-check later"
	default:
		return "Inspect manually"
	}
}
