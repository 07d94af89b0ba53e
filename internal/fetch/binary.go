package fetch

import (
	"context"
	"net/http"

	"github.com/vporoshin/docdecay/internal/model"
)

// CheckBinary detects whether a binary resource (usually a PDF) changed
// since we last recorded its length and hash. A HEAD probe comes first:
// when the reported length still matches a known hash's length the body is
// never downloaded. Only a mismatch, or a missing hash, forces a full GET.
func (c *Client) CheckBinary(ctx context.Context, rawURL string, knownLength int64, knownHash string) model.ChangeResult {
	result := model.ChangeResult{URL: rawURL}

	head := c.Head(ctx, rawURL)
	if head.Err != nil {
		result.ErrDetail = head.ErrDetail
		return result
	}
	result.StatusCode = head.StatusCode
	if head.StatusCode != http.StatusOK {
		result.ErrDetail = "unexpected status on HEAD"
		return result
	}

	if knownHash != "" && head.ContentLength >= 0 && head.ContentLength == knownLength {
		// Same length as the hashed snapshot: treat as unchanged without
		// re-downloading. HashCompared stays false to record the shortcut.
		result.NewLength = head.ContentLength
		result.Changed = false
		return result
	}

	body := c.Get(ctx, rawURL)
	if body.Err != nil {
		result.ErrDetail = body.ErrDetail
		return result
	}
	result.StatusCode = body.StatusCode
	result.NewLength = body.ContentLength
	result.NewHash = body.ContentHash

	if knownHash != "" {
		result.HashCompared = true
		result.Changed = body.ContentHash != knownHash
		return result
	}

	// No recorded hash: fall back to a pure length comparison.
	result.Changed = knownLength > 0 && body.ContentLength != knownLength
	return result
}
