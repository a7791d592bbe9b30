package extract

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidURL          Kind = "InvalidUrl"
	AccessDenied        Kind = "AccessDenied"
	NotFound            Kind = "NotFound"
	Paywalled           Kind = "Paywalled"
	ClientError         Kind = "ClientError"
	FetchFailed         Kind = "FetchFailed"
	Timeout             Kind = "Timeout"
	InsufficientContent Kind = "InsufficientContent"
)

// ExtractionError carries the failure category, the upstream HTTP status
// when there was one, and the underlying cause.
type ExtractionError struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction %s: %v", e.Kind, e.Err)
	}
	return "extraction " + string(e.Kind)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Message is the user-facing explanation for the failure.
func (e *ExtractionError) Message() string {
	switch e.Kind {
	case InvalidURL:
		return "Invalid URL: please enter a valid http or https address"
	case AccessDenied:
		return "Access denied: the website blocked automated access (HTTP 403)"
	case NotFound:
		return "Article not found (HTTP 404). Please check the URL"
	case Paywalled:
		return "This article is behind a paywall or unavailable in this region"
	case ClientError:
		return fmt.Sprintf("The website rejected the request (HTTP %d)", e.Status)
	case Timeout:
		return "The website took too long to respond. Please try again later"
	case InsufficientContent:
		return "Could not extract enough article text to analyze"
	default:
		return "Could not fetch the article after several attempts. The website may be down or blocking requests"
	}
}

func newError(kind Kind, status int, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Status: status, Err: err}
}

// KindOf returns the extraction kind of err, or "" if err is not an
// ExtractionError.
func KindOf(err error) Kind {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Kind
	}
	return ""
}

// RequireContent fails with InsufficientContent when cleaned text is
// shorter than min characters.
func RequireContent(cleaned string, min int) error {
	if len(cleaned) < min {
		return newError(InsufficientContent, 0, fmt.Errorf("got %d characters, need %d", len(cleaned), min))
	}
	return nil
}
