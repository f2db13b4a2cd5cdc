package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mdstudio/mdstudio-cli/internal/cli/args"
	"github.com/mdstudio/mdstudio-cli/internal/cli/client"
	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
)

type ErrorKind string

const (
	ErrorKindUsage     ErrorKind = "usage"
	ErrorKindDuplicate ErrorKind = "duplicate-keyword"
	ErrorKindAuth      ErrorKind = "auth"
	ErrorKindOffline   ErrorKind = "offline"
	ErrorKindHTTP      ErrorKind = "http"
	ErrorKindRemote    ErrorKind = "remote"
	ErrorKindNotFound  ErrorKind = "not-found"
	ErrorKindOther     ErrorKind = "other"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError reports a command line that cannot be turned into a payload.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Usagef formats a UsageError.
func Usagef(format string, a ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, a...)}
}

type ClassifiedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"` // User-friendly suggestion
	Raw     error     `json:"-"`
}

func (e ClassifiedError) Error() string {
	return e.Message
}

func (e ClassifiedError) Unwrap() error {
	return e.Raw
}

// ExitCode is the process exit status for this error.
func (e ClassifiedError) ExitCode() int {
	switch e.Kind {
	case "":
		return ExitOK
	case ErrorKindUsage, ErrorKindDuplicate:
		return ExitUsage
	default:
		return ExitFailure
	}
}

func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}

	var (
		usage     *UsageError
		dup       *args.DuplicateKeywordError
		malformed *args.MalformedKeywordError
		reserved  *call.ReservedKeywordError
		rpcErr    *client.RPCError
	)

	switch {
	case stderrors.As(err, &dup):
		return ClassifiedError{
			Kind:    ErrorKindDuplicate,
			Message: err.Error(),
			Hint:    fmt.Sprintf("Pass all values for %q after a single keyword", dup.Keyword),
			Raw:     err,
		}
	case stderrors.As(err, &malformed), stderrors.As(err, &reserved), stderrors.As(err, &usage),
		stderrors.Is(err, call.ErrMissingURI), stderrors.Is(err, args.ErrEmptyPrefix), stderrors.Is(err, client.ErrNoEndpoint):
		return ClassifiedError{
			Kind:    ErrorKindUsage,
			Message: err.Error(),
			Hint:    "Run 'mdstudio --help' for usage",
			Raw:     err,
		}
	case stderrors.As(err, &rpcErr):
		kind := ErrorKindRemote
		hint := "The remote method reported an error."
		if rpcErr.Code == client.MethodNotFound {
			kind = ErrorKindNotFound
			hint = "The method URI was not found. Check the --uri value."
		}
		return ClassifiedError{Kind: kind, Message: err.Error(), Hint: hint, Raw: err}
	case stderrors.Is(err, context.DeadlineExceeded):
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "The call timed out. Increase --timeout or check the endpoint.",
			Raw:     err,
		}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid_token") || strings.Contains(msg, "oauth2"):
		return ClassifiedError{
			Kind:    ErrorKindAuth,
			Message: err.Error(),
			Hint:    "Check the profile's auth settings or MDSTUDIO_TOKEN",
			Raw:     err,
		}
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host"):
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "Is the endpoint reachable? Check --endpoint or the profile",
			Raw:     err,
		}
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return ClassifiedError{
			Kind:    ErrorKindNotFound,
			Message: err.Error(),
			Hint:    "The requested resource was not found. Check the endpoint and method URI.",
			Raw:     err,
		}
	case strings.Contains(msg, "http") || strings.Contains(msg, "status code"):
		return ClassifiedError{
			Kind:    ErrorKindHTTP,
			Message: err.Error(),
			Hint:    "An HTTP error occurred during communication with the endpoint.",
			Raw:     err,
		}
	default:
		return ClassifiedError{
			Kind:    ErrorKindOther,
			Message: err.Error(),
			Hint:    "An unexpected error occurred.",
			Raw:     err,
		}
	}
}
