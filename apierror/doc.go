// Package apierror defines the error taxonomy shared by every Klaviyo API call.
//
// All failures produced by the client are *Error values carrying a machine
// readable Kind, an optional HTTP status code, and a human readable detail.
// Each Kind has a sentinel so callers can branch with errors.Is:
//
//	_, err := client.Lists().GetLists(ctx)
//	switch {
//	case errors.Is(err, apierror.ErrRateLimited):
//		wait, _ := apierror.RetryAfter(err)
//		// back off for wait, then try again
//	case errors.Is(err, apierror.ErrAuth):
//		// invalid private key, do not retry
//	}
//
// Credentials never appear in Error messages.
package apierror
