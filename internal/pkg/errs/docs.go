// Package errs provides the typed errors shared by the dispatch service.
//
// Every error type pairs with a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired) returned from Unwrap, so callers
// classify failures with errors.Is and read details with errors.As:
//
//	var notFound *errs.ObjectNotFoundError
//	if errors.As(err, &notFound) {
//	    // driver vanished between the locator and the directory read
//	}
package errs
