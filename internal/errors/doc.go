// Package errors provides the structured error type shared by the rules
// engine, the character builder and the adventure session.
//
// Every error carries a Code that tells the caller which of three failure
// classes it belongs to:
//
//   - Input rejected: a build step or turn was attempted before its
//     preconditions held (InvalidArgument, FailedPrecondition, Aborted).
//     Callers disable the advancing action instead of crashing.
//   - Collaborator failure: the narration or portrait service failed
//     (Unavailable, DeadlineExceeded). The session converts these into an
//     in-story message and stays retryable.
//   - Internal: anything else.
//
// Creating errors:
//
//	err := errors.FailedPrecondition("all six abilities must be assigned")
//	err := errors.InvalidArgumentf("unknown weapon: %s", name)
//
// Wrapping errors keeps the code of an inner *Error:
//
//	if err := conv.Converse(ctx, text); err != nil {
//	    return errors.WrapWithCode(err, errors.CodeUnavailable, "narrator failed")
//	}
//
// Checking:
//
//	if errors.IsFailedPrecondition(err) {
//	    // keep the button disabled
//	}
package errors
