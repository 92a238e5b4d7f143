// Package backend connects a completion session to the out-of-process
// completion engine.
//
// The transport contract is small: Complete dispatches one request and
// returns without waiting, and replies arrive later on the Responses
// channel in whatever order the backend produces them. Correlation is
// the caller's problem; every request carries an opaque token the
// backend echoes back, and the session drops replies whose token no
// longer matches its context tick.
//
// # Wire protocol
//
// The subprocess transport speaks MessagePack over stdio. Requests are
// maps with short keys to keep per-keystroke payloads small:
//
//	{"id": <token>, "l": <line, 1-based>, "c": <byte column, 1-based>}
//
// Responses echo the token and carry candidate rows as fixed positional
// tuples:
//
//	{"id": <token>, "r": [[typedText, priority, resultType, brief,
//	                       signature, annotationStart,
//	                       [text, s1, e1, s2, e2, ...]], ...]}
//
// Rows are decoded positionally. A malformed row is skipped and the
// rest of the response survives; a malformed envelope terminates the
// stream, since an unframed byte stream cannot be resynchronized.
//
// # Implementations
//
// Process runs the real backend as a child process. Stub is an
// in-memory backend for tests and the demo binary, scripted per request
// or driven manually with Reply.
package backend
