// Package resource implements a single-flight request/retry coordinator
// for asynchronous data fetching.
//
// A Resource maps a key (a URL) to an ongoing or completed fetch and
// moves through Idle -> Pending -> Succeeded or Failed. Retry and key
// changes return it to Pending under a fresh generation; there is no
// terminal state.
//
// The generation counter is the package's one real correctness property:
// every fetch attempt is stamped with the generation that started it, and
// a completion is committed only if its generation is still current. A
// late response from a superseded attempt is discarded silently, so state
// always reflects the newest request, regardless of network ordering.
//
// All failure kinds (transport errors, non-2xx responses, undecodable
// bodies) collapse into the Failed status and are surfaced as data. The
// package never re-raises a fetch failure, and it never retries one
// automatically; retry policy belongs to the caller.
package resource
