// Package reactive provides the minimal reactive substrate the rest of
// bastion builds on: typed signals with explicit subscription.
//
// Unlike full reactive runtimes there is no implicit dependency tracking.
// A consumer that wants to react to a value change calls Subscribe and
// holds on to the returned Unsubscribe. This keeps the data flow visible
// at every call site, which matters in a library whose whole purpose is
// making failure paths explicit.
package reactive
