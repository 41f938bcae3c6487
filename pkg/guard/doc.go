// Package guard provides a render-crash fallback boundary.
//
// A Guard brackets "produce presentable output" with a panic handler.
// The first panic raised inside the wrapped render is captured, the guard
// switches to a fallback presentation, and the wrapped subtree is never
// invoked again until an external actor calls Reset. Capture is one-shot
// and sticky; there is no automatic recovery.
package guard
