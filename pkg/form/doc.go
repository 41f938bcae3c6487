// Package form implements the client/server form-validation flow:
// reactive form state over a tagged struct, composable field validators,
// and merging of per-field errors returned by a server-side validation
// endpoint. Rendering of form fields is out of scope; the package only
// manages state and errors.
package form
