// Package errs defines the error taxonomy of the form pipeline.
//
// Every rejection a form endpoint can produce is an *HTTPError carrying its
// status and a stable machine code, so the global error handler can render
// it in whichever response envelope the endpoint uses.
package errs
