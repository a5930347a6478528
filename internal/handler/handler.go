// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It turns an HTTP request into a service.Request, calls the form
// pipeline, and writes the success body in the form's envelope. Rejections
// are returned as errors and rendered by the global error handler.
package handler
