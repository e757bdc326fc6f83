// Package handler defines the request context, the buffered Response type and the
// error classification shared by the router, the middleware pipeline and the
// application kernel.
//
// Actions return any value; Normalize turns it into a *Response:
//
//	func show(ctx handler.Context, p handler.Params) any {
//		return p.At(0, "default") // 200 text/html
//	}
//
// Errors returned from actions are classified by an ExceptionHandler: HTTPError
// values keep their status code, ValidationError becomes 422 with a JSON payload
// and everything else is reported and rendered as 500.
package handler
