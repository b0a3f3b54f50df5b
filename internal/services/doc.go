// Package services implements the clients for the Sonata REST API.
//
// # Transport
//
// [APIService] performs the HTTP round trips. Every response body is kept raw and,
// when it is a JSON object, decoded into an [Envelope]:
//
//	{"status": ..., "code": 200, "success": true, "message": "", "data": ..., "errors": ...}
//
// The data field holds either a list or an object that wraps one under "items" or "data".
// Authenticated calls go through [APIService.WithToken], which wraps the client with an
// [oauth2.StaticTokenSource] so the Bearer header is set by the transport.
//
// # Catalog
//
// [CatalogService] implements [Catalog]. Reads degrade: a transport error, a non-2xx status,
// or an undecodable payload is logged as a warning and the caller gets an empty list.
// Canceled requests are logged at debug level only. There are no retries and no caching.
//
// # Forms
//
// [AuthService] and [CategoryService] return a [*FormError] for failed submissions.
// Its message is taken, in order, from the field errors, the errors list or string,
// the envelope message, and finally [GenericFormMessage]. Unwrap yields a shared sentinel
// ([shared.ErrAuthFailed], [shared.ErrInvalidInput], ...) matching the HTTP status.
package services
