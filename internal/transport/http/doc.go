// Package http contains the HTTP transport layer: chi handlers that expose
// the chart computation service to the dashboard frontend. Handlers own
// request decoding, response shaping and RFC 7807 error rendering; all
// domain logic stays in the service and analytics layers.
package http
