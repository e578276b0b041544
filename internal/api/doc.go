// Package api handles incoming HTTP requests, request validation and response
// formatting. It translates HTTP concerns into calls on the services in
// internal/service and maps their errors back to status codes.
package api
