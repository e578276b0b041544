// Package logger provides structured logging for the application.
//
// It configures log/slog from the server settings and carries a
// request-scoped *slog.Logger through context.Context so that stores and
// services log with the trace id and user id attached by the HTTP layer.
package logger
