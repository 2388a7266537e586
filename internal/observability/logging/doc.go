// Package logging wraps log/slog with the helpers shared by the API server
// and the worker: level parsing, request ID propagation and context loggers.
//
//	logger := logging.NewLogger(cfg.LogLevel)
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("processing request")
//	}
package logging
