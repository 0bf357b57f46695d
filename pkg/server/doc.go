// Package server provides the HTTP server behind `cirg serve`.
//
// API handlers registered with WithHandler run behind a fixed middleware
// chain: Prometheus metrics, API version negotiation, request ID
// tracking, panic recovery, token-bucket rate limiting
// (golang.org/x/time/rate) and request logging.
//
// System endpoints bypass the chain:
//
//	GET /health   liveness, always 200
//	GET /ready    200 while serving, 503 during shutdown
//	GET /metrics  Prometheus exposition
//
// Every error is a JSON ErrorResponse:
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "Rate limit exceeded",
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": true
//	}
//
// Usage:
//
//	s := server.New(
//	    server.WithName("cirg"),
//	    server.WithHandler("/v1/snapshot", handler),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
package server
