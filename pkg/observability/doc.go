// Package observability provides Prometheus metrics for the chat API,
// CloudWatch metrics for the notebook scheduler and OpenTelemetry tracing.
package observability
