// Package metrics records document and build metrics.
//
// Components take a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected. The preview server
// injects one and exposes it through HTTPHandler at /metrics.
package metrics
