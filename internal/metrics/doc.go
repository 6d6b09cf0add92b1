// Package metrics records render pipeline metrics.
//
// Components depend on the Recorder interface. NoopRecorder is the default so
// callers never nil-check; the CLI swaps in a PrometheusRecorder when a
// metrics endpoint is served (preview mode).
package metrics
