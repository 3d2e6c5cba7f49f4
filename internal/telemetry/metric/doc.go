// Package metric records boot metrics in Prometheus format.
//
// gridboot exits (or execs the server) within seconds, so nothing is served
// over HTTP. Instead the registry is written once to a textfile that a node
// exporter textfile collector picks up:
//
//   - metric.go: Registry with boot, identity and install metrics
//   - collector.go: Build information collector
package metric
