// Package infra holds the adapters behind the core interfaces: zerolog
// logging, Prometheus and InfluxDB session sinks, the MQTT charge event
// publisher and Sentry monitoring. Core packages never import infra.
package infra
