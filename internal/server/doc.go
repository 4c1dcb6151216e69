// Package server exposes an easystore dispatcher over HTTP for downloads.
//
// Routes:
//
//	GET /healthz                liveness check
//	GET /disks                  configured disks and their capabilities
//	GET /files/:disk/*path      attachment download, 404 for missing files
//	GET /metrics                Prometheus metrics (when configured)
package server
