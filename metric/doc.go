// Package metric exports easystore operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	m := metric.NewPrometheus(reg)
//	store := easystore.New(disks, easystore.WithMetricsCollector(m))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metric
