package product

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Created     prometheus.Counter
	Deleted     prometheus.Counter
	UploadBytes prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "productboard_products_created_total",
			Help: "Products appended to the collection",
		}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "productboard_products_deleted_total",
			Help: "Products removed from the collection",
		}),
		UploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "productboard_upload_bytes_total",
			Help: "Bytes of uploaded images written to disk",
		}),
	}

	reg.MustRegister(m.Created, m.Deleted, m.UploadBytes)
	return m
}
