package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push delivers everything in the default registry to a Pushgateway. A
// batch run has no scrape surface, so this is the only way its metrics
// reach Prometheus. grouping labels distinguish runs, typically station
// and year.
func Push(url, job string, grouping map[string]string) error {
	p := push.New(url, job).Gatherer(prometheus.DefaultGatherer)
	for k, v := range grouping {
		p = p.Grouping(k, v)
	}
	return p.Push()
}
