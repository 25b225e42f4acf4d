// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	m.GetOrCreateCountMeter("c").Add(1)
	m.GetOrCreateCountVecMeter("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "v"})
	m.GetOrCreateGaugeMeter("g").Set(2)
	m.GetOrCreateHistogramVecMeter("h", []string{"l"}, nil).ObserveWithLabels(1, map[string]string{"l": "v"})

	rec := httptest.NewRecorder()
	m.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestPromMetrics(t *testing.T) {
	lazy := LazyLoadCounter("lazy_count")

	InitializePrometheusMetrics()
	InitializePrometheusMetrics()

	count1 := Counter("count1")
	assert.Same(t, count1, Counter("count1"))
	countVec := CounterVec("count_vec1", []string{"zeroOrOne"})
	gauge := Gauge("gauge1")
	hist := HistogramVec("hist1", []string{"zeroOrOne"}, BucketHTTPReqs)

	count1.Add(1)
	lazy().Add(3)

	total := 0
	for i := 0; i < 10; i++ {
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		countVec.AddWithLabel(int64(i), labels)
		hist.ObserveWithLabels(int64(i), labels)
		total += i
	}
	gauge.Set(7)
	gauge.Add(-2)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		found[mf.GetName()] = mf
	}

	require.Contains(t, found, "capacity_count1")
	assert.Equal(t, float64(1), found["capacity_count1"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(3), found["capacity_lazy_count"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(5), found["capacity_gauge1"].Metric[0].GetGauge().GetValue())

	var vecTotal, histTotal float64
	for _, m := range found["capacity_count_vec1"].Metric {
		vecTotal += m.GetCounter().GetValue()
	}
	for _, m := range found["capacity_hist1"].Metric {
		histTotal += m.GetHistogram().GetSampleSum()
	}
	assert.Equal(t, float64(total), vecTotal)
	assert.Equal(t, float64(total), histTotal)

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "capacity_count1")
}
