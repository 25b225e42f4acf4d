// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/api/doc"
	"github.com/vechain/capacity/metrics"
	"github.com/vechain/capacity/test/testnode"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newServer(t *testing.T) *httptest.Server {
	n, err := testnode.New()
	require.NoError(t, err)

	handler, closer := New(n, Options{
		AllowedOrigins: "*",
		AdminToken:     "secret",
		EnableMetrics:  true,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closer()
		ts.Close()
	})
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, url, body string) ([]byte, int) {
	res, err := http.Post(url, "application/json", strings.NewReader(body)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestRoutes(t *testing.T) {
	ts := newServer(t)

	_, code := httpGet(t, ts.URL+"/clock")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/targets")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/admin/epoch-length")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/admin/apilogs")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/nowhere")
	assert.Equal(t, http.StatusNotFound, code)

	body, code := httpPost(t, ts.URL+"/capacity/stake", `{"staker":"`+testnode.Alice.String()+`","target":1,"amount":1000}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"staked":1000,"capacityIssued":20}`, string(body))

	body, code = httpGet(t, ts.URL+"/accounts/"+testnode.Alice.String())
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"frozen":1000`)
}

func TestUndocumentedRoutes(t *testing.T) {
	noop := func(http.ResponseWriter, *http.Request) {}
	router := mux.NewRouter()
	router.PathPrefix("/doc").HandlerFunc(noop)
	sub := router.PathPrefix("/capacity").Subrouter()
	sub.Path("/targets/{id}").Name("capacity_get_target").HandlerFunc(noop)
	sub.Path("/targets/{id}/refund").Name("capacity_refund").HandlerFunc(noop)

	assert.Equal(t, []string{"/capacity/targets/{id}/refund"}, undocumentedRoutes(router))
}

func TestDoc(t *testing.T) {
	ts := newServer(t)

	res, err := http.Get(ts.URL + "/doc/capacity.yaml") //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "/capacity/stake")
	assert.Equal(t, doc.Version(), res.Header.Get("x-capacity-ver"))
}

func TestCORS(t *testing.T) {
	ts := newServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/clock", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newServer(t)

	httpGet(t, ts.URL+"/accounts/0x")
	httpGet(t, ts.URL+"/accounts/"+testnode.Bob.String())
	httpPost(t, ts.URL+"/capacity/stake", `{"staker":"`+testnode.Bob.String()+`","target":9,"amount":1000}`)

	// the websocket upgrade passes through the middleware
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/clock"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	conn.Close()

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	require.Contains(t, families, "capacity_api_request_count")
	byLabels := make(map[string]float64)
	for _, m := range families["capacity_api_request_count"].GetMetric() {
		var key []string
		for _, l := range m.GetLabel() {
			key = append(key, l.GetName()+"="+l.GetValue())
		}
		byLabels[strings.Join(key, ",")] += m.GetCounter().GetValue()
	}
	assert.GreaterOrEqual(t, byLabels["code=400,method=GET,name=accounts_get_account"], float64(1))
	assert.GreaterOrEqual(t, byLabels["code=200,method=GET,name=accounts_get_account"], float64(1))
	assert.GreaterOrEqual(t, byLabels["code=400,method=POST,name=capacity_stake"], float64(1))

	require.Contains(t, families, "capacity_api_active_websocket_count")
	assert.Equal(t, float64(1), families["capacity_api_active_websocket_count"].GetMetric()[0].GetGauge().GetValue())
}
