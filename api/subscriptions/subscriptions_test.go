// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/node"
	"github.com/vechain/capacity/test/testnode"
)

func newServer(t *testing.T, origins []string) (*httptest.Server, *node.Node, *Subscriptions) {
	n, err := testnode.New()
	require.NoError(t, err)

	router := mux.NewRouter()
	subs := New(n, origins)
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, n, subs
}

func wsURL(ts *httptest.Server) string {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/clock"}
	return u.String()
}

func TestSubscribeClock(t *testing.T) {
	ts, n, subs := newServer(t, nil)
	defer subs.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var clock node.Clock
	require.NoError(t, conn.ReadJSON(&clock))
	assert.Equal(t, uint32(0), clock.Height)

	_, err = n.Tick()
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&clock))
	assert.Equal(t, uint32(1), clock.Height)
	assert.Equal(t, uint32(5), clock.EpochLength)
}

func TestCloseEndsSubscriptions(t *testing.T) {
	ts, _, subs := newServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	var clock node.Clock
	require.NoError(t, conn.ReadJSON(&clock))

	subs.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error %v", err)
}

func TestOriginCheck(t *testing.T) {
	ts, _, subs := newServer(t, []string{"https://allowed.example"})
	defer subs.Close()

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://allowed.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.NoError(t, err)
	conn.Close()
}
