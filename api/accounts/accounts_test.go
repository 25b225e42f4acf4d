// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/api/accounts"
	"github.com/vechain/capacity/test/testnode"
	"github.com/vechain/capacity/thor"
)

func newServer(t *testing.T) *httptest.Server {
	n, err := testnode.New()
	require.NoError(t, err)

	router := mux.NewRouter()
	accounts.New(n).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestGetAccount(t *testing.T) {
	ts := newServer(t)

	body, code := httpGet(t, ts.URL+"/accounts/"+testnode.Alice.String())
	require.Equal(t, http.StatusOK, code, string(body))

	var acc accounts.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, uint64(10_000), acc.Balance)
	assert.Equal(t, uint64(0), acc.Frozen)
	assert.Equal(t, uint64(10_000), acc.Spendable)
	assert.Nil(t, acc.Staking)
	assert.Empty(t, acc.Unlocking)

	_, code = httpGet(t, ts.URL+"/accounts/not-an-address")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTransfer(t *testing.T) {
	ts := newServer(t)
	carol := thor.BytesToAddress([]byte("carol"))

	body, code := httpPost(t, ts.URL+"/accounts/"+testnode.Alice.String()+"/transfer", accounts.TransferRequest{To: &carol, Amount: 400})
	require.Equal(t, http.StatusOK, code, string(body))

	var acc accounts.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, uint64(9_600), acc.Balance)

	body, code = httpGet(t, ts.URL+"/accounts/"+carol.String())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, uint64(400), acc.Balance)

	// more than the spendable balance
	_, code = httpPost(t, ts.URL+"/accounts/"+carol.String()+"/transfer", accounts.TransferRequest{To: &carol, Amount: 401})
	assert.Equal(t, http.StatusConflict, code)

	_, code = httpPost(t, ts.URL+"/accounts/"+carol.String()+"/transfer", map[string]any{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/accounts/"+carol.String()+"/transfer", map[string]any{"amount": 1, "memo": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
}
