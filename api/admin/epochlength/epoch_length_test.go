// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochlength

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/capacity/test/testnode"
)

const token = "secret"

func TestEpochLength(t *testing.T) {
	n, err := testnode.New()
	require.NoError(t, err)
	router := mux.NewRouter()
	New(n, token).Mount(router, "/admin/epoch-length")

	serve := func(method, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, "/admin/epoch-length", &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}
	length := func(v uint32) *uint32 { return &v }

	rr := serve(http.MethodGet, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var res Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, Response{Length: 5, MaxLength: 100}, res)

	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, "", Request{Length: length(7)}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, "nope", Request{Length: length(7)}).Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPost, token, map[string]any{}).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(http.MethodPost, token, Request{Length: length(101)}).Code)

	rr = serve(http.MethodPost, token, Request{Length: length(7)})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, uint32(7), res.Length)
}
