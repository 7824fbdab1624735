package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillerhq/tiller/dataset"
	"github.com/tillerhq/tiller/engine"
	"github.com/tillerhq/tiller/translator"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(context.Context, translator.GenerateRequest) (string, error) {
	g.calls++
	return g.reply, g.err
}

func fleet() *dataset.Table {
	return dataset.FromRows([]string{"Nome della barca", "price", "brand"}, []map[string]any{
		{"Nome della barca": "Azimut Flybridge 50", "price": 680000.0, "brand": "Azimut"},
		{"Nome della barca": "Ferretti 450", "price": 449999.99, "brand": "Ferretti"},
		{"Nome della barca": "Ferretti Yachts 500", "price": 520000.0, "brand": "Ferretti"},
	})
}

func newTestServer(t *testing.T, gen translator.Generator) *Server {
	t.Helper()
	eng, err := engine.New(fleet(), engine.WithGenerator(gen))
	require.NoError(t, err)
	return New(eng, ":0")
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeIDs(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	var reply struct {
		IDs []any `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	return reply.IDs
}

func TestBoatsGet(t *testing.T) {
	gen := &stubGenerator{reply: `df.filter(col('brand') == 'Ferretti')`}
	s := newTestServer(t, gen)

	rec := doRequest(t, s, http.MethodGet, "/api/boats?query=ferretti+boats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{0.0, 1.0}, decodeIDs(t, rec), "ids are synthesized over the result rows")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestBoatsGetShortParam(t *testing.T) {
	gen := &stubGenerator{reply: `df.head(1)`}
	s := newTestServer(t, gen)

	rec := doRequest(t, s, http.MethodGet, "/api/boats?q=any+boat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{0.0}, decodeIDs(t, rec))
}

func TestBoatsPost(t *testing.T) {
	gen := &stubGenerator{reply: `df.filter(col('price') > 600000)`}
	s := newTestServer(t, gen)

	rec := doRequest(t, s, http.MethodPost, "/api/boats", `{"query": "expensive boats"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{0.0}, decodeIDs(t, rec))
}

func TestBoatsMissingQuery(t *testing.T) {
	gen := &stubGenerator{reply: `df.head(5)`}
	s := newTestServer(t, gen)

	for _, tc := range []struct {
		method, target, body string
	}{
		{http.MethodGet, "/api/boats", ""},
		{http.MethodPost, "/api/boats", `{}`},
		{http.MethodPost, "/api/boats", `{"query": "   "}`},
	} {
		rec := doRequest(t, s, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "query is required")
	}
	assert.Zero(t, gen.calls, "bad requests never reach the generator")
}

func TestBoatsInvalidJSON(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: `df.head(5)`})

	rec := doRequest(t, s, http.MethodPost, "/api/boats", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON body")
}

func TestBoatsGenerationFailure(t *testing.T) {
	s := newTestServer(t, &stubGenerator{err: errors.New("service down")})

	rec := doRequest(t, s, http.MethodGet, "/api/boats?query=boats", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "service down")
}

func TestBoatsExhaustedRetriesIsEmptyList(t *testing.T) {
	s := newTestServer(t, &stubGenerator{reply: `broken(((`})

	rec := doRequest(t, s, http.MethodGet, "/api/boats?query=boats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeIDs(t, rec))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := doRequest(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reply map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "ok", reply["status"])
	assert.Equal(t, 3.0, reply["rows"])
}
