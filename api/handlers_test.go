package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const fourPartyJSON = `{
	"nodes": ["Pedro", "Pilar", "Andrea", "David"],
	"matrix": [[0,10,0,0],[0,0,20,0],[0,0,0,30],[40,0,0,0]]
}`

// setupTestRouter builds the full engine with a private registry.
func setupTestRouter(opts ...Option) (*gin.Engine, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandlers(append([]Option{WithLogger(logger), WithRegistry(reg)}, opts...)...)

	return NewRouter(h), reg
}

func post(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

// withFields merges extra top-level fields into the four-party body.
func withFields(t *testing.T, extra map[string]any) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(fourPartyJSON), &body))
	for k, v := range extra {
		body[k] = v
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)

	return string(data)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())

	return out
}

func TestHandleHealth(t *testing.T) {
	router, _ := setupTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "ok", decode[HealthResponse](t, w).Status)
}

func TestHandleAnalyze(t *testing.T) {
	router, _ := setupTestRouter()
	w := post(t, router, "/v1/analyze", fourPartyJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	resp := decode[AnalyzeResponse](t, w)
	assert.Equal(t, []string{"Pedro", "Pilar", "Andrea", "David"}, resp.Nodes)
	assert.Equal(t, BalanceRow{Name: "Pedro", Owes: 10, IsOwed: 40, NetBalance: 30}, resp.Balances[0])
	require.NotNil(t, resp.Insights)
	assert.Equal(t, Ranked{Name: "Pedro", Amount: 30}, resp.Insights.TopCreditor)
	assert.Equal(t, Ranked{Name: "David", Amount: 40}, resp.Insights.OwesMost)

	require.Len(t, resp.Cycles, 1)
	assert.Equal(t, []string{"Pedro", "Pilar", "Andrea", "David"}, resp.Cycles[0].Nodes)
	assert.EqualValues(t, 10, resp.Cycles[0].Bottleneck)
	assert.False(t, resp.Truncated)
	assert.Equal(t, []TransferView{
		{From: "Pilar", To: "Pedro", Amount: 10},
		{From: "Andrea", To: "Pedro", Amount: 10},
		{From: "David", To: "Pedro", Amount: 10},
	}, resp.Plan)
}

func TestHandleAnalyze_MapNamesAndLimit(t *testing.T) {
	router, _ := setupTestRouter()
	body := `{"nodes": {"0": "A", "1": "B", "2": "C"},
		"matrix": [[0,1,1],[1,0,1],[1,1,0]], "max_cycles": 2}`
	w := post(t, router, "/v1/analyze", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[AnalyzeResponse](t, w)
	assert.Equal(t, []string{"A", "B", "C"}, resp.Nodes)
	assert.Len(t, resp.Cycles, 2)
	assert.True(t, resp.Truncated)
}

func TestHandleAnalyze_Code(t *testing.T) {
	router, _ := setupTestRouter()
	code := base64.StdEncoding.EncodeToString([]byte(fourPartyJSON))
	w := post(t, router, "/v1/analyze", `{"code": "`+code+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[AnalyzeResponse](t, w).Cycles, 1)
}

func TestHandleAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"not json", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"no matrix", `{"nodes": ["A"]}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"negative", `{"matrix": [[0,-1],[0,0]]}`, http.StatusBadRequest, "INVALID_MATRIX"},
		{"fractional", `{"matrix": [[0,1.5],[0,0]]}`, http.StatusBadRequest, "INVALID_MATRIX"},
		{"ragged", `{"matrix": [[0,1],[0]]}`, http.StatusBadRequest, "INVALID_MATRIX"},
		{"names mismatch", `{"nodes": ["A"], "matrix": [[0,1],[0,0]]}`, http.StatusBadRequest, "INVALID_MATRIX"},
		{"bad code", `{"code": "***"}`, http.StatusBadRequest, "INVALID_MATRIX"},
	}

	router, _ := setupTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, "/v1/analyze", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestHandleShortestBack(t *testing.T) {
	router, _ := setupTestRouter()
	w := post(t, router, "/v1/cycles/shortest-back", withFields(t, map[string]any{"from": "Pedro", "to": "Pilar"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ShortestBackResponse](t, w)
	assert.Equal(t, []int{0, 1, 2, 3}, resp.Cycle.Indices)
	assert.EqualValues(t, 10, resp.Cycle.Bottleneck)
	require.Len(t, resp.Condonations, 4)
	assert.Equal(t, CondonationView{Creditor: "Pilar", Debtor: "Pedro", Amount: 10}, resp.Condonations[0])
	assert.NotEmpty(t, resp.Message.Subject)
	assert.Contains(t, resp.Message.Body, "Pedro → Pilar → Andrea → David → Pedro")
}

func TestHandleShortestBack_Errors(t *testing.T) {
	tests := []struct {
		name   string
		extra  map[string]any
		status int
		code   string
	}{
		{"missing to", map[string]any{"from": "Pedro"}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown name", map[string]any{"from": "Pedro", "to": "Nobody"}, http.StatusNotFound, "NODE_NOT_FOUND"},
		{"no direct edge", map[string]any{"from": "Pilar", "to": "Pedro"}, http.StatusUnprocessableEntity, "NO_DIRECT_EDGE"},
		{"same party", map[string]any{"from": "Pedro", "to": "Pedro"}, http.StatusUnprocessableEntity, "INVALID_CYCLE"},
	}

	router, _ := setupTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, "/v1/cycles/shortest-back", withFields(t, tt.extra))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Code)
		})
	}
}

func TestHandleShortestBack_NoPath(t *testing.T) {
	router, _ := setupTestRouter()
	body := `{"nodes": ["A", "B"], "matrix": [[0,5],[0,0]], "from": "A", "to": "B"}`
	w := post(t, router, "/v1/cycles/shortest-back", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "NO_PATH", decode[ErrorResponse](t, w).Code)
}

func TestHandleApply(t *testing.T) {
	router, _ := setupTestRouter()
	w := post(t, router, "/v1/cycles/apply", withFields(t, map[string]any{"from": "Pedro", "to": "Pilar"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ApplyResponse](t, w)
	assert.Equal(t, [][]int64{
		{0, 0, 0, 0},
		{0, 0, 10, 0},
		{0, 0, 0, 20},
		{30, 0, 0, 0},
	}, resp.Matrix)
	assert.Len(t, resp.Transfers, 4)

	// The returned code is the updated network: applying again finds no
	// Pedro → Pilar debt.
	again := post(t, router, "/v1/cycles/apply", `{"code": "`+resp.Code+`", "from": "Pedro", "to": "Pilar"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, again.Code)
	assert.Equal(t, "NO_DIRECT_EDGE", decode[ErrorResponse](t, again).Code)
}

func TestHandleSettlements(t *testing.T) {
	router, _ := setupTestRouter()
	w := post(t, router, "/v1/settlements", fourPartyJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SettlementResponse](t, w)
	assert.Len(t, resp.Transfers, 3)
	assert.EqualValues(t, 30, resp.Total)
}

func TestHandlePaths(t *testing.T) {
	router, _ := setupTestRouter()

	t.Run("all targets", func(t *testing.T) {
		w := post(t, router, "/v1/paths", withFields(t, map[string]any{"source": "Pilar"}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[PathsResponse](t, w)
		assert.Equal(t, "Pilar", resp.Source)
		require.Len(t, resp.Paths, 3)
		assert.Equal(t, "Pedro", resp.Paths[0].Target)
		require.NotNil(t, resp.Paths[0].Distance)
		assert.EqualValues(t, 90, *resp.Paths[0].Distance)
		assert.Equal(t, []string{"Pilar", "Andrea", "David", "Pedro"}, resp.Paths[0].Path)
	})

	t.Run("single target", func(t *testing.T) {
		w := post(t, router, "/v1/paths", withFields(t, map[string]any{"source": "Pedro", "target": "Andrea"}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[PathsResponse](t, w)
		require.Len(t, resp.Paths, 1)
		assert.True(t, resp.Paths[0].Reachable)
		assert.EqualValues(t, 30, *resp.Paths[0].Distance)
	})

	t.Run("capped", func(t *testing.T) {
		w := post(t, router, "/v1/paths", withFields(t, map[string]any{
			"source": "Pedro", "target": "David", "max_distance": 20,
		}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[PathsResponse](t, w)
		assert.False(t, resp.Paths[0].Reachable)
		assert.Nil(t, resp.Paths[0].Distance)
	})

	t.Run("unknown source", func(t *testing.T) {
		w := post(t, router, "/v1/paths", withFields(t, map[string]any{"source": "Nobody"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleMerge(t *testing.T) {
	router, _ := setupTestRouter()
	body := `{
		"a": {"nodes": ["A0", "A1"], "matrix": [[0,3],[4,0]]},
		"b": {"nodes": ["B0", "B1", "B2"], "matrix": [[0,1],[2,0]]}
	}`
	w := post(t, router, "/v1/merge", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[MergeResponse](t, w)
	assert.Equal(t, []string{"A0", "A1", "B0", "B1", "B2"}, resp.Nodes)
	assert.Equal(t, [][]int64{
		{0, 3, 1, 0, 0},
		{4, 0, 0, 0, 0},
		{0, 0, 0, 1, 0},
		{0, 0, 2, 0, 0},
		{0, 0, 0, 0, 0},
	}, resp.Matrix)
	assert.Equal(t, 5, resp.Sizes.D)
	assert.Equal(t, 1, resp.Padding.B.AddedRows)

	// The merged code carries the names keyed by index.
	raw, err := base64.StdEncoding.DecodeString(resp.Code)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"nodes":{"0":"A0","1":"A1","2":"B0","3":"B1","4":"B2"}`)
}

func TestHandleMerge_AutoPadOff(t *testing.T) {
	body := `{
		"a": {"nodes": ["A0"], "matrix": [[0]]},
		"b": {"nodes": ["B0", "B1"], "matrix": [[0,1]]}
	}`

	router, _ := setupTestRouter(WithAutoPad(false))
	w := post(t, router, "/v1/merge", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_MATRIX", decode[ErrorResponse](t, w).Code)

	// The request flag overrides the server setting.
	w = post(t, router, "/v1/merge", strings.Replace(body, "{", `{"allow_autopad": true,`, 1))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMetrics(t *testing.T) {
	router, reg := setupTestRouter()
	post(t, router, "/v1/settlements", fourPartyJSON)
	post(t, router, "/v1/settlements", `{`)

	count, err := testutil.GatherAndCount(reg, "amo_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // one series per status

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte(`amo_http_requests_total{method="POST",route="/v1/settlements",status="200"} 1`)))
}
