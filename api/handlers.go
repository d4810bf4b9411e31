package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pedronavarrovera/amo/codec"
	"github.com/pedronavarrovera/amo/cycle"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/dijkstra"
	"github.com/pedronavarrovera/amo/merge"
	"github.com/pedronavarrovera/amo/report"
	"github.com/pedronavarrovera/amo/settlement"
)

// DefaultMaxCycles bounds cycle enumeration per analyze request. Dense
// networks have exponentially many cycles.
const DefaultMaxCycles = 1000

// Handlers contains the HTTP handlers. Every request decodes its own network,
// so handlers share no mutable state.
type Handlers struct {
	logger    *slog.Logger
	metrics   *Metrics
	gatherer  prometheus.Gatherer
	autoPad   bool
	maxCycles int
}

// Option configures Handlers.
type Option func(*Handlers)

// WithLogger sets the base logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRegistry registers the request metrics on reg and serves reg on
// /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(h *Handlers) {
		if reg != nil {
			h.metrics = NewMetrics(reg)
			h.gatherer = reg
		}
	}
}

// WithAutoPad sets the merge default for requests without allow_autopad.
func WithAutoPad(on bool) Option {
	return func(h *Handlers) { h.autoPad = on }
}

// WithMaxCycles sets the enumeration cap used when a request sends none.
func WithMaxCycles(n int) Option {
	return func(h *Handlers) {
		if n >= 0 {
			h.maxCycles = n
		}
	}
}

// NewHandlers creates the handlers. Without WithRegistry metrics are not
// recorded and /metrics serves an empty registry.
func NewHandlers(opts ...Option) *Handlers {
	h := &Handlers{
		logger:    slog.Default(),
		gatherer:  prometheus.NewRegistry(),
		autoPad:   true,
		maxCycles: DefaultMaxCycles,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleAnalyze handles POST /v1/analyze.
//
// Description:
//
//	Returns every party's position, the four insights, all simple cycles
//	with their bottlenecks and the net-balance settlement plan. The network
//	is not modified.
//
// Responses:
//
//	200: AnalyzeResponse
//	400: invalid body or matrix
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleAnalyze")

	var req AnalyzeRequest
	if !h.bind(c, logger, &req) {
		return
	}
	nw, err := req.network()
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	limit := req.MaxCycles
	if limit == 0 {
		limit = h.maxCycles
	}
	a, err := report.Analyze(nw, cycle.WithMaxCycles(limit), cycle.WithContext(c.Request.Context()))
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	resp := AnalyzeResponse{
		Nodes:     nw.Names.List(),
		Balances:  balanceRows(a.Balances, nw.Names),
		Cycles:    make([]CycleView, len(a.Cycles)),
		Truncated: a.Truncated,
		Plan:      transferViews(a.Plan, nw.Names),
	}
	if a.Balances.Len() > 0 {
		resp.Insights = &Insights{
			MostOwedTo:  ranked(a.Summary.MostOwedTo, nw.Names),
			OwesMost:    ranked(a.Summary.OwesMost, nw.Names),
			TopCreditor: ranked(a.Summary.TopCreditor, nw.Names),
			TopDebtor:   ranked(a.Summary.TopDebtor, nw.Names),
		}
	}
	for i, w := range a.Cycles {
		resp.Cycles[i] = cycleView(w.Cycle, w.Bottleneck, nw.Names)
	}

	logger.Info("Analyzed network",
		slog.Int("nodes", nw.Size()),
		slog.Int("cycles", len(a.Cycles)),
		slog.Bool("truncated", a.Truncated))
	c.JSON(http.StatusOK, resp)
}

// HandleShortestBack handles POST /v1/cycles/shortest-back.
//
// Description:
//
//	Closes the debt From owes To with the cheapest way back from To to From
//	and returns that cycle, its bottleneck and the condonation notice. The
//	network is not modified.
//
// Responses:
//
//	200: ShortestBackResponse
//	400: invalid body or matrix
//	404: unknown party
//	422: no direct debt, or no way back
func (h *Handlers) HandleShortestBack(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleShortestBack")

	var req PairRequest
	if !h.bind(c, logger, &req) {
		return
	}
	nw, err := req.network()
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	ring, err := cycle.ShortestBackByName(nw.Matrix, nw.Names, req.From, req.To)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	plan, err := settlement.ForCycle(nw.Matrix, ring)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	amount := plan[0].Amount
	msg, err := report.CondonationMessage(ring, nw.Names, amount)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	cs := settlement.Condonations(plan)
	resp := ShortestBackResponse{
		Cycle:        cycleView(ring, amount, nw.Names),
		Condonations: make([]CondonationView, len(cs)),
		Message:      msg,
	}
	for i, cd := range cs {
		resp.Condonations[i] = CondonationView{
			Creditor: nw.Names.NameOr(cd.Creditor),
			Debtor:   nw.Names.NameOr(cd.Debtor),
			Amount:   cd.Amount,
		}
	}

	logger.Info("Found cycle", slog.Int("length", ring.Len()), slog.Int64("bottleneck", amount))
	c.JSON(http.StatusOK, resp)
}

// HandleApply handles POST /v1/cycles/apply.
//
// Description:
//
//	Finds the same cycle as HandleShortestBack, subtracts its bottleneck
//	from every edge and returns the updated network, also as a Base64 code.
//
// Responses:
//
//	200: ApplyResponse
//	400: invalid body or matrix
//	404: unknown party
//	422: no direct debt, no way back, or an invalid cycle
func (h *Handlers) HandleApply(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleApply")

	var req PairRequest
	if !h.bind(c, logger, &req) {
		return
	}
	nw, err := req.network()
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	ring, plan, err := settlement.ApplyShortestBack(nw.Matrix, nw.Names, req.From, req.To)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	code, err := codec.EncodeBase64(nw, codec.FormList)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	amount := plan[0].Amount
	logger.Info("Applied cycle", slog.Int("length", ring.Len()), slog.Int64("amount", amount))
	c.JSON(http.StatusOK, ApplyResponse{
		Cycle:     cycleView(ring, amount, nw.Names),
		Transfers: transferViews(plan, nw.Names),
		Nodes:     nw.Names.List(),
		Matrix:    nw.Matrix.Rows(),
		Code:      code,
	})
}

// HandleSettlements handles POST /v1/settlements.
//
// Responses:
//
//	200: SettlementResponse (the net-balance plan)
//	400: invalid body or matrix
func (h *Handlers) HandleSettlements(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleSettlements")

	var req NetworkRequest
	if !h.bind(c, logger, &req) {
		return
	}
	nw, err := req.network()
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	plan := settlement.NetBalance(nw.Matrix)
	logger.Info("Planned settlement", slog.Int("transfers", len(plan)))
	c.JSON(http.StatusOK, SettlementResponse{
		Transfers: transferViews(plan, nw.Names),
		Total:     plan.Total(),
	})
}

// HandlePaths handles POST /v1/paths.
//
// Description:
//
//	Routes from Source to Target, or to every other party when Target is
//	empty. Unreachable parties are reported with reachable=false.
//
// Responses:
//
//	200: PathsResponse
//	400: invalid body or matrix
//	404: unknown party
func (h *Handlers) HandlePaths(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandlePaths")

	var req PathsRequest
	if !h.bind(c, logger, &req) {
		return
	}
	nw, err := req.network()
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	src, err := nw.Resolve(req.Source)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	var opts []dijkstra.Option
	if req.MaxDistance > 0 {
		opts = append(opts, dijkstra.WithMaxDistance(req.MaxDistance))
	}

	var results []dijkstra.Result
	if req.Target != "" {
		dst, err := nw.Resolve(req.Target)
		if err != nil {
			h.fail(c, logger, err)
			return
		}
		res, err := dijkstra.To(nw.Matrix, src, dst, opts...)
		if err != nil && !errors.Is(err, dijkstra.ErrUnreachable) {
			h.fail(c, logger, err)
			return
		}
		results = []dijkstra.Result{res}
	} else {
		tree, err := dijkstra.From(nw.Matrix, src, opts...)
		if err != nil {
			h.fail(c, logger, err)
			return
		}
		results = tree.Results()
	}

	resp := PathsResponse{Source: nw.Names.NameOr(src), Paths: make([]PathView, len(results))}
	for i, r := range results {
		v := PathView{Target: nw.Names.NameOr(r.Target), Reachable: r.Reachable}
		if r.Reachable {
			d := r.Distance
			v.Distance = &d
			v.Path = namePath(r.Path, nw.Names)
		}
		resp.Paths[i] = v
	}

	logger.Info("Routed", slog.String("source", resp.Source), slog.Int("targets", len(results)))
	c.JSON(http.StatusOK, resp)
}

// HandleMerge handles POST /v1/merge.
//
// Description:
//
//	Places A and B on the diagonal of one network joined by a single
//	bridge debt from A's first party to B's first party. Undersized inputs
//	are zero-padded unless auto-padding is off.
//
// Responses:
//
//	200: MergeResponse
//	400: invalid body, a matrix that cannot be padded, or an empty side
func (h *Handlers) HandleMerge(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleMerge")

	var req MergeRequest
	if !h.bind(c, logger, &req) {
		return
	}
	ra, err := req.A.raw()
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	rb, err := req.B.raw()
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	autoPad := h.autoPad
	if req.AllowAutoPad != nil {
		autoPad = *req.AllowAutoPad
	}
	res, err := merge.MergeRaw(
		merge.Input{Rows: ra.Rows, Names: ra.Names},
		merge.Input{Rows: rb.Rows, Names: rb.Names},
		merge.WithAutoPad(autoPad),
	)
	if err != nil {
		h.fail(c, logger, err)
		return
	}
	code, err := codec.EncodeBase64(res.Network, codec.FormMap)
	if err != nil {
		h.fail(c, logger, err)
		return
	}

	logger.Info("Merged networks",
		slog.Int("a", res.Sizes.A),
		slog.Int("b", res.Sizes.B),
		slog.Int("padded_rows", res.Padding.A.AddedRows+res.Padding.B.AddedRows))
	c.JSON(http.StatusOK, MergeResponse{
		Nodes:   res.Network.Names.List(),
		Matrix:  res.Network.Matrix.Rows(),
		Sizes:   res.Sizes,
		Padding: res.Padding,
		Code:    code,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// bind decodes the JSON body into req and answers 400 on failure.
func (h *Handlers) bind(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return false
	}

	return true
}

// fail maps err onto a status and a stable error code.
func (h *Handlers) fail(c *gin.Context, logger *slog.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Request rejected", slog.String("code", code), slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, debtmatrix.ErrNodeNotFound):
		return http.StatusNotFound, "NODE_NOT_FOUND"
	case errors.Is(err, debtmatrix.ErrValidation):
		return http.StatusBadRequest, "INVALID_MATRIX"
	case errors.Is(err, cycle.ErrNoDirectEdge):
		return http.StatusUnprocessableEntity, "NO_DIRECT_EDGE"
	case errors.Is(err, cycle.ErrNoPath), errors.Is(err, dijkstra.ErrUnreachable):
		return http.StatusUnprocessableEntity, "NO_PATH"
	case errors.Is(err, cycle.ErrInvalidCycle):
		return http.StatusUnprocessableEntity, "INVALID_CYCLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// getOrCreateRequestID echoes X-Request-ID or mints one.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

func cycleView(c cycle.Cycle, bottleneck int64, names *debtmatrix.Names) CycleView {
	return CycleView{
		Nodes:      c.Names(names),
		Indices:    append([]int(nil), c...),
		Bottleneck: bottleneck,
	}
}

func transferViews(s settlement.Settlement, names *debtmatrix.Names) []TransferView {
	out := make([]TransferView, len(s))
	for i, t := range s {
		out[i] = TransferView{From: names.NameOr(t.From), To: names.NameOr(t.To), Amount: t.Amount}
	}

	return out
}
