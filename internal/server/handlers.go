package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/corpus"
	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/recommend"
	"github.com/hyperjump/kuliner/pkg/utils"
)

const maxBrowseLimit = 1000

var errNoEngine = errors.New("recommendation engine not ready")

type recommendRequest struct {
	Query       string `json:"query" validate:"required,max=500"`
	PriceFilter string `json:"price_filter" validate:"omitempty,oneof=all low medium high semua murah sedang mahal"`
	TopN        int    `json:"top_n" validate:"gte=0"`
}

type recommendResponse struct {
	RequestID string `json:"request_id"`
	*models.Recommendation
	QueryTimeMs int64 `json:"query_time_ms"`
	Cached      bool  `json:"cached"`
}

type businessesResponse struct {
	Businesses []*models.Business `json:"businesses"`
	Count      int                `json:"count"`
}

func (s *Server) handleRecommendPost(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "recommend", http.StatusBadRequest, "invalid request body")
		return
	}
	s.recommend(w, req)
}

func (s *Server) handleRecommendGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := recommendRequest{Query: q.Get("q"), PriceFilter: strings.ToLower(q.Get("price"))}
	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, "recommend", http.StatusBadRequest, "top_n must be an integer")
			return
		}
		req.TopN = n
	}
	s.recommend(w, req)
}

func (s *Server) recommend(w http.ResponseWriter, req recommendRequest) {
	start := time.Now()
	req.Query = strings.TrimSpace(req.Query)
	req.PriceFilter = strings.ToLower(req.PriceFilter)
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, "recommend", http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := s.validate.Var(req.TopN, fmt.Sprintf("lte=%d", s.search.MaxTopN)); err != nil {
		s.fail(w, "recommend", http.StatusBadRequest, fmt.Sprintf("top_n must be at most %d", s.search.MaxTopN))
		return
	}
	filter, err := models.ParsePriceFilter(req.PriceFilter)
	if err != nil {
		s.fail(w, "recommend", http.StatusBadRequest, err.Error())
		return
	}
	topN := req.TopN
	if topN == 0 {
		topN = s.search.DefaultTopN
	}

	resp := &recommendResponse{RequestID: uuid.NewString()}
	key := cacheKey(req.Query, filter, topN)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.cache.WithLabelValues("hit").Inc()
		// the key folds case and spacing; echo this caller's query
		cp := *v.(*models.Recommendation)
		cp.Query = req.Query
		resp.Recommendation = &cp
		resp.Cached = true
	} else {
		s.metrics.cache.WithLabelValues("miss").Inc()
		e := s.holder.Load()
		if e == nil {
			s.respondErr(w, "recommend", errNoEngine)
			return
		}
		rec, err := e.Recommend(req.Query, filter, topN)
		if err != nil {
			s.logger.Error("recommend failed", zap.String("query", req.Query), zap.Error(err))
			s.respondErr(w, "recommend", err)
			return
		}
		s.cacheIfCurrent(key, e, rec)
		if rec.WarningKind != "" {
			s.metrics.warnings.WithLabelValues(rec.WarningKind).Inc()
		}
		resp.Recommendation = rec
	}

	resp.QueryTimeMs = time.Since(start).Milliseconds()
	s.metrics.latency.Observe(time.Since(start).Seconds())
	s.logger.Debug("recommend request",
		zap.String("request_id", resp.RequestID),
		zap.String("query", req.Query),
		zap.Int("results", len(resp.Results)),
		zap.Bool("cached", resp.Cached))
	s.succeed(w, "recommend", resp)
}

// cacheIfCurrent stores rec unless a swap replaced e while it was ranking; OnSwap has
// already flushed the cache by then.
func (s *Server) cacheIfCurrent(key string, e *recommend.Engine, rec *models.Recommendation) {
	if s.holder.Load() != e {
		return
	}
	s.cache.SetDefault(key, rec)
}

func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	e := s.holder.Load()
	if e == nil {
		s.respondErr(w, "businesses", errNoEngine)
		return
	}
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, "businesses", http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = utils.Clamp(n, 0, maxBrowseLimit)
	}

	var (
		out []*models.Business
		err error
	)
	switch {
	case q.Get("category") != "":
		out, err = e.FilterByCategory(q.Get("category"), limit)
	case q.Get("price") != "":
		out, err = e.FilterByPrice(q.Get("price"))
	case q.Get("location") != "":
		out, err = e.FilterByLocation(q.Get("location"))
	default:
		s.fail(w, "businesses", http.StatusBadRequest, "one of category, price or location is required")
		return
	}
	if err != nil {
		s.respondErr(w, "businesses", err)
		return
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	s.succeed(w, "businesses", businessesResponse{Businesses: out, Count: len(out)})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	e := s.holder.Load()
	if e == nil {
		s.respondErr(w, "categories", errNoEngine)
		return
	}
	s.succeed(w, "categories", map[string]interface{}{"categories": e.Categories()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	e := s.holder.Load()
	if e == nil {
		s.respondErr(w, "stats", errNoEngine)
		return
	}
	s.succeed(w, "stats", map[string]interface{}{
		"stats":  e.Stats(),
		"engine": e.Info(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	e := s.holder.Load()
	if e == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "records": e.Len()})
}

func (s *Server) succeed(w http.ResponseWriter, route string, data interface{}) {
	s.metrics.requests.WithLabelValues(route, "ok").Inc()
	s.respondJSON(w, http.StatusOK, data)
}

func (s *Server) fail(w http.ResponseWriter, route string, status int, message string) {
	s.metrics.requests.WithLabelValues(route, outcome(status)).Inc()
	s.respondError(w, status, message)
}

// respondErr maps engine errors to a status: input errors are 400, a missing engine
// is 503, everything else 500.
func (s *Server) respondErr(w http.ResponseWriter, route string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, recommend.ErrEmptyQuery), errors.Is(err, recommend.ErrInvalidTopN), errors.Is(err, corpus.ErrEmptyFilter):
		status = http.StatusBadRequest
	case errors.Is(err, errNoEngine):
		status = http.StatusServiceUnavailable
	}
	s.fail(w, route, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func outcome(status int) string {
	switch {
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status >= 500:
		return "error"
	case status >= 400:
		return "bad_request"
	default:
		return "ok"
	}
}

func cacheKey(query string, filter models.PriceFilter, topN int) string {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("%s|%s|%d", q, filter, topN)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", jsonName(fe.Field())))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", jsonName(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", jsonName(fe.Field()), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

func jsonName(field string) string {
	switch field {
	case "Query":
		return "query"
	case "PriceFilter":
		return "price_filter"
	case "TopN":
		return "top_n"
	default:
		return strings.ToLower(field)
	}
}
