package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/fadedpez/blackjackev/internal/types"
	"github.com/fadedpez/blackjackev/pkg/entities"
	"github.com/fadedpez/blackjackev/pkg/report"
	"github.com/fadedpez/blackjackev/pkg/services/ev"
	"github.com/fadedpez/blackjackev/pkg/services/strategy"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// EVResponse is the analysis of one player hand against one up-card.
// A nil EV means the action is not available.
type EVResponse struct {
	Player        string              `json:"player"`
	Upcard        string              `json:"upcard"`
	DealerChecked bool                `json:"dealer_checked"`
	Rules         entities.Rules      `json:"rules"`
	Actions       map[string]*float64 `json:"actions"`
	Insurance     *float64            `json:"insurance"`
	Optimal       string              `json:"optimal"`
	OptimalEV     float64             `json:"optimal_ev"`
}

// DealerResponse is the distribution of the dealer's final hand
type DealerResponse struct {
	Upcard   string             `json:"upcard"`
	Rules    entities.Rules     `json:"rules"`
	Outcomes map[string]float64 `json:"outcomes"`
}

// JobStatus reports one asynchronous chart generation
type JobStatus struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Progress strategy.Progress `json:"progress"`
	ChartID  string            `json:"chart_id,omitempty"`
	Error    string            `json:"error,omitempty"`

	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Job statuses
const (
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

type job struct {
	mu     sync.Mutex
	status JobStatus
}

func (j *job) snapshot() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *job) update(fn func(*JobStatus)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.status)
}

func evPointer(e ev.EV) *float64 {
	if !e.Available {
		return nil
	}
	v := e.Value
	return &v
}

// GetEV evaluates ?player=10,6&upcard=T[&checked=true] under the request's rules
func (s *Server) GetEV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rules, err := s.rulesFromQuery(q)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	player, err := entities.ParseRanks(q.Get("player"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	upcard, err := entities.ParseRank(q.Get("upcard"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	checked, err := boolParam(q, "checked", false)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	calc, err := s.calculator(rules)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	state, err := calc.NewState(player, upcard, checked)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	result := calc.OptimalStrategy(state)
	response(w, http.StatusOK, EVResponse{
		Player:        state.Player.String(),
		Upcard:        string(upcard),
		DealerChecked: checked,
		Rules:         rules,
		Actions: map[string]*float64{
			ev.ActionHit.String():       evPointer(result.Hit),
			ev.ActionStand.String():     evPointer(result.Stand),
			ev.ActionDouble.String():    evPointer(result.Double),
			ev.ActionSplit.String():     evPointer(result.Split),
			ev.ActionSurrender.String(): evPointer(result.Surrender),
		},
		Insurance: evPointer(calc.InsuranceEV(state)),
		Optimal:   result.Optimal.String(),
		OptimalEV: result.OptimalEV,
	})
}

// GetDealer returns the dealer distribution for ?upcard=6[&player=10,7][&checked=true]
func (s *Server) GetDealer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rules, err := s.rulesFromQuery(q)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	upcard, err := entities.ParseRank(q.Get("upcard"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var player []entities.Rank
	if p := q.Get("player"); p != "" {
		if player, err = entities.ParseRanks(p); err != nil {
			s.errorResponse(w, err)
			return
		}
	}
	checked, err := boolParam(q, "checked", false)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	calc, err := s.calculator(rules)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	state, err := ev.NewDealerState(upcard, rules.Decks, checked, player...)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	response(w, http.StatusOK, DealerResponse{
		Upcard:   string(upcard),
		Rules:    rules,
		Outcomes: calc.DealerOutcomes(state).Map(),
	})
}

// ListCharts returns stored chart summaries, newest first
func (s *Server) ListCharts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", 0)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	charts, err := s.repo.ListCharts(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, types.WrapError(types.ErrDatabaseError, "failed to list charts", err))
		return
	}
	response(w, http.StatusOK, charts)
}

// GetChart returns one chart with its entries
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetChart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	response(w, http.StatusOK, c)
}

// ExportChart writes a chart in the CSV report format
func (s *Server) ExportChart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := s.repo.GetChart(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "strategy-"+id+".csv"))
	if err := report.WriteCSV(w, c); err != nil {
		s.logger.Error("Error writing chart %s: %v", id, err)
	}
}

// DeleteChart removes a chart
func (s *Server) DeleteChart(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteChart(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateChart starts generating a chart in the background. The body holds
// rules as JSON; absent fields keep the server's rules. Progress is pushed
// over the websocket and can be polled at /api/jobs/{id}.
func (s *Server) GenerateChart(w http.ResponseWriter, r *http.Request) {
	rules := s.rules
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &rules); err != nil {
			s.errorResponse(w, types.WrapError(types.ErrInvalidArgument, "invalid request body", err))
			return
		}
	}
	if err := rules.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}

	j := &job{status: JobStatus{ID: uuid.New().String(), Status: JobRunning}}
	s.mu.Lock()
	s.jobs[j.status.ID] = j
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJob(j, rules)
	}()

	response(w, http.StatusAccepted, j.snapshot())
}

func (s *Server) runJob(j *job, rules entities.Rules) {
	id := j.status.ID
	c, err := s.generator.Generate(s.ctx, rules, func(p strategy.Progress) {
		j.update(func(st *JobStatus) { st.Progress = p })
		s.hub.Broadcast(s.ctx, Message{Type: MessageProgress, Job: id, Data: p})
	})

	finished := s.clock.Now()
	if err != nil {
		j.update(func(st *JobStatus) {
			st.Status = JobFailed
			st.Error = err.Error()
			st.FinishedAt = &finished
		})
		s.logger.LogError(Classify(err))
		s.hub.Broadcast(s.ctx, Message{Type: MessageFailed, Job: id, Data: err.Error()})
		return
	}

	j.update(func(st *JobStatus) {
		st.Status = JobDone
		st.ChartID = c.ID
		st.FinishedAt = &finished
	})
	s.hub.Broadcast(s.ctx, Message{Type: MessageChartReady, Job: id, Data: map[string]string{"chart_id": c.ID}})
}

// GetJob reports the state of a generation job
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	j, ok := s.jobs[mux.Vars(r)["id"]]
	s.mu.Unlock()

	if !ok {
		response(w, http.StatusNotFound, errorBody{Error: "unknown job", Code: types.ErrInvalidArgument})
		return
	}
	response(w, http.StatusOK, j.snapshot())
}

// GetHistory lists indexed entries for ?hand=16&upcard=10 across charts
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		response(w, http.StatusNotImplemented, errorBody{Error: "entry history requires Elasticsearch", Code: types.ErrInvalidArgument})
		return
	}

	q := r.URL.Query()
	limit, err := intParam(q, "limit", 0)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	hand, upcard := q.Get("hand"), q.Get("upcard")
	if hand == "" || upcard == "" {
		s.errorResponse(w, types.NewGameError(types.ErrInvalidArgument, "hand and upcard are required"))
		return
	}

	docs, err := s.history.EntryHistory(r.Context(), hand, upcard, limit)
	if err != nil {
		s.errorResponse(w, types.WrapError(types.ErrDatabaseError, "failed to search entries", err))
		return
	}
	response(w, http.StatusOK, docs)
}

// rulesFromQuery layers query parameters over the server's rules
func (s *Server) rulesFromQuery(q url.Values) (entities.Rules, error) {
	rules := s.rules
	var err error

	if rules.Decks, err = intParam(q, "decks", rules.Decks); err != nil {
		return rules, err
	}
	if rules.DealerHitsSoft17, err = boolParam(q, "h17", rules.DealerHitsSoft17); err != nil {
		return rules, err
	}
	if rules.DoubleAfterSplit, err = boolParam(q, "das", rules.DoubleAfterSplit); err != nil {
		return rules, err
	}
	if v := q.Get("surrender"); v != "" {
		if rules.Surrender, err = entities.ParseSurrender(v); err != nil {
			return rules, err
		}
	}
	if rules.BlackjackPayout, err = floatParam(q, "bj_payout", rules.BlackjackPayout); err != nil {
		return rules, err
	}
	if rules.InsurancePayout, err = floatParam(q, "insurance_payout", rules.InsurancePayout); err != nil {
		return rules, err
	}
	if rules.CanSplitAces, err = boolParam(q, "split_aces", rules.CanSplitAces); err != nil {
		return rules, err
	}
	if rules.MaxSplits, err = intParam(q, "max_splits", rules.MaxSplits); err != nil {
		return rules, err
	}

	return rules, rules.Validate()
}

var errBadParam = errors.New("bad query parameter")

func badParam(name string, err error) error {
	return types.WrapError(types.ErrInvalidArgument, fmt.Sprintf("invalid %s", name), fmt.Errorf("%w: %v", errBadParam, err))
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, badParam(name, err)
	}
	return n, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, badParam(name, err)
	}
	return f, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, badParam(name, err)
	}
	return b, nil
}
