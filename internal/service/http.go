package service

import (
	"net/http"
	"strconv"
	"time"

	"cascade/encoding"
	"cascade/internal/biz"

	"github.com/yola1107/kratos/v2/errors"
)

type requestReply struct {
	RequestID string `json:"request_id"`
}

type sequenceReply struct {
	Seed     uint64                  `json:"seed"`
	Cascades int                     `json:"cascades"`
	Score    string                  `json:"score"`
	Steps    []encoding.RoundPayload `json:"steps"`
}

type roundView struct {
	RequestID  string    `json:"request_id"`
	SequenceID string    `json:"sequence_id"`
	Step       int       `json:"step"`
	Matrix     []string  `json:"matrix"`
	Combine    []string  `json:"combine,omitempty"`
	Score      string    `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// HandleRequestRound serves POST /v1/round/request.
func (s *RoundService) HandleRequestRound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	id, err := s.RequestNextRound(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, requestReply{RequestID: id})
}

// HandleSequence serves GET /v1/sequence?seed=N.
func (s *RoundService) HandleSequence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	seed, err := strconv.ParseUint(r.URL.Query().Get("seed"), 10, 64)
	if err != nil {
		writeError(w, errors.BadRequest("INVALID_ARGUMENT", "seed must be an unsigned integer"))
		return
	}
	seq, err := s.Sequence(seed)
	if err != nil {
		writeError(w, err)
		return
	}
	total := biz.TotalScore(nil)
	for _, step := range seq {
		total = total.Add(biz.TotalScore(step.Matches))
	}
	writeJSON(w, http.StatusOK, sequenceReply{
		Seed:     seed,
		Cascades: seq.Cascades(),
		Score:    total.StringFixed(2),
		Steps:    seq.Payloads(),
	})
}

// HandleRecent serves GET /v1/rounds?limit=N.
func (s *RoundService) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errors.BadRequest("INVALID_ARGUMENT", "limit must be an integer"))
			return
		}
		limit = n
	}
	rounds, err := s.Recent(r.Context(), limit)
	if err != nil {
		s.log.WithContext(r.Context()).Errorf("list rounds: %v", err)
		writeError(w, errors.InternalServer("STORE_ERROR", "failed to list rounds"))
		return
	}
	out := make([]roundView, 0, len(rounds))
	for _, rd := range rounds {
		out = append(out, roundView{
			RequestID:  rd.RequestID,
			SequenceID: rd.SequenceID,
			Step:       rd.Step,
			Matrix:     rd.Payload.Matrix,
			Combine:    rd.Payload.Combine,
			Score:      rd.Score.StringFixed(2),
			CreatedAt:  rd.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(encoding.ToJson(v)))
}

func writeError(w http.ResponseWriter, err error) {
	e := errors.FromError(err)
	writeJSON(w, int(e.Code), map[string]any{
		"error": map[string]any{
			"code":    e.Reason,
			"message": e.Message,
		},
	})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, errors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use "+allow))
}
