package exam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"medicquiz/internal/app/apiresp"
	"medicquiz/internal/quiz"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc examService
}

type examService interface {
	ListTests(ctx context.Context) ([]TestSummary, error)
	GetTest(ctx context.Context, number int) (*TestView, error)
	Score(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error)
}

func NewHandler(svc examService) *Handler {
	return &Handler{svc: svc}
}

type response struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Code  string      `json:"code,omitempty"`
	Error string      `json:"error,omitempty"`
}

// maxScoreBody bounds a score request. A full submission of 160 questions
// with every letter marked encodes to well under 16 KiB.
const maxScoreBody = 64 << 10

type scoreRequest struct {
	Answers map[string][]string `json:"answers"`
}

func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTests(r.Context())
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError, response{OK: false, Error: "internal error"})
		return
	}
	writeJSON(w, r, http.StatusOK, response{OK: true, Data: items})
}

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	number, ok := testNumberParam(w, r)
	if !ok {
		return
	}
	item, err := h.svc.GetTest(r.Context(), number)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response{OK: true, Data: item})
}

func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	number, ok := testNumberParam(w, r)
	if !ok {
		return
	}

	answers, err := decodeAnswers(w, r)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, response{OK: false, Error: "invalid request body"})
		return
	}

	result, err := h.svc.Score(r.Context(), number, answers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, response{OK: true, Data: result})
}

// decodeAnswers accepts a JSON body or a classic form post where every
// checkbox is named after its question key.
func decodeAnswers(w http.ResponseWriter, r *http.Request) (map[string][]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScoreBody)
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return map[string][]string(r.PostForm), nil
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.Answers == nil {
		req.Answers = map[string][]string{}
	}
	return req.Answers, nil
}

func testNumberParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		writeJSON(w, r, http.StatusBadRequest, response{OK: false, Error: "invalid test number"})
		return 0, false
	}
	return number, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTestNotFound):
		writeJSON(w, r, http.StatusNotFound, response{OK: false, Code: apiresp.CodeTestNotFound, Error: "test not found"})
	case errors.Is(err, ErrInvalidSubmission):
		writeJSON(w, r, http.StatusBadRequest, response{OK: false, Code: apiresp.CodeInvalidSubmission, Error: err.Error()})
	case errors.Is(err, ErrDataIntegrity):
		writeJSON(w, r, http.StatusInternalServerError, response{OK: false, Code: apiresp.CodeDataIntegrity, Error: "test data is inconsistent: " + err.Error()})
	default:
		writeJSON(w, r, http.StatusInternalServerError, response{OK: false, Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload response) {
	if payload.OK {
		apiresp.WriteOK(w, r, code, payload.Data)
		return
	}
	apiresp.WriteErrorCode(w, r, code, payload.Code, payload.Error)
}
