package exam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"medicquiz/internal/quiz"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExamService struct {
	listTestsFn func(ctx context.Context) ([]TestSummary, error)
	getTestFn   func(ctx context.Context, number int) (*TestView, error)
	scoreFn     func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error)
}

func (m *mockExamService) ListTests(ctx context.Context) ([]TestSummary, error) {
	if m.listTestsFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.listTestsFn(ctx)
}

func (m *mockExamService) GetTest(ctx context.Context, number int) (*TestView, error) {
	if m.getTestFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.getTestFn(ctx, number)
}

func (m *mockExamService) Score(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
	if m.scoreFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.scoreFn(ctx, number, answers)
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestScorePassesJSONAnswers(t *testing.T) {
	var gotNumber int
	var gotAnswers map[string][]string
	h := NewHandler(&mockExamService{
		scoreFn: func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
			gotNumber = number
			gotAnswers = answers
			return &quiz.TestResult{Score: 3, MaxScore: 10}, nil
		},
	})

	body := []byte(`{"answers":{"12-CHEMISTRY":["a","c"]}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/4/score", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withChiParam(req, "number", "4")
	w := httptest.NewRecorder()

	h.Score(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, gotNumber)
	assert.Equal(t, map[string][]string{"12-CHEMISTRY": {"a", "c"}}, gotAnswers)

	env := decodeEnvelope(t, w)
	require.True(t, env.OK)
	var result quiz.TestResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 10, result.MaxScore)
}

func TestScoreAcceptsFormPost(t *testing.T) {
	var gotAnswers map[string][]string
	h := NewHandler(&mockExamService{
		scoreFn: func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
			gotAnswers = answers
			return &quiz.TestResult{}, nil
		},
	})

	form := url.Values{"12-CHEMISTRY": {"a", "c"}, "token": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/4/score", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withChiParam(req, "number", "4")
	w := httptest.NewRecorder()

	h.Score(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a", "c"}, gotAnswers["12-CHEMISTRY"])
}

func TestScoreErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "unknown test", err: ErrTestNotFound, status: http.StatusNotFound, code: "test_not_found"},
		{name: "bad submission", err: ErrInvalidSubmission, status: http.StatusBadRequest, code: "invalid_submission"},
		{name: "missing answer key", err: ErrUnknownSolution, status: http.StatusInternalServerError, code: "data_integrity"},
		{name: "other", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&mockExamService{
				scoreFn: func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
					return nil, tc.err
				},
			})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/score", strings.NewReader(`{"answers":{}}`))
			req = withChiParam(req, "number", "1")
			w := httptest.NewRecorder()

			h.Score(w, req)

			require.Equal(t, tc.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.OK)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestScoreDataIntegrityIsNotAZeroScore(t *testing.T) {
	h := NewHandler(&mockExamService{
		scoreFn: func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
			return nil, ErrUnknownQuestion
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/score", strings.NewReader(`{}`))
	req = withChiParam(req, "number", "1")
	w := httptest.NewRecorder()

	h.Score(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	assert.Empty(t, env.Data)
	assert.Contains(t, env.Error.Message, "inconsistent")
}

func TestScoreRejectsBadInput(t *testing.T) {
	called := false
	h := NewHandler(&mockExamService{
		scoreFn: func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
			called = true
			return &quiz.TestResult{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/abc/score", strings.NewReader(`{}`))
	req = withChiParam(req, "number", "abc")
	w := httptest.NewRecorder()
	h.Score(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/score", strings.NewReader(`{"answers":`))
	req = withChiParam(req, "number", "1")
	w = httptest.NewRecorder()
	h.Score(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.False(t, called)
}

func TestGetTestNotFound(t *testing.T) {
	h := NewHandler(&mockExamService{
		getTestFn: func(ctx context.Context, number int) (*TestView, error) {
			return nil, ErrTestNotFound
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tests/7", nil)
	req = withChiParam(req, "number", "7")
	w := httptest.NewRecorder()

	h.GetTest(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTests(t *testing.T) {
	h := NewHandler(&mockExamService{
		listTestsFn: func(ctx context.Context) ([]TestSummary, error) {
			return []TestSummary{{Number: 1, Questions: map[quiz.Subject]int{quiz.Chemistry: 80}}}, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tests", nil)
	w := httptest.NewRecorder()

	h.ListTests(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var items []TestSummary
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &items))
	assert.Equal(t, 80, items[0].Questions[quiz.Chemistry])
}

func TestScoreBodyLimit(t *testing.T) {
	var got map[string][]string
	h := NewHandler(&mockExamService{
		scoreFn: func(ctx context.Context, number int, answers map[string][]string) (*quiz.TestResult, error) {
			got = answers
			return &quiz.TestResult{}, nil
		},
	})

	full := map[string][]string{}
	for _, subject := range quiz.Subjects() {
		for n := 1; n <= 80; n++ {
			full[quiz.QuestionKey{Number: n, Subject: subject}.String()] = []string{"a", "b", "c", "d"}
		}
	}
	body, err := json.Marshal(scoreRequest{Answers: full})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/score", bytes.NewReader(body))
	req = withChiParam(req, "number", "1")
	w := httptest.NewRecorder()
	h.Score(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, got, 160)

	got = nil
	huge := `{"answers":{"1-CHEMISTRY":["` + strings.Repeat("a", maxScoreBody) + `"]}}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/score", strings.NewReader(huge))
	req = withChiParam(req, "number", "1")
	w = httptest.NewRecorder()
	h.Score(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, got)
}
