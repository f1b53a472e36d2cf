package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medicquiz/internal/exam"
	"medicquiz/internal/quiz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticImages map[int]string

func (s staticImages) ImagePath(number int) (string, bool) {
	p, ok := s[number]
	return p, ok
}

func testCatalog() *exam.Catalog {
	questions := []quiz.Question{
		{Number: 1, Subject: quiz.Chemistry, Text: "Voda je", Type: quiz.TypeText, Answers: []quiz.Answer{
			{Letter: "a", Text: "H2O"}, {Letter: "b", Text: "CO2"}, {Letter: "c", Text: "NaCl"}, {Letter: "d", Text: "O2"},
		}},
	}
	tests := []quiz.Test{quiz.NewTest(1, questions)}
	solutions := []quiz.Solution{{QuestionNumber: 1, Subject: quiz.Chemistry, CorrectAnswers: quiz.NewLetterSet("a")}}
	return exam.NewCatalog(questions, tests, solutions)
}

func testConfig() Config {
	return Config{ExamLength: 80, ScoreRateLimitPerMin: 2}
}

func TestRouterRoutes(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "abc.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpeg"), 0o644))

	router := NewRouter(testConfig(), testCatalog(), staticImages{7: img}, nil, nil)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{name: "healthz", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "list_tests", method: http.MethodGet, target: "/api/v1/tests", wantStatus: http.StatusOK},
		{name: "get_test", method: http.MethodGet, target: "/api/v1/tests/1", wantStatus: http.StatusOK},
		{name: "missing_test", method: http.MethodGet, target: "/api/v1/tests/9", wantStatus: http.StatusNotFound},
		{name: "report", method: http.MethodGet, target: "/api/v1/report", wantStatus: http.StatusOK},
		{name: "image", method: http.MethodGet, target: "/static/7.jpg", wantStatus: http.StatusOK},
		{name: "unknown_image", method: http.MethodGet, target: "/static/8.jpg", wantStatus: http.StatusNotFound},
		{name: "bad_image_name", method: http.MethodGet, target: "/static/x.png", wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.wantStatus, w.Code, "%s %s", tc.method, tc.target)
		})
	}
}

func TestRouterScoreIsRateLimited(t *testing.T) {
	router := NewRouter(testConfig(), testCatalog(), nil, nil, nil)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tests/1/score", strings.NewReader(`{"answers":{"1-CHEMISTRY":["a"]}}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.1.1:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := post()
	require.Equal(t, http.StatusOK, first.Code)
	var body struct {
		OK   bool            `json:"ok"`
		Data quiz.TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, 1, body.Data.Score)
	assert.Equal(t, 1, body.Data.MaxScore)

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusTooManyRequests, post().Code)
}
