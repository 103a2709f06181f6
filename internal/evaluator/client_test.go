package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeace/jeeace/internal/testconfig"
)

func TestClient_Evaluate(t *testing.T) {
	var got EvaluateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/evaluate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score":3,"total":2,"max_score":8,"correct_count":1,"incorrect_count":0,` +
			`"unattempted_count":1,"percentage":37.5,"details":[{"is_correct":true,"user_answer":"B"},{"is_correct":false,"user_answer":""}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithToken("tok"))
	res, err := c.Evaluate(context.Background(), EvaluateRequest{
		Questions:   []testconfig.Question{{Subject: "Physics"}, {Subject: "Physics"}},
		UserAnswers: []string{"B", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", ""}, got.UserAnswers)
	assert.Equal(t, 1, res.UnattemptedCount)
	require.NotNil(t, res.Percentage)
	assert.InDelta(t, 37.5, res.Percentage.Float(), 1e-9)
	assert.True(t, res.Details[0].Attempted())
	assert.False(t, res.Details[1].Attempted())
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid input"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Evaluate(context.Background(), EvaluateRequest{})
	require.Error(t, err)

	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadRequest, he.StatusCode)
	assert.Equal(t, "Invalid input", he.Message)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_ResultNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/test-result/abc", r.URL.Path)
		http.Error(w, `{"error":"Test result not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Result(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UserResultsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user-test-results/user_1", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"results":[],"pagination":{"current_page":2,"total_pages":3,"total_results":12,"has_next":true,"has_prev":true}}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL).UserResults(context.Background(), "user_1", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Pagination.TotalResults)
	assert.True(t, page.Pagination.HasNext)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithTimeout(time.Second))
	_, err := c.SaveResult(context.Background(), ResultRecord{UserID: "u", TestID: "t"})
	assert.Error(t, err)
}

func TestPercent_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`50`, 50},
		{`"50.0"`, 50},
		{`"66.7%"`, 66.7},
		{`""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p Percent
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.InDelta(t, tt.want, p.Float(), 1e-9)
		})
	}

	var p Percent
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &p))

	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"percentage":null}`), &r))
	assert.Nil(t, r.Percentage)
}

func TestPercent_String(t *testing.T) {
	assert.Equal(t, "50.0", Percent(50).String())
	assert.Equal(t, "33.3", Percent(100.0/3).String())
}
