package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/hailscout/hailscout/internal/models"
	"github.com/hailscout/hailscout/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(db, logger)
	require.NoError(t, st.Migrate())

	return NewServer(st, nil, ":0", logger), st
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegions(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions []string `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Regions, "TX")
	assert.Contains(t, body.Regions, "OK")
}

func TestAddSubscriber(t *testing.T) {
	s, st := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/subscribers",
		`{"email":"roofer@example.com","region":"tx"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"email":"roofer@example.com","region":"TX"}`, rec.Body.String(),
		"region is normalized to upper case")

	emails, err := st.ListRecipients("TX")
	require.NoError(t, err)
	assert.Equal(t, []string{"roofer@example.com"}, emails)
}

func TestAddSubscriberValidation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email":`},
		{"missing at sign", `{"email":"not-an-email","region":"TX"}`},
		{"missing region", `{"email":"roofer@example.com"}`},
		{"uncovered region", `{"email":"roofer@example.com","region":"HI"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/subscribers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRemoveSubscriber(t *testing.T) {
	s, st := newTestServer(t)
	require.NoError(t, st.UpsertSubscriber("roofer@example.com", "TX"))

	rec := doRequest(t, s, http.MethodDelete,
		"/api/subscribers?email=roofer@example.com&region=tx", "")
	require.Equal(t, http.StatusOK, rec.Code)

	emails, err := st.ListRecipients("TX")
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestRemoveSubscriberNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodDelete,
		"/api/subscribers?email=ghost@example.com&region=TX", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSubscribersFilterByRegion(t *testing.T) {
	s, st := newTestServer(t)
	require.NoError(t, st.UpsertSubscriber("a@example.com", "TX"))
	require.NoError(t, st.UpsertSubscriber("b@example.com", "OK"))

	rec := doRequest(t, s, http.MethodGet, "/api/subscribers?region=TX", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Subscribers []models.Subscriber `json:"subscribers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Subscribers, 1)
	assert.Equal(t, "a@example.com", body.Subscribers[0].Email)
}

func TestHistory(t *testing.T) {
	s, st := newTestServer(t)
	storm := models.QualifyingStorm{
		EventType:     "Severe Thunderstorm Warning",
		IsHail:        true,
		HailInches:    1.5,
		SeverityScore: 8,
	}
	require.NoError(t, st.RecordQualifyingStorm(storm, "TX", time.Now().UTC()))

	rec := doRequest(t, s, http.MethodGet, "/api/history?region=tx&hours=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Region string               `json:"region"`
		Storms []models.StormRecord `json:"storms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TX", body.Region)
	require.Len(t, body.Storms, 1)
	assert.Equal(t, 8, body.Storms[0].SeverityScore)
}

func TestHistoryValidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "region is required")

	rec = doRequest(t, s, http.MethodGet, "/api/history?region=TX&hours=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/history?region=TX&hours=-4", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
