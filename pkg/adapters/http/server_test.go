package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *hornbill.Planner) {
	t.Helper()
	p, err := hornbill.New(
		hornbill.WithClock(ports.FixedClock(now)),
		hornbill.WithIDGenerator(func() string { return "sess-1" }),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(p, opts...))
	t.Cleanup(srv.Close)
	return srv, p
}

type response struct {
	Session *domain.Session         `json:"session"`
	Summary domain.Summary          `json:"summary"`
	Error   *domain.ValidationError `json:"error"`
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, response) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out response
	if strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(res.Body).Decode(&out)
	}
	return res.StatusCode, out
}

func TestWizardFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	code, r := call(t, srv, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "sess-1", r.Session.ID)

	code, _ = call(t, srv, http.MethodPut, "/sessions/sess-1/dates", `{"kind":"preset","preset_id":"hornbill"}`)
	require.Equal(t, http.StatusOK, code)

	code, r = call(t, srv, http.MethodPost, "/sessions/sess-1/advance", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.StepDestinations, r.Session.Wizard.ActiveStep)

	code, r = call(t, srv, http.MethodPut, "/sessions/sess-1/destinations", `{"ids":["mon"]}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"kohima"}, r.Session.Destinations)

	call(t, srv, http.MethodPost, "/sessions/sess-1/advance", "")
	code, r = call(t, srv, http.MethodPut, "/sessions/sess-1/experiences", `{"ids":["tribal-village","trekking"]}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(5500), r.Summary.TotalCost)
	assert.Equal(t, 66.0, r.Summary.ConvertedCost)

	call(t, srv, http.MethodPost, "/sessions/sess-1/advance", "")
	code, r = call(t, srv, http.MethodPost, "/sessions/sess-1/submit", `{
		"name":"Asha Rao","email":"asha@example.com","phone":"+91 98765 43210",
		"nationality":"Indian","preferred_contact":"email","group_size":"2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, r.Summary.Submitted)
	assert.NotEmpty(t, r.Summary.Reference)
	assert.Equal(t, 10, *r.Session.Plan.Dates.Duration)

	code, _ = call(t, srv, http.MethodPost, "/sessions/sess-1/retreat", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestStatusMapping(t *testing.T) {
	srv, _ := newTestServer(t)
	call(t, srv, http.MethodPost, "/sessions", "")

	t.Run("Validation Is 422 With Session", func(t *testing.T) {
		code, r := call(t, srv, http.MethodPost, "/sessions/sess-1/advance", "")
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		require.NotNil(t, r.Error)
		assert.Equal(t, "Please select your travel dates before proceeding.", r.Error.Message)
		require.NotNil(t, r.Session)
		assert.Equal(t, r.Error.Message, r.Session.Wizard.ValidationError)
	})

	t.Run("Unknown Currency Is 422", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodPut, "/sessions/sess-1/currency", `{"code":"XYZ"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})

	t.Run("Missing Session Is 404", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodGet, "/sessions/nope", "")
		assert.Equal(t, http.StatusNotFound, code)
		code, _ = call(t, srv, http.MethodPost, "/sessions/nope/advance", "")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Malformed Body Is 400", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodPut, "/sessions/sess-1/destinations", `{"ids":`)
		assert.Equal(t, http.StatusBadRequest, code)
		code, _ = call(t, srv, http.MethodPut, "/sessions/sess-1/destinations", `{"places":["kohima"]}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("Bad Dates Are 400", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodPut, "/sessions/sess-1/dates", `{"kind":"preset","preset_id":"carnival"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		code, _ = call(t, srv, http.MethodPut, "/sessions/sess-1/dates", `{"kind":"custom","start":"tomorrow"}`)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("Duplicate Create Is 409", func(t *testing.T) {
		code, _ := call(t, srv, http.MethodPost, "/sessions", "")
		assert.Equal(t, http.StatusConflict, code)
	})
}

func TestSubmitUsesStoredDraft(t *testing.T) {
	srv, p := newTestServer(t)
	ctx := context.Background()
	_, err := p.StartWithID(ctx, "s2")
	require.NoError(t, err)
	_, err = p.SelectDates(ctx, "s2", domain.QuickDates(4))
	require.NoError(t, err)
	_, _ = p.Advance(ctx, "s2")
	_, _ = p.SelectDestinations(ctx, "s2", []string{"mon"})
	_, _ = p.Advance(ctx, "s2")
	_, _ = p.Advance(ctx, "s2")

	code, r := call(t, srv, http.MethodPut, "/sessions/s2/contact", `{"name":"Asha","email":"bad"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "bad", r.Session.Contact.Email)

	code, r = call(t, srv, http.MethodPost, "/sessions/s2/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Please fill in your phone number.", r.Error.Message)
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := srv.Client().Get(srv.URL + "/catalog/destinations?category=Nature")
	require.NoError(t, err)
	defer res.Body.Close()
	var dests []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&dests))
	assert.Len(t, dests, 10)

	res2, err := srv.Client().Get(srv.URL + "/catalog/currencies")
	require.NoError(t, err)
	defer res2.Body.Close()
	var cur struct {
		Base       string           `json:"base"`
		Currencies []map[string]any `json:"currencies"`
	}
	require.NoError(t, json.NewDecoder(res2.Body).Decode(&cur))
	assert.Equal(t, "INR", cur.Base)
	assert.Len(t, cur.Currencies, 20)
}

func TestSessionViews(t *testing.T) {
	srv, p := newTestServer(t)
	ctx := context.Background()
	_, err := p.Start(ctx)
	require.NoError(t, err)
	_, err = p.SelectDates(ctx, "sess-1", domain.PresetDates("hornbill"))
	require.NoError(t, err)

	res, err := srv.Client().Get(srv.URL + "/sessions/sess-1/destinations")
	require.NoError(t, err)
	var dests []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&dests))
	res.Body.Close()
	require.Len(t, dests, 1)
	assert.Equal(t, "kohima", dests[0]["id"])

	res, err = srv.Client().Get(srv.URL + "/sessions/sess-1/summary.html")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	var sb strings.Builder
	_, _ = bufio.NewReader(res.Body).WriteTo(&sb)
	assert.Contains(t, sb.String(), "Hornbill Festival")
}

func TestSubscribeEvents_Session(t *testing.T) {
	srv, p := newTestServer(t)
	_, err := p.Start(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/sess-1/events?watch=destinations", nil)
	require.NoError(t, err)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(res.Body)
		for scanner.Scan() {
			if line, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				events <- line
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case ev := <-events:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
			return ""
		}
	}

	assert.Equal(t, "connected", next())
	assert.Contains(t, next(), `"active_step":1`)

	// A currency change is filtered out; the destination change is delivered.
	call(t, srv, http.MethodPut, "/sessions/sess-1/currency", `{"code":"EUR"}`)
	call(t, srv, http.MethodPut, "/sessions/sess-1/destinations", `{"ids":["mon","kohima"]}`)

	ev := next()
	assert.Contains(t, ev, `"destinations":["mon","kohima"]`)
	assert.NotContains(t, ev, "contact")
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)
	res, err := srv.Client().Get(srv.URL + "/sessions/ghost/events")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s1")

	for i := 0; i < subscriberBuffer+5; i++ {
		sm.Broadcast("s1", "msg")
	}
	assert.Len(t, ch, subscriberBuffer)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s1"))
}

func TestOpsEndpoints(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hornbill_plans_submitted_total 0\n"))
	})
	srv, _ := newTestServer(t, WithMetrics(metrics))

	for path, want := range map[string]string{
		"/health":       `"status":"ok"`,
		"/info":         `"api_version":"1.0.0"`,
		"/openapi.yaml": "openapi: 3.0.3",
		"/metrics":      "hornbill_plans_submitted_total",
	} {
		res, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err, path)
		var sb strings.Builder
		_, _ = bufio.NewReader(res.Body).WriteTo(&sb)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Contains(t, sb.String(), want, path)
	}
}

func TestOpenAPIDocumentIsValid(t *testing.T) {
	doc, err := LoadOpenAPI()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{"/sessions", "/sessions/{id}/dates", "/sessions/{id}/events", "/catalog/currencies"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}
