package resources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cadencehq/cadence-go/core"
)

func newTestClient(serverURL string, logOut io.Writer) *Client {
	cfg := core.Config{
		BaseURL: serverURL,
		APIKey:  core.NewSecret("test-key"),
	}
	if logOut != nil {
		logger := zerolog.New(logOut)
		cfg.Logger = &logger
	}
	return New(core.NewTransport(cfg))
}

func TestThreadsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/threads" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "10" || q.Get("channel") != "linkedin" {
			t.Errorf("query = %v", q)
		}
		if q.Has("cursor") {
			t.Error("empty cursor must be omitted")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"threads":[{"id":"t-1","channel":"linkedin","lead_id":"l-9"}]}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	threads, err := c.Threads.List(context.Background(), &ThreadListParams{Limit: 10, Channel: ChannelLinkedIn})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	if threads[0].LeadID != "l-9" {
		t.Errorf("LeadID = %q, want l-9 (lead_id must be camel-cased)", threads[0].LeadID)
	}
}

func TestPeopleSearchBodySnakeCased(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/people/search" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("body not JSON: %v", err)
		}
		if _, ok := body["company_domain"]; !ok {
			t.Errorf("body not snake-cased: %s", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"results":[{"id":"p-1","full_name":"Ada Lovelace","linkedin_url":"https://linkedin.com/in/ada"}]}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	people, err := c.People.Search(context.Background(), &PersonFilter{CompanyDomain: "initech.com", Limit: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(people) != 1 || people[0].FullName != "Ada Lovelace" {
		t.Errorf("people = %+v", people)
	}
	if people[0].LinkedInURL == "" {
		t.Error("linkedin_url not mapped")
	}
}

func TestSequencesCreateIdempotencyKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Idempotency-Key"); got != "seq-create-1" {
			t.Errorf("Idempotency-Key = %q, want seq-create-1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"s-1","name":"Q4 outreach","status":"draft"}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	seq, err := c.Sequences.Create(context.Background(), &SequenceCreateRequest{
		Name:    "Q4 outreach",
		Channel: ChannelEmail,
	}, "seq-create-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if seq.ID != "s-1" {
		t.Errorf("ID = %q", seq.ID)
	}
}

func TestAccountsTenantScopeWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"daily_send_limit":50}`)
	}))
	defer server.Close()

	var logBuf strings.Builder
	c := newTestClient(server.URL, &logBuf)

	settings, err := c.Accounts.UpdateSettings(context.Background(), &WorkspaceSettings{DailySendLimit: 50})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if settings.DailySendLimit != 50 {
		t.Errorf("DailySendLimit = %d, want 50", settings.DailySendLimit)
	}

	logged := logBuf.String()
	if !strings.Contains(logged, "tenant-scoped") {
		t.Errorf("tenant-scope advisory not logged: %q", logged)
	}
	if !strings.Contains(logged, "account.settings.update") {
		t.Errorf("operation name missing from advisory: %q", logged)
	}
}

func TestErrorsPropagateUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-request-id", "req-9")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"no such thread","code":"THREAD_NOT_FOUND"}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	_, err := c.Threads.Get(context.Background(), "t-missing")

	var apiErr *core.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *core.Error", err)
	}
	if apiErr.Kind != core.KindNotFound || apiErr.Code != "THREAD_NOT_FOUND" || apiErr.RequestID != "req-9" {
		t.Errorf("error = %+v", apiErr)
	}
}
