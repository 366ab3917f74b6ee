// Package main runs end-to-end checks against a deployed assistant API.
//
// Scenarios cover the site payload, chat replies and their minimum latency,
// the rebate estimator and comparison, session busy/not-found handling, and
// form validation on the booking and contact endpoints.
//
// Usage:
//
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go              # runs all
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go chat-faq     # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// Floors enforced by the server on every reply.
	minChatLatency     = time.Second
	requestTimeout     = 45 * time.Second
	defaultAPIBaseURL  = "http://localhost:8080"
	testPostalCode     = "M5V 2T6"
	invalidPostalCode  = "12345"
	futureBookingDate  = "2099-01-15"
	contactServiceName = "Heat Pump Installation"
)

var (
	apiBase string
	client  = &http.Client{Timeout: requestTimeout}
)

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...any) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

type response struct {
	status  int
	body    map[string]any
	raw     string
	elapsed time.Duration
}

func call(method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	out := &response{status: resp.StatusCode, raw: string(raw), elapsed: time.Since(start)}
	_ = json.Unmarshal(raw, &out.body)
	return out, nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func startChat(t *T) string {
	resp, err := call(http.MethodPost, "/api/chat/sessions", nil)
	if err != nil {
		t.fatalf("start chat: %v", err)
		return ""
	}
	t.check("chat session created (201)", resp.status == http.StatusCreated)
	return str(resp.body, "session_id")
}

func scenarioHealth(t *T) {
	resp, err := call(http.MethodGet, "/health", nil)
	if err != nil {
		t.fatalf("health: %v", err)
		return
	}
	t.check("health returns 200", resp.status == http.StatusOK)
	t.check("health reports ok", str(resp.body, "status") == "ok")
}

func scenarioSite(t *T) {
	resp, err := call(http.MethodGet, "/api/site", nil)
	if err != nil {
		t.fatalf("site: %v", err)
		return
	}
	t.check("site returns 200", resp.status == http.StatusOK)
	t.check("company name present", str(resp.body, "company_name") != "")
	services, _ := resp.body["services"].([]any)
	t.check("service catalog is populated", len(services) > 0)
	questions, _ := resp.body["questions"].([]any)
	t.check("quick questions are populated", len(questions) > 0)
}

func scenarioChatFAQ(t *T) {
	id := startChat(t)
	if id == "" {
		return
	}
	resp, err := call(http.MethodPost, "/api/chat/sessions/"+id+"/messages", map[string]string{
		"text": "Do you offer emergency service?",
	})
	if err != nil {
		t.fatalf("chat: %v", err)
		return
	}
	t.check("reply returns 200", resp.status == http.StatusOK)
	t.check("reply text present", str(resp.body, "text") != "")
	origin := str(resp.body, "origin")
	t.check("origin is generated or fallback", origin == "generated" || origin == "fallback")
	t.check(fmt.Sprintf("reply took at least %v (took %v)", minChatLatency, resp.elapsed.Round(time.Millisecond)),
		resp.elapsed >= minChatLatency)

	transcript, err := call(http.MethodGet, "/api/chat/sessions/"+id, nil)
	if err != nil {
		t.fatalf("transcript: %v", err)
		return
	}
	msgs, _ := transcript.body["messages"].([]any)
	t.check("transcript holds greeting, question and reply", len(msgs) == 3)
}

func scenarioChatBusy(t *T) {
	id := startChat(t)
	if id == "" {
		return
	}
	first := make(chan *response, 1)
	go func() {
		resp, _ := call(http.MethodPost, "/api/chat/sessions/"+id+"/messages", map[string]string{"text": "What areas do you serve?"})
		first <- resp
	}()
	time.Sleep(200 * time.Millisecond)

	second, err := call(http.MethodPost, "/api/chat/sessions/"+id+"/messages", map[string]string{"text": "And on weekends?"})
	if err != nil {
		t.fatalf("second message: %v", err)
		return
	}
	t.check("overlapping message rejected (409)", second.status == http.StatusConflict)
	if resp := <-first; resp != nil {
		t.check("first message still answered", resp.status == http.StatusOK)
	} else {
		t.fatalf("first message failed")
	}
}

func scenarioChatErrors(t *T) {
	resp, err := call(http.MethodPost, "/api/chat/sessions/does-not-exist/messages", map[string]string{"text": "hi"})
	if err != nil {
		t.fatalf("unknown session: %v", err)
		return
	}
	t.check("unknown session returns 404", resp.status == http.StatusNotFound)

	id := startChat(t)
	if id == "" {
		return
	}
	resp, err = call(http.MethodPost, "/api/chat/sessions/"+id+"/messages", map[string]string{"text": "   "})
	if err != nil {
		t.fatalf("blank message: %v", err)
		return
	}
	t.check("blank message returns 400", resp.status == http.StatusBadRequest)
}

func scenarioRebateEstimate(t *T) {
	resp, err := call(http.MethodPost, "/api/rebates/estimate", map[string]any{
		"postal_code":  testPostalCode,
		"home_size":    2000,
		"upgrade_type": "heat-pump",
	})
	if err != nil {
		t.fatalf("estimate: %v", err)
		return
	}
	t.check("estimate returns 200", resp.status == http.StatusOK)
	payload, _ := resp.body["payload"].(map[string]any)
	t.check("total amount present", str(payload, "totalAmount") != "")
	breakdown, _ := payload["breakdown"].([]any)
	t.check("breakdown present", len(breakdown) > 0)
}

func scenarioRebateCompare(t *T) {
	resp, err := call(http.MethodPost, "/api/rebates/compare", map[string]any{
		"postal_code": testPostalCode,
		"home_size":   3500,
	})
	if err != nil {
		t.fatalf("compare: %v", err)
		return
	}
	t.check("compare returns 200", resp.status == http.StatusOK)
	payload, _ := resp.body["payload"].(map[string]any)
	options, _ := payload["comparison"].([]any)
	t.check("comparison lists options", len(options) > 0)
	t.check("recommendation present", str(payload, "overallRecommendation") != "")
}

func scenarioRebateValidation(t *T) {
	resp, err := call(http.MethodPost, "/api/rebates/estimate", map[string]any{
		"postal_code":  invalidPostalCode,
		"home_size":    2000,
		"upgrade_type": "heat-pump",
	})
	if err != nil {
		t.fatalf("estimate: %v", err)
		return
	}
	t.check("invalid postal code returns 400", resp.status == http.StatusBadRequest)
}

func scenarioLeads(t *T) {
	resp, err := call(http.MethodPost, "/api/bookings", map[string]string{
		"service_id": "heat-pumps",
		"date":       futureBookingDate,
		"window":     "morning",
		"name":       "E2E Check",
		"phone":      "416-555-0199",
		"email":      "not-an-email",
	})
	if err != nil {
		t.fatalf("booking: %v", err)
		return
	}
	t.check("booking with bad email returns 400", resp.status == http.StatusBadRequest)

	resp, err = call(http.MethodPost, "/api/contact", map[string]string{
		"name":    "",
		"phone":   "416-555-0199",
		"email":   "e2e@example.com",
		"service": contactServiceName,
	})
	if err != nil {
		t.fatalf("contact: %v", err)
		return
	}
	t.check("contact without name returns 400", resp.status == http.StatusBadRequest)
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}

	scenarios := []scenario{
		{"health", scenarioHealth},
		{"site", scenarioSite},
		{"chat-faq", scenarioChatFAQ},
		{"chat-busy", scenarioChatBusy},
		{"chat-errors", scenarioChatErrors},
		{"rebate-estimate", scenarioRebateEstimate},
		{"rebate-compare", scenarioRebateCompare},
		{"rebate-validation", scenarioRebateValidation},
		{"leads-validation", scenarioLeads},
	}

	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	results := make([]string, 0, len(scenarios))

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "PASS"
		if t.failed > 0 {
			status = "FAIL"
		}
		results = append(results, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range results {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		os.Exit(1)
	}
}
