package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSuggestMapsServiceResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "aurora" {
			t.Errorf("query = %q, want aurora", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("limit = %q, want 2", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[
			{"label":"Aurora, CO","city":"Aurora","state":"CO","lat":39.72,"lon":-104.83},
			{"label":"","city":"ignored","state":"XX"},
			{"label":"Aurora, IL","city":"Aurora","state":"IL","lat":41.76,"lon":-88.32},
			{"label":"Aurora, OH","city":"Aurora","state":"OH","lat":41.31,"lon":-81.34}
		]}`))
	}))
	defer srv.Close()

	client := &Client{HTTP: srv.Client(), Endpoint: srv.URL + "/suggest"}
	got, err := client.Suggest(context.Background(), "aurora", 2)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Label != "Aurora, CO" || got[0].State != "CO" {
		t.Errorf("first suggestion = %+v", got[0])
	}
	if got[1].Label != "Aurora, IL" {
		t.Errorf("second suggestion = %+v", got[1])
	}
}

func TestSuggestDegradesOnServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &Client{HTTP: srv.Client(), Endpoint: srv.URL}
	got, err := client.Suggest(context.Background(), "denver", 5)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(got))
	}
}

func TestSuggestEmptyQueryShortCircuits(t *testing.T) {
	client := &Client{HTTP: &http.Client{Timeout: time.Second}, Endpoint: "http://localhost:0"}
	got, err := client.Suggest(context.Background(), "   ", 5)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil suggestions, got %v", got)
	}
}
