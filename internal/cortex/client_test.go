package cortex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetWalletConviction(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"wallet":"wallet-1","score":0.95,"defi_activity":0.7,"prediction_market_activity":0.6,"cross_domain_correlation":0.82}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	score, err := client.GetWalletConviction(context.Background(), "wallet-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/conviction/wallet-1" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if score.Wallet != "wallet-1" || score.Score != 0.95 {
		t.Fatalf("unexpected payload: %+v", score)
	}
	if score.DefiActivity != 0.7 || score.PredictionMarketActivity != 0.6 || score.CrossDomainCorrelation != 0.82 {
		t.Fatalf("unexpected activity fields: %+v", score)
	}
}

func TestGetWalletConvictionStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.GetWalletConviction(context.Background(), "wallet-1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", statusErr.Code)
	}
	if statusErr.Error() != "API error: 503 Service Unavailable" {
		t.Fatalf("unexpected message: %s", statusErr.Error())
	}
}

func TestGetWalletConvictionDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.GetWalletConviction(context.Background(), "wallet-1")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError got %T: %v", err, err)
	}
}

func TestGetWalletConvictionTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.GetWalletConviction(context.Background(), "wallet-1")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError got %T: %v", err, err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{})
	if client.BaseURL() != DefaultBaseURL {
		t.Fatalf("expected default base URL got %s", client.BaseURL())
	}

	client = NewClient(Config{BaseURL: "http://example.com/api/"})
	if client.BaseURL() != "http://example.com/api" {
		t.Fatalf("expected trailing slash trimmed got %s", client.BaseURL())
	}
}
