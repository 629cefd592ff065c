package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"GoldSentinel/internal/model"
)

func TestYahooFetcher_LatestNonNullClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "DX-Y.NYB") {
			t.Errorf("expected mapped ticker in path, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1,2,3],"indicators":{"quote":[{"close":[101.1,101.9,null]}]}}],"error":null}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.Client())
	f.BaseURL = srv.URL

	got, err := f.FetchLatest(context.Background(), model.IndicatorUSDIndex)
	if err != nil {
		t.Fatalf("FetchLatest: %v", err)
	}
	if got != 101.9 {
		t.Errorf("expected 101.9, got %v", got)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.Client())
	f.BaseURL = srv.URL
	if _, err := f.FetchLatest(context.Background(), "^VIX"); err == nil {
		t.Error("expected api error")
	}
}
