package antares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "lumen/internal/platform/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	return c, srv
}

func TestLookupDecodesLocus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loci/ZTF21abcdefg" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"locus_id": "ZTF21abcdefg",
			"ra": 120.5, "dec": -33.25,
			"properties": {"num_alerts": 2, "survey": "ZTF"},
			"lightcurve": [
				{"ant_mjd": 59000.1, "ant_survey": 1, "ant_passband": "g", "ant_mag": 18.2, "ant_magerr": 0.05, "ant_maglim": 20.5},
				{"ant_mjd": 59001.2, "ant_survey": 2, "ant_passband": "R", "ant_magerr": 0.0, "ant_maglim": 20.1}
			]
		}`))
	})

	loc, err := c.Lookup(context.Background(), "ZTF21abcdefg")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.ObjectID != "ZTF21abcdefg" {
		t.Fatalf("object id: %q", loc.ObjectID)
	}
	if loc.RA == nil || *loc.RA != 120.5 {
		t.Fatalf("ra: %v", loc.RA)
	}
	if len(loc.Lightcurve) != 2 {
		t.Fatalf("alerts: %d", len(loc.Lightcurve))
	}
	if loc.Lightcurve[1].Mag != nil {
		t.Fatalf("second alert mag should be absent")
	}
}

func TestLookupNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Lookup(context.Background(), "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestLookupServerErrorIsTransport(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Lookup(context.Background(), "obj")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestLookupTimeoutIsTransport(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Lookup(ctx, "obj")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
}

func TestLookupBadJSONIsMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lightcurve": [`))
	})
	_, err := c.Lookup(context.Background(), "obj")
	if !perr.IsCode(err, perr.ErrorCodeMalformedRecord) {
		t.Fatalf("want malformed record, got %v", err)
	}
}

func TestLookupEmptyID(t *testing.T) {
	c := NewClient(Options{})
	if _, err := c.Lookup(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}
