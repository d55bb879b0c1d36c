package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestWrapAndRoot(t *testing.T) {
	cause := stderrs.New("socket closed")
	err := Wrap(cause, ErrorCodeUnavailable, "lookup failed")

	if got := Root(err); got != cause {
		t.Fatalf("Root = %v, want %v", got, cause)
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("errors.Is should see the cause through the wrap")
	}
	if got := err.Error(); got != "lookup failed: socket closed" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{NotFoundf("no locus for %s", "ZTF21abcdefg"), ErrorCodeNotFound},
		{Unavailablef("upstream timed out"), ErrorCodeUnavailable},
		{Malformedf("lightcurve missing mjd"), ErrorCodeMalformedRecord},
		{EmptyBatchf("all 3 objects failed"), ErrorCodeEmptyBatch},
		{Storagef("parquet write failed"), ErrorCodeStorage},
		{stderrs.New("plain"), ErrorCodeUnknown},
		{nil, ErrorCodeUnknown},
	}
	for _, c := range cases {
		if got := CodeOf(c.err); got != c.want {
			t.Fatalf("CodeOf(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeMalformedRecord, http.StatusBadGateway},
		{ErrorCodeEmptyBatch, http.StatusBadGateway},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeStorage, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(WithField(Newf(ErrorCodeValidation, "concurrency out of range"), "concurrency"))
	if w.Code != ErrorCodeValidation || w.Field != "concurrency" {
		t.Fatalf("WireFrom = %+v", w)
	}

	w = WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign error WireFrom = %+v", w)
	}

	if w := WireFrom(nil); w.Code != ErrorCodeUnknown || w.Message != "" {
		t.Fatalf("nil WireFrom = %+v", w)
	}
}

func TestWithOp(t *testing.T) {
	err := WithOp(NotFoundf("nope"), "fetch_one")
	e, ok := As(err)
	if !ok || e.Op() != "fetch_one" {
		t.Fatalf("WithOp not applied: %+v", err)
	}

	// foreign errors pass through unchanged
	plain := stderrs.New("x")
	if got := WithOp(plain, "op"); got != plain {
		t.Fatalf("WithOp should not wrap foreign errors")
	}
}

func TestIsCode(t *testing.T) {
	err := Wrapf(stderrs.New("conn refused"), ErrorCodeUnavailable, "antares unreachable")
	if !IsCode(err, ErrorCodeUnavailable) {
		t.Fatalf("IsCode(Unavailable) = false")
	}
	if IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("IsCode(NotFound) = true")
	}
}
