package module

import (
	"testing"

	"lumen/internal/platform/testkit"
)

type fetcherPorts struct{ workers int }

func TestRegistryRoundTrip(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &reg, map[string]any{})

	Register("lightcurve", fetcherPorts{workers: 4})

	got, ok := PortsAs[fetcherPorts]("lightcurve")
	if !ok || got.workers != 4 {
		t.Fatalf("round trip failed: %+v ok=%v", got, ok)
	}

	if _, ok := PortsAs[fetcherPorts]("missing"); ok {
		t.Fatal("unknown name must not resolve")
	}
	if _, ok := PortsAs[string]("lightcurve"); ok {
		t.Fatal("wrong port type must not assert")
	}

	Reset()
	if _, ok := PortsAs[fetcherPorts]("lightcurve"); ok {
		t.Fatal("Reset must clear registered ports")
	}
}
