package authenticity

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestVerify_ValidMarkerWithFutureExpiry(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{
		Codes:        []string{"MG-VALID-ABC123-BATCH2024"},
		Batch:        "BATCH2024001",
		Expiry:       "2026-12-31",
		Manufacturer: "MediCorp Pharma",
	}, testNow)

	if out.Status != StatusValid {
		t.Fatalf("status: got %s want %s", out.Status, StatusValid)
	}
	if out.Confidence < 95 {
		t.Fatalf("confidence: got %d want >= 95", out.Confidence)
	}
}

func TestVerify_ValidPrefixLowercase(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{Codes: []string{"valid-xyz"}}, testNow)
	if out.Status != StatusValid || out.Confidence != 95 {
		t.Fatalf("got %s/%d want valid/95", out.Status, out.Confidence)
	}
}

func TestVerify_FakeMarker(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{Codes: []string{"TEST-FAKE-001"}}, testNow)
	if out.Status != StatusFake {
		t.Fatalf("status: got %s want fake", out.Status)
	}
	if out.Confidence != 99 {
		t.Fatalf("confidence: got %d want 99", out.Confidence)
	}
}

func TestVerify_ErrorMarker(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{Codes: []string{"ERROR-SCAN"}}, testNow)
	if out.Status != StatusSuspicious || out.Confidence != 20 {
		t.Fatalf("got %s/%d want suspicious/20", out.Status, out.Confidence)
	}
	last := out.Details[len(out.Details)-1]
	if !strings.Contains(last, "Unable to verify") {
		t.Fatalf("expected strong advisory for confidence < 40, got %q", last)
	}
}

func TestVerify_UnrecognizedCode(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{Codes: []string{"0123456789ABCDEF"}}, testNow)
	if out.Status != StatusValid || out.Confidence != 80 {
		t.Fatalf("got %s/%d want valid/80", out.Status, out.Confidence)
	}
}

func TestVerify_NoCodes(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{}, testNow)
	if out.Status != StatusSuspicious || out.Confidence != 30 {
		t.Fatalf("got %s/%d want suspicious/30", out.Status, out.Confidence)
	}
	last := out.Details[len(out.Details)-1]
	if !strings.Contains(last, "Unable to verify") {
		t.Fatalf("expected strong advisory, got %q", last)
	}
}

func TestVerify_ExpiredOverridesValidCode(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{
		Codes:  []string{"MG-VALID-ABC"},
		Expiry: "2020-01-01",
	}, testNow)

	if out.Status != StatusFake {
		t.Fatalf("expired medicine must be fake, got %s", out.Status)
	}
	if out.Confidence != 95 {
		t.Fatalf("confidence: got %d want 95", out.Confidence)
	}
}

// A fake classification from the code marker is terminal; a future expiry
// only adds confidence within the 95 cap and never un-forces fake.
func TestVerify_FakeNeverDowngraded(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{
		Codes:        []string{"FRAUD-999"},
		Batch:        "BATCH2024001",
		Expiry:       "2099-01-01",
		Manufacturer: "MediCorp Pharma",
	}, testNow)

	if out.Status != StatusFake {
		t.Fatalf("status: got %s want fake", out.Status)
	}
}

func TestVerify_BatchFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		batch          string
		wantConfidence int
	}{
		{"well formed raises", "BATCH2024001", 90},
		{"short batch lowers", "B1", 70},
		{"unknown sentinel skipped", BatchUnknown, 80},
		{"empty skipped", "", 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Verify(ScanResult{Codes: []string{"SOMECODE"}, Batch: tt.batch}, testNow)
			if out.Confidence != tt.wantConfidence {
				t.Fatalf("confidence: got %d want %d", out.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestVerify_BatchNeverLowersBelow40(t *testing.T) {
	t.Parallel()

	// Error marker leaves confidence at 20; the batch penalty must not apply.
	out := Verify(ScanResult{Codes: []string{"ERROR-SCAN"}, Batch: "!!"}, testNow)
	if out.Confidence != 20 {
		t.Fatalf("confidence: got %d want 20", out.Confidence)
	}
}

func TestVerify_UnparseableExpiryIsAdvisoryOnly(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{Codes: []string{"MG-VALID-1"}, Expiry: "31/12/2026"}, testNow)
	if out.Status != StatusValid || out.Confidence != 95 {
		t.Fatalf("got %s/%d want valid/95", out.Status, out.Confidence)
	}
	found := false
	for _, d := range out.Details {
		if strings.Contains(d, "Could not parse expiry date") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected advisory detail for unparseable expiry")
	}
}

func TestVerify_DetailOrderFollowsRules(t *testing.T) {
	t.Parallel()

	out := Verify(ScanResult{
		Codes:        []string{"MG-VALID-ABC123"},
		Batch:        "BATCH2024001",
		Expiry:       "2026-12-31",
		Manufacturer: "MediCorp Pharma",
	}, testNow)

	wantPrefixes := []string{
		"✓ Valid MediGuard barcode",
		"✓ Batch format valid",
		"✓ Expiry valid until",
		"✓ Manufacturer",
	}
	if len(out.Details) != len(wantPrefixes) {
		t.Fatalf("details: got %d want %d: %v", len(out.Details), len(wantPrefixes), out.Details)
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(out.Details[i], prefix) {
			t.Fatalf("detail[%d]: got %q want prefix %q", i, out.Details[i], prefix)
		}
	}
}

func TestVerify_ConfidenceAlwaysInRange(t *testing.T) {
	t.Parallel()

	scans := []ScanResult{
		{},
		{Codes: []string{"FAKE"}},
		{Codes: []string{"ERROR"}, Batch: "x"},
		{Codes: []string{"MG-VALID"}, Batch: "BATCH2024001", Expiry: "2099-12-31", Manufacturer: "MediCorp"},
		{Codes: []string{"whatever"}, Batch: "!!", Expiry: "bad", Manufacturer: "Unknown"},
	}
	for _, scan := range scans {
		out := Verify(scan, testNow)
		if out.Confidence < 0 || out.Confidence > 100 {
			t.Fatalf("confidence %d out of range for %+v", out.Confidence, scan)
		}
	}
}
