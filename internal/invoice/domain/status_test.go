package domain

import "testing"

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name          string
		total         int64
		advance       int64
		payments      int64
		wantRemaining int64
		wantStatus    Status
	}{
		{"untouched", 100, 0, 0, 100, StatusUnpaid},
		{"advance only", 100, 20, 0, 80, StatusPartiallyPaid},
		{"partial payments", 100, 0, 30, 70, StatusPartiallyPaid},
		{"exactly settled", 100, 20, 80, 0, StatusPaid},
		{"overpaid clamps to zero", 100, 0, 150, 0, StatusPaid},
		{"zero total", 0, 0, 0, 0, StatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remaining, status := DeriveStatus(tc.total, tc.advance, tc.payments)
			if remaining != tc.wantRemaining {
				t.Fatalf("remaining = %d, want %d", remaining, tc.wantRemaining)
			}
			if status != tc.wantStatus {
				t.Fatalf("status = %s, want %s", status, tc.wantStatus)
			}
		})
	}
}

func TestParseLegacyDiscount(t *testing.T) {
	cases := []struct {
		notes string
		want  int64
	}{
		{"discount: 50", 50},
		{"Discount=25", 25},
		{"  DISCOUNT : 7 applied at register", 7},
		{"customer asked for discount", 0},
		{"", 0},
	}

	for _, tc := range cases {
		if got := ParseLegacyDiscount(tc.notes); got != tc.want {
			t.Fatalf("ParseLegacyDiscount(%q) = %d, want %d", tc.notes, got, tc.want)
		}
	}
}
