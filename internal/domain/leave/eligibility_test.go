package leave

import (
	"strings"
	"testing"
	"time"
)

func TestEligibilityServicePeriod(t *testing.T) {
	policy := Policy{MinServiceMonths: 6}
	reference := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	fiveMonths := policy.Eligibility(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "Regular", reference)
	if fiveMonths.Eligible {
		t.Fatal("employee with 5 months of service should be ineligible")
	}
	if !strings.Contains(fiveMonths.Reason, "6 months") || !strings.Contains(fiveMonths.Reason, "has 5") {
		t.Fatalf("reason should cite required vs actual months, got %q", fiveMonths.Reason)
	}

	exactlySix := policy.Eligibility(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Regular", reference)
	if !exactlySix.Eligible {
		t.Fatal("employee with exactly 6 months of service should be eligible")
	}
}

func TestEligibilityStatusAllowList(t *testing.T) {
	policy := Policy{AllowedStatuses: []string{"Regular"}}
	hire := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	reference := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	if result := policy.Eligibility(hire, "Probationary", reference); result.Eligible {
		t.Fatal("probationary employee should be rejected by the allow-list")
	} else if !strings.Contains(result.Reason, "Regular") {
		t.Fatalf("reason should list allowed statuses, got %q", result.Reason)
	}

	if result := policy.Eligibility(hire, "regular", reference); !result.Eligible {
		t.Fatalf("status compare must be case-insensitive, got %+v", result)
	}
	if result := policy.Eligibility(hire, "  Regular  ", reference); !result.Eligible {
		t.Fatalf("status compare must trim whitespace, got %+v", result)
	}
}

func TestEligibilityEmptyAllowListAcceptsAll(t *testing.T) {
	policy := Policy{}
	result := policy.Eligibility(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), "Contractual", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	if !result.Eligible {
		t.Fatalf("policy without requirements should accept everyone, got %+v", result)
	}
}

func TestMonthsOfService(t *testing.T) {
	cases := []struct {
		hire, reference time.Time
		want            int
	}{
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), 6},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2019, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 60},
	}
	for _, tc := range cases {
		if got := MonthsOfService(tc.hire, tc.reference); got != tc.want {
			t.Fatalf("MonthsOfService(%s, %s) = %d, want %d", tc.hire.Format("2006-01-02"), tc.reference.Format("2006-01-02"), got, tc.want)
		}
	}
}
