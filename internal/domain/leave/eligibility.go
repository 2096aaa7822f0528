package leave

import (
	"fmt"
	"strings"
	"time"
)

type EligibilityResult struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Eligibility evaluates whether an employee may use this policy as of
// referenceDate. Pure: the same three inputs always produce the same result.
func (p Policy) Eligibility(hireDate time.Time, employeeStatus string, referenceDate time.Time) EligibilityResult {
	if p.MinServiceMonths > 0 {
		months := MonthsOfService(hireDate, referenceDate)
		if months < p.MinServiceMonths {
			return EligibilityResult{
				Reason: fmt.Sprintf("requires %d months of service, employee has %d", p.MinServiceMonths, months),
			}
		}
	}

	if len(p.AllowedStatuses) > 0 {
		status := normalizeStatus(employeeStatus)
		for _, allowed := range p.AllowedStatuses {
			if normalizeStatus(allowed) == status {
				return EligibilityResult{Eligible: true}
			}
		}
		return EligibilityResult{
			Reason: fmt.Sprintf("employment status %q is not in allowed statuses [%s]", employeeStatus, strings.Join(p.AllowedStatuses, ", ")),
		}
	}

	return EligibilityResult{Eligible: true}
}

// MonthsOfService counts whole calendar months between hireDate and
// referenceDate, floored at zero.
func MonthsOfService(hireDate, referenceDate time.Time) int {
	months := (referenceDate.Year()-hireDate.Year())*12 + int(referenceDate.Month()) - int(hireDate.Month())
	if referenceDate.Day() < hireDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
