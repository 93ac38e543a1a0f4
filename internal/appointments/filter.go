// Package appointments derives display-ready appointment subsets.
//
// Every function here is pure: inputs are never mutated and results keep the
// input order.
package appointments

import (
	"strings"

	"github.com/wolfman30/neardoc/internal/domain"
)

// Criteria selects appointments for one tab of the appointments screen.
type Criteria struct {
	Date   domain.Date
	Status domain.Status
	Query  string
}

// Filter keeps appointments on c.Date whose status bucket is c.Status and,
// when c.Query is non-empty, whose patient or doctor name contains the query
// case-insensitively.
func Filter(appts []domain.Appointment, c Criteria) []domain.Appointment {
	day := c.Date.String()
	query := normalize(c.Query)
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Date.String() != day {
			continue
		}
		if !hasStatus(a, c.Status) {
			continue
		}
		if query != "" && !matchesQuery(a, query) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// OnDate keeps appointments whose calendar day equals day.
func OnDate(appts []domain.Appointment, day domain.Date) []domain.Appointment {
	want := day.String()
	return keep(appts, func(a domain.Appointment) bool { return a.Date.String() == want })
}

// WithStatus keeps appointments in the given bucket.
func WithStatus(appts []domain.Appointment, status domain.Status) []domain.Appointment {
	return keep(appts, func(a domain.Appointment) bool { return hasStatus(a, status) })
}

// Search keeps appointments whose patient or doctor name contains query.
// An empty query keeps everything.
func Search(appts []domain.Appointment, query string) []domain.Appointment {
	q := normalize(query)
	if q == "" {
		return keep(appts, func(domain.Appointment) bool { return true })
	}
	return keep(appts, func(a domain.Appointment) bool { return matchesQuery(a, q) })
}

// Completed is the patient-history view of an appointment list.
func Completed(appts []domain.Appointment) []domain.Appointment {
	return WithStatus(appts, domain.StatusCompleted)
}

// CountByStatus tallies appointments per bucket; unknown statuses are skipped.
func CountByStatus(appts []domain.Appointment) map[domain.Status]int {
	counts := make(map[domain.Status]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		counts[s] = 0
	}
	for _, a := range appts {
		if s, ok := a.Bucket(); ok {
			counts[s]++
		}
	}
	return counts
}

// TotalFees sums the fee of every appointment.
func TotalFees(appts []domain.Appointment) float64 {
	var total float64
	for _, a := range appts {
		total += a.Fee
	}
	return total
}

func hasStatus(a domain.Appointment, want domain.Status) bool {
	got, ok := a.Bucket()
	return ok && got == want
}

func matchesQuery(a domain.Appointment, q string) bool {
	return strings.Contains(normalize(a.PatientName), q) || strings.Contains(normalize(a.DoctorName), q)
}

func normalize(s string) string {
	return strings.ToLower(s)
}

func keep(appts []domain.Appointment, pred func(domain.Appointment) bool) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}
