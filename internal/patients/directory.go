package patients

import (
	"context"
	"strconv"
	"strings"
)

// Directory resolves a patient's identity and care assignment from their
// name and date of birth.
//
// Lookup matches the name case-insensitively and the date of birth by exact
// string equality. When several rows match, the one with the lowest patient
// ID wins: numeric IDs compare numerically, otherwise lexicographically,
// and rows with a blank ID sort last. An unreadable or missing source is
// treated as "no match", never surfaced as an error.
type Directory interface {
	Lookup(ctx context.Context, name, dob string) (*LookupResult, error)
}

func matches(rec *Record, name, dob string) bool {
	return strings.EqualFold(rec.Name, name) && rec.DateOfBirth == dob
}

// idLess reports whether id a wins the duplicate tie-break against id b.
func idLess(a, b string) bool {
	if a == "" || b == "" {
		return b == "" && a != ""
	}
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return an < bn
	}
	return a < b
}

// resolve picks the winning record among candidates per the tie-break rule
// and converts it to a LookupResult.
func resolve(candidates []*Record) *LookupResult {
	if len(candidates) == 0 {
		return NewPatientResult()
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if idLess(c.ID, best.ID) {
			best = c
		}
	}
	return &LookupResult{
		Found:       true,
		ID:          best.ID,
		Doctor:      best.AssignedDoctor,
		PatientType: best.PatientType,
		Email:       best.Email,
		Phone:       best.Phone,
	}
}
