package appointments

import (
	"errors"

	"github.com/medicare-clinic/scheduling-platform/internal/patients"
)

// NA is the sentinel recorded for any insurance field left blank.
const NA = "N/A"

var (
	// ErrRecordNotFound is returned when an amendment targets an unknown
	// booking ID.
	ErrRecordNotFound = errors.New("appointment record not found")
)

// Record is one committed booking. Doctor, Slot, and PatientType are
// immutable once appended; only the insurance columns may be amended.
type Record struct {
	ID                   string               `json:"id"`
	Doctor               string               `json:"doctor"`
	Slot                 string               `json:"slot"`
	PatientType          patients.PatientType `json:"patient_type"`
	InsuranceCarrier     string               `json:"insurance_carrier"`
	InsuranceMemberID    string               `json:"insurance_member_id"`
	InsuranceGroupNumber string               `json:"insurance_group_number"`
}

// NormalizeInsurance defaults every insurance field independently to the
// "N/A" sentinel when the insurance object, or that one field, is absent.
func NormalizeInsurance(ins *patients.Insurance) (carrier, memberID, groupNumber string) {
	carrier, memberID, groupNumber = NA, NA, NA
	if ins == nil {
		return
	}
	if ins.Carrier != "" {
		carrier = ins.Carrier
	}
	if ins.MemberID != "" {
		memberID = ins.MemberID
	}
	if ins.GroupNumber != "" {
		groupNumber = ins.GroupNumber
	}
	return
}
