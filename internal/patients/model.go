package patients

// PatientType classifies a patient; it drives appointment duration only.
type PatientType string

const (
	TypeNew       PatientType = "New"
	TypeReturning PatientType = "Returning"
)

// Insurance holds free-text coverage details collected before a booking
// commits. Any field may be blank.
type Insurance struct {
	Carrier     string `json:"carrier"`
	MemberID    string `json:"member_id"`
	GroupNumber string `json:"group_number"`
}

// Record represents a patient's identity and care metadata. It is not
// persisted by this service; the directory is read-only.
type Record struct {
	ID             string      `json:"id,omitempty"`
	Name           string      `json:"name"`
	DateOfBirth    string      `json:"dob"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	AssignedDoctor string      `json:"assigned_doctor,omitempty"`
	PatientType    PatientType `json:"patient_type"`
	Insurance      *Insurance  `json:"insurance,omitempty"`
}

// LookupResult is the outcome of a directory lookup. When no row matches,
// Found is false and the caller should treat the patient as new.
type LookupResult struct {
	Found       bool        `json:"found"`
	ID          string      `json:"id,omitempty"`
	Doctor      string      `json:"doctor,omitempty"`
	PatientType PatientType `json:"patient_type"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
}

// NewPatientResult is returned whenever the directory has no match or its
// backing source cannot be read.
func NewPatientResult() *LookupResult {
	return &LookupResult{Found: false, PatientType: TypeNew}
}
