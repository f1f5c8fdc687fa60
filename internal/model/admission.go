package model

import "time"

type AdmissionStatus string

const (
	AdmissionStatusWaiting    AdmissionStatus = "waiting"
	AdmissionStatusInTriage   AdmissionStatus = "in_triage"
	AdmissionStatusInCare     AdmissionStatus = "in_care"
	AdmissionStatusDischarged AdmissionStatus = "discharged"
)

// Admission is one emergency visit (MSP form 008 header). AdmissionDate is
// always stamped with server time; client-supplied values are ignored.
type Admission struct {
	ID                    int64           `db:"id" json:"id"`
	PatientID             int64           `db:"patient_id" json:"patient_id"`
	AdmissionDate         time.Time       `db:"admission_date" json:"admission_date"`
	ArrivalModeID         *int64          `db:"arrival_mode_id" json:"arrival_mode_id,omitempty"`
	ArrivalConditionID    *int64          `db:"arrival_condition_id" json:"arrival_condition_id,omitempty"`
	OriginFacility        *string         `db:"origin_facility" json:"origin_facility,omitempty"`
	ConsultationReason    string          `db:"consultation_reason" json:"consultation_reason"`
	CurrentIllness        *string         `db:"current_illness" json:"current_illness,omitempty"`
	Status                AdmissionStatus `db:"status" json:"status"`
	CompanionName         *string         `db:"companion_name" json:"companion_name,omitempty"`
	CompanionPhone        *string         `db:"companion_phone" json:"companion_phone,omitempty"`
	CompanionRelationship *int64          `db:"companion_relationship_id" json:"companion_relationship_id,omitempty"`
	RegisteredBy          int64           `db:"registered_by" json:"registered_by"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
}

// AdmissionPayload is the admission section of a submission. Any
// client-supplied admission timestamp is deliberately absent: the server
// stamps it.
type AdmissionPayload struct {
	ArrivalModeID         *int64  `json:"arrival_mode_id"`
	ArrivalConditionID    *int64  `json:"arrival_condition_id"`
	OriginFacility        *string `json:"origin_facility"`
	ConsultationReason    string  `json:"consultation_reason" binding:"required"`
	CurrentIllness        *string `json:"current_illness"`
	CompanionName         *string `json:"companion_name"`
	CompanionPhone        *string `json:"companion_phone"`
	CompanionRelationship *int64  `json:"companion_relationship_id"`
}

// CreateAdmissionRequest is the single inbound payload of the admission
// operation. Patient and Admission sections are mandatory; Representative
// and Birth are conditional.
type CreateAdmissionRequest struct {
	Patient        *PatientPayload        `json:"patient" binding:"required"`
	Admission      *AdmissionPayload      `json:"admission" binding:"required"`
	Representative *RepresentativePayload `json:"representative,omitempty"`
	Birth          *BirthPayload          `json:"birth,omitempty"`
}

// AdmissionResult is returned to the caller on commit.
type AdmissionResult struct {
	PatientID   int64 `json:"patient_id"`
	AdmissionID int64 `json:"admission_id"`
}

// PatientLookupResult answers the "find patient by document" operation used
// by the UI to decide whether to prefill the form.
type PatientLookupResult struct {
	Found         bool       `json:"found"`
	Patient       *Patient   `json:"patient,omitempty"`
	OpenAdmission *Admission `json:"open_admission,omitempty"`
}

// MaternalCheckResult answers the maternal validation used by the neonate
// flow: the document must belong to a female patient with an admission
// inside the recency window.
type MaternalCheckResult struct {
	Patient   *Patient   `json:"patient"`
	Admission *Admission `json:"admission"`
}
