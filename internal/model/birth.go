package model

import "time"

// BirthRecord holds the delivery details captured when the admission
// concerns a newborn. One record per patient, always paired with the
// admission that created it.
type BirthRecord struct {
	ID                int64     `db:"id" json:"id"`
	AdmissionID       int64     `db:"admission_id" json:"admission_id"`
	PatientID         int64     `db:"patient_id" json:"patient_id"`
	MotherPatientID   *int64    `db:"mother_patient_id" json:"mother_patient_id,omitempty"`
	BirthTime         time.Time `db:"birth_time" json:"birth_time"`
	PlaceID           *int64    `db:"place_id" json:"place_id,omitempty"`
	WeightGrams       *int      `db:"weight_grams" json:"weight_grams,omitempty"`
	HeightCm          *float64  `db:"height_cm" json:"height_cm,omitempty"`
	HeadCircumference *float64  `db:"head_circumference_cm" json:"head_circumference_cm,omitempty"`
	ApgarFiveMin      *int      `db:"apgar_5min" json:"apgar_5min,omitempty"`
	ApgarTenMin       *int      `db:"apgar_10min" json:"apgar_10min,omitempty"`
	DeliveryType      *string   `db:"delivery_type" json:"delivery_type,omitempty"`
	DeliveryPosition  *string   `db:"delivery_position" json:"delivery_position,omitempty"`
	HepBApplied       bool      `db:"hep_b_applied" json:"hep_b_applied"`
	BCGApplied        bool      `db:"bcg_applied" json:"bcg_applied"`
	AttendedBy        *int64    `db:"attended_by" json:"attended_by,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// BirthPayload is the optional newborn section of an admission submission.
// MotherDocumentNumber feeds the neonate-mother linkage rule and is
// resolved to MotherPatientID inside the transaction.
type BirthPayload struct {
	MotherDocumentNumber *string    `json:"mother_document_number"`
	BirthTime            *time.Time `json:"birth_time"`
	PlaceID              *int64     `json:"place_id"`
	WeightGrams          *int       `json:"weight_grams"`
	HeightCm             *float64   `json:"height_cm"`
	HeadCircumference    *float64   `json:"head_circumference_cm"`
	ApgarFiveMin         *int       `json:"apgar_5min"`
	ApgarTenMin          *int       `json:"apgar_10min"`
	DeliveryType         *string    `json:"delivery_type"`
	DeliveryPosition     *string    `json:"delivery_position"`
	HepBApplied          *bool      `json:"hep_b_applied"`
	BCGApplied           *bool      `json:"bcg_applied"`
	AttendedBy           *int64     `json:"attended_by"`
}

func (p *BirthPayload) HasMotherDocument() bool {
	return p != nil && p.MotherDocumentNumber != nil && *p.MotherDocumentNumber != ""
}
