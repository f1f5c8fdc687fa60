package model

import "time"

// Representative is the legal guardian attached to a minor or neonate
// patient. At most one row exists per patient.
type Representative struct {
	ID             int64     `db:"id" json:"id"`
	PatientID      int64     `db:"patient_id" json:"patient_id"`
	IdentityTypeID int64     `db:"identity_type_id" json:"identity_type_id"`
	DocumentNumber string    `db:"document_number" json:"document_number"`
	FirstName      string    `db:"first_name" json:"first_name"`
	MiddleName     *string   `db:"middle_name" json:"middle_name,omitempty"`
	FirstSurname   string    `db:"first_surname" json:"first_surname"`
	SecondSurname  *string   `db:"second_surname" json:"second_surname,omitempty"`
	RelationshipID int64     `db:"relationship_id" json:"relationship_id"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Address        *string   `db:"address" json:"address,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// RepresentativePayload is the optional representative section of an
// admission submission. The upsert only runs when DocumentNumber is
// non-empty.
type RepresentativePayload struct {
	IdentityTypeID *int64  `json:"identity_type_id"`
	DocumentNumber *string `json:"document_number"`
	FirstName      *string `json:"first_name"`
	MiddleName     *string `json:"middle_name"`
	FirstSurname   *string `json:"first_surname"`
	SecondSurname  *string `json:"second_surname"`
	RelationshipID *int64  `json:"relationship_id"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
}

func (p *RepresentativePayload) HasDocument() bool {
	return p != nil && p.DocumentNumber != nil && *p.DocumentNumber != ""
}
