package model

import (
	"time"
)

// Identity document types seeded in cat_identity_types.
const (
	IdentityCedula       int64 = 1
	IdentityPassport     int64 = 2
	IdentityUnidentified int64 = 3 // patient without legal identification, document_number holds the 17-char MSP code
)

// Catalog IDs for biological sex (cat_sexes).
const (
	SexMale   int64 = 1
	SexFemale int64 = 2
)

type Patient struct {
	ID                   int64     `db:"id" json:"id"`
	IdentityTypeID       int64     `db:"identity_type_id" json:"identity_type_id"`
	DocumentNumber       string    `db:"document_number" json:"document_number"`
	FirstName            string    `db:"first_name" json:"first_name"`
	MiddleName           *string   `db:"middle_name" json:"middle_name,omitempty"`
	FirstSurname         string    `db:"first_surname" json:"first_surname"`
	SecondSurname        *string   `db:"second_surname" json:"second_surname,omitempty"`
	BirthDate            Date      `db:"birth_date" json:"birth_date"`
	SexID                *int64    `db:"sex_id" json:"sex_id,omitempty"`
	CivilStatusID        *int64    `db:"civil_status_id" json:"civil_status_id,omitempty"`
	NationalityID        *int64    `db:"nationality_id" json:"nationality_id,omitempty"`
	ForeignNational      bool      `db:"foreign_national" json:"foreign_national"`
	ProvinceCode         *string   `db:"province_code" json:"province_code,omitempty"`
	ParishID             *int64    `db:"parish_id" json:"parish_id,omitempty"`
	EthnicityID          *int64    `db:"ethnicity_id" json:"ethnicity_id,omitempty"`
	EthnicNationalityID  *int64    `db:"ethnic_nationality_id" json:"ethnic_nationality_id,omitempty"`
	EthnicGroupID        *int64    `db:"ethnic_group_id" json:"ethnic_group_id,omitempty"`
	EducationLevelID     *int64    `db:"education_level_id" json:"education_level_id,omitempty"`
	Occupation           *string   `db:"occupation" json:"occupation,omitempty"`
	InsuranceTypeID      *int64    `db:"insurance_type_id" json:"insurance_type_id,omitempty"`
	HasDisability        bool      `db:"has_disability" json:"has_disability"`
	DisabilityType       *string   `db:"disability_type" json:"disability_type,omitempty"`
	DisabilityPercentage *int      `db:"disability_percentage" json:"disability_percentage,omitempty"`
	Address              *string   `db:"address" json:"address,omitempty"`
	Phone                *string   `db:"phone" json:"phone,omitempty"`
	Email                *string   `db:"email" json:"email,omitempty"`
	CreatedBy            int64     `db:"created_by" json:"created_by"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// IsTemporaryIdentity reports whether the stored document number is the
// derived 17-character code rather than a legal document.
func (p *Patient) IsTemporaryIdentity() bool {
	return p.IdentityTypeID == IdentityUnidentified
}

// Apply overwrites every supplied payload field. Absent fields (nil
// pointers) leave the stored value untouched.
func (p *Patient) Apply(in *PatientPayload) {
	if in.IdentityTypeID != nil {
		p.IdentityTypeID = *in.IdentityTypeID
	}
	if in.DocumentNumber != nil {
		p.DocumentNumber = *in.DocumentNumber
	}
	if in.FirstName != nil {
		p.FirstName = *in.FirstName
	}
	if in.MiddleName != nil {
		p.MiddleName = in.MiddleName
	}
	if in.FirstSurname != nil {
		p.FirstSurname = *in.FirstSurname
	}
	if in.SecondSurname != nil {
		p.SecondSurname = in.SecondSurname
	}
	if in.BirthDate != nil {
		p.BirthDate = *in.BirthDate
	}
	if in.SexID != nil {
		p.SexID = in.SexID
	}
	if in.CivilStatusID != nil {
		p.CivilStatusID = in.CivilStatusID
	}
	if in.NationalityID != nil {
		p.NationalityID = in.NationalityID
	}
	if in.ForeignNational != nil {
		p.ForeignNational = *in.ForeignNational
	}
	if in.ProvinceCode != nil {
		p.ProvinceCode = in.ProvinceCode
	}
	if in.ParishID != nil {
		p.ParishID = in.ParishID
	}
	if in.EthnicityID != nil {
		p.EthnicityID = in.EthnicityID
	}
	if in.EthnicNationalityID != nil {
		p.EthnicNationalityID = in.EthnicNationalityID
	}
	if in.EthnicGroupID != nil {
		p.EthnicGroupID = in.EthnicGroupID
	}
	if in.EducationLevelID != nil {
		p.EducationLevelID = in.EducationLevelID
	}
	if in.Occupation != nil {
		p.Occupation = in.Occupation
	}
	if in.InsuranceTypeID != nil {
		p.InsuranceTypeID = in.InsuranceTypeID
	}
	if in.HasDisability != nil {
		p.HasDisability = *in.HasDisability
	}
	if in.DisabilityType != nil {
		p.DisabilityType = in.DisabilityType
	}
	if in.DisabilityPercentage != nil {
		p.DisabilityPercentage = in.DisabilityPercentage
	}
	if in.Address != nil {
		p.Address = in.Address
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.Email != nil {
		p.Email = in.Email
	}
}

// PatientPayload is the patient section of an admission submission. Every
// field is a pointer so that "not supplied" can be told apart from an
// explicit empty value: supplied fields fully overwrite the stored row.
type PatientPayload struct {
	ID                   *int64  `json:"id"`
	IdentityTypeID       *int64  `json:"identity_type_id"`
	DocumentNumber       *string `json:"document_number"`
	FirstName            *string `json:"first_name"`
	MiddleName           *string `json:"middle_name"`
	FirstSurname         *string `json:"first_surname"`
	SecondSurname        *string `json:"second_surname"`
	BirthDate            *Date   `json:"birth_date"`
	SexID                *int64  `json:"sex_id"`
	CivilStatusID        *int64  `json:"civil_status_id"`
	NationalityID        *int64  `json:"nationality_id"`
	ForeignNational      *bool   `json:"foreign_national"`
	ProvinceCode         *string `json:"province_code"`
	ParishID             *int64  `json:"parish_id"`
	EthnicityID          *int64  `json:"ethnicity_id"`
	EthnicNationalityID  *int64  `json:"ethnic_nationality_id"`
	EthnicGroupID        *int64  `json:"ethnic_group_id"`
	EducationLevelID     *int64  `json:"education_level_id"`
	Occupation           *string `json:"occupation"`
	InsuranceTypeID      *int64  `json:"insurance_type_id"`
	HasDisability        *bool   `json:"has_disability"`
	DisabilityType       *string `json:"disability_type"`
	DisabilityPercentage *int    `json:"disability_percentage"`
	Address              *string `json:"address"`
	Phone                *string `json:"phone"`
	Email                *string `json:"email"`
}

