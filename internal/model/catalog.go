package model

// Reference catalogs are read-only at the scope of this service; they are
// seeded out of band and looked up by numeric key.

// Ethnicity is a level-1 ethnic self-identification entry
// (cat_ethnicities). RequiresDetail marks the values ("Indígena",
// "Montubio") whose selection cascades into nationality and group.
type Ethnicity struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	RequiresDetail bool   `db:"requires_detail" json:"requires_detail"`
}

// EthnicNationality is a level-2 entry scoped to its parent ethnicity.
type EthnicNationality struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	EthnicityID int64  `db:"ethnicity_id" json:"ethnicity_id"`
}

// EthnicGroup is a level-3 entry scoped to its parent nationality.
type EthnicGroup struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	NationalityID int64  `db:"nationality_id" json:"nationality_id"`
}

// ArrivalMode names how the patient reached the emergency unit
// (cat_arrival_modes). ArrivalModeReferred triggers the referral
// provenance rule.
type ArrivalMode struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

const ArrivalModeReferred = "Referido"

// ArrivalCondition names the patient's state on arrival
// (cat_arrival_conditions).
type ArrivalCondition struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// EthnicSelection is the classification triple stored on a patient.
type EthnicSelection struct {
	EthnicityID   *int64
	NationalityID *int64
	GroupID       *int64
}
