package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindByID(ctx context.Context, uow repository.UnitOfWork, id int64) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, ext(r.db, uow), &patient, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &patient, nil
}

func (r *patientRepository) FindByDocument(ctx context.Context, uow repository.UnitOfWork, document string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE document_number = $1`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, ext(r.db, uow), &patient, query, document); err != nil {
		return nil, translateErr(err)
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, uow repository.UnitOfWork, patient *model.Patient) (int64, error) {
	query := `
		INSERT INTO patients (
			identity_type_id, document_number, first_name, middle_name,
			first_surname, second_surname, birth_date, sex_id,
			civil_status_id, nationality_id, foreign_national, province_code,
			parish_id, ethnicity_id, ethnic_nationality_id, ethnic_group_id,
			education_level_id, occupation, insurance_type_id, has_disability,
			disability_type, disability_percentage, address, phone, email,
			created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		) RETURNING id
	`
	now := time.Now()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	var id int64
	row := ext(r.db, uow).QueryRowxContext(ctx, query,
		patient.IdentityTypeID,
		patient.DocumentNumber,
		patient.FirstName,
		patient.MiddleName,
		patient.FirstSurname,
		patient.SecondSurname,
		patient.BirthDate,
		patient.SexID,
		patient.CivilStatusID,
		patient.NationalityID,
		patient.ForeignNational,
		patient.ProvinceCode,
		patient.ParishID,
		patient.EthnicityID,
		patient.EthnicNationalityID,
		patient.EthnicGroupID,
		patient.EducationLevelID,
		patient.Occupation,
		patient.InsuranceTypeID,
		patient.HasDisability,
		patient.DisabilityType,
		patient.DisabilityPercentage,
		patient.Address,
		patient.Phone,
		patient.Email,
		patient.CreatedBy,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create patient: %w", translateErr(err))
	}
	patient.ID = id
	return id, nil
}

func (r *patientRepository) Update(ctx context.Context, uow repository.UnitOfWork, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			identity_type_id = $1, document_number = $2, first_name = $3,
			middle_name = $4, first_surname = $5, second_surname = $6,
			birth_date = $7, sex_id = $8, civil_status_id = $9,
			nationality_id = $10, foreign_national = $11, province_code = $12,
			parish_id = $13, ethnicity_id = $14, ethnic_nationality_id = $15,
			ethnic_group_id = $16, education_level_id = $17, occupation = $18,
			insurance_type_id = $19, has_disability = $20,
			disability_type = $21, disability_percentage = $22, address = $23,
			phone = $24, email = $25, updated_at = $26
		WHERE id = $27
	`
	patient.UpdatedAt = time.Now()

	_, err := ext(r.db, uow).ExecContext(ctx, query,
		patient.IdentityTypeID,
		patient.DocumentNumber,
		patient.FirstName,
		patient.MiddleName,
		patient.FirstSurname,
		patient.SecondSurname,
		patient.BirthDate,
		patient.SexID,
		patient.CivilStatusID,
		patient.NationalityID,
		patient.ForeignNational,
		patient.ProvinceCode,
		patient.ParishID,
		patient.EthnicityID,
		patient.EthnicNationalityID,
		patient.EthnicGroupID,
		patient.EducationLevelID,
		patient.Occupation,
		patient.InsuranceTypeID,
		patient.HasDisability,
		patient.DisabilityType,
		patient.DisabilityPercentage,
		patient.Address,
		patient.Phone,
		patient.Email,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", translateErr(err))
	}
	return nil
}
