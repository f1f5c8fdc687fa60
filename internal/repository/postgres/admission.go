package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

type admissionRepository struct {
	db *sqlx.DB
}

func NewAdmissionRepository(db *sqlx.DB) repository.AdmissionRepository {
	return &admissionRepository{db: db}
}

func (r *admissionRepository) Create(ctx context.Context, uow repository.UnitOfWork, admission *model.Admission) (int64, error) {
	query := `
		INSERT INTO emergency_admissions (
			patient_id, admission_date, arrival_mode_id,
			arrival_condition_id, origin_facility, consultation_reason,
			current_illness, status, companion_name, companion_phone,
			companion_relationship_id, registered_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	now := time.Now()
	admission.CreatedAt = now
	admission.UpdatedAt = now

	var id int64
	row := ext(r.db, uow).QueryRowxContext(ctx, query,
		admission.PatientID,
		admission.AdmissionDate,
		admission.ArrivalModeID,
		admission.ArrivalConditionID,
		admission.OriginFacility,
		admission.ConsultationReason,
		admission.CurrentIllness,
		admission.Status,
		admission.CompanionName,
		admission.CompanionPhone,
		admission.CompanionRelationship,
		admission.RegisteredBy,
		admission.CreatedAt,
		admission.UpdatedAt,
	)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create admission: %w", translateErr(err))
	}
	admission.ID = id
	return id, nil
}

func (r *admissionRepository) FindOpen(ctx context.Context, patientID int64) (*model.Admission, error) {
	query := `
		SELECT * FROM emergency_admissions
		WHERE patient_id = $1 AND status <> $2
		ORDER BY admission_date DESC
		LIMIT 1
	`
	var admission model.Admission
	if err := r.db.GetContext(ctx, &admission, query, patientID, model.AdmissionStatusDischarged); err != nil {
		return nil, translateErr(err)
	}
	return &admission, nil
}

func (r *admissionRepository) LatestSince(ctx context.Context, patientID int64, since time.Time) (*model.Admission, error) {
	query := `
		SELECT * FROM emergency_admissions
		WHERE patient_id = $1 AND admission_date >= $2
		ORDER BY admission_date DESC
		LIMIT 1
	`
	var admission model.Admission
	if err := r.db.GetContext(ctx, &admission, query, patientID, since); err != nil {
		return nil, translateErr(err)
	}
	return &admission, nil
}
