package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

type birthRecordRepository struct {
	db *sqlx.DB
}

func NewBirthRecordRepository(db *sqlx.DB) repository.BirthRecordRepository {
	return &birthRecordRepository{db: db}
}

func (r *birthRecordRepository) Create(ctx context.Context, uow repository.UnitOfWork, record *model.BirthRecord) (int64, error) {
	query := `
		INSERT INTO birth_records (
			admission_id, patient_id, mother_patient_id, birth_time,
			place_id, weight_grams, height_cm, head_circumference_cm,
			apgar_5min, apgar_10min, delivery_type, delivery_position,
			hep_b_applied, bcg_applied, attended_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17
		) RETURNING id
	`
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	var id int64
	row := ext(r.db, uow).QueryRowxContext(ctx, query,
		record.AdmissionID,
		record.PatientID,
		record.MotherPatientID,
		record.BirthTime,
		record.PlaceID,
		record.WeightGrams,
		record.HeightCm,
		record.HeadCircumference,
		record.ApgarFiveMin,
		record.ApgarTenMin,
		record.DeliveryType,
		record.DeliveryPosition,
		record.HepBApplied,
		record.BCGApplied,
		record.AttendedBy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create birth record: %w", translateErr(err))
	}
	record.ID = id
	return id, nil
}
