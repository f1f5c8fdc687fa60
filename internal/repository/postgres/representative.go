package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

type representativeRepository struct {
	db *sqlx.DB
}

func NewRepresentativeRepository(db *sqlx.DB) repository.RepresentativeRepository {
	return &representativeRepository{db: db}
}

func (r *representativeRepository) FindByPatient(ctx context.Context, uow repository.UnitOfWork, patientID int64) (*model.Representative, error) {
	query := `SELECT * FROM patient_representatives WHERE patient_id = $1`
	var rep model.Representative
	if err := sqlx.GetContext(ctx, ext(r.db, uow), &rep, query, patientID); err != nil {
		return nil, translateErr(err)
	}
	return &rep, nil
}

func (r *representativeRepository) Create(ctx context.Context, uow repository.UnitOfWork, rep *model.Representative) (int64, error) {
	query := `
		INSERT INTO patient_representatives (
			patient_id, identity_type_id, document_number, first_name,
			middle_name, first_surname, second_surname, relationship_id,
			phone, address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	now := time.Now()
	rep.CreatedAt = now
	rep.UpdatedAt = now

	var id int64
	row := ext(r.db, uow).QueryRowxContext(ctx, query,
		rep.PatientID,
		rep.IdentityTypeID,
		rep.DocumentNumber,
		rep.FirstName,
		rep.MiddleName,
		rep.FirstSurname,
		rep.SecondSurname,
		rep.RelationshipID,
		rep.Phone,
		rep.Address,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create representative: %w", translateErr(err))
	}
	rep.ID = id
	return id, nil
}

func (r *representativeRepository) Update(ctx context.Context, uow repository.UnitOfWork, rep *model.Representative) error {
	query := `
		UPDATE patient_representatives SET
			identity_type_id = $1, document_number = $2, first_name = $3,
			middle_name = $4, first_surname = $5, second_surname = $6,
			relationship_id = $7, phone = $8, address = $9, updated_at = $10
		WHERE patient_id = $11
	`
	rep.UpdatedAt = time.Now()

	_, err := ext(r.db, uow).ExecContext(ctx, query,
		rep.IdentityTypeID,
		rep.DocumentNumber,
		rep.FirstName,
		rep.MiddleName,
		rep.FirstSurname,
		rep.SecondSurname,
		rep.RelationshipID,
		rep.Phone,
		rep.Address,
		rep.UpdatedAt,
		rep.PatientID,
	)
	if err != nil {
		return fmt.Errorf("failed to update representative: %w", translateErr(err))
	}
	return nil
}
