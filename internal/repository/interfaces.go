package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sigemech/admission-api/internal/model"
)

// Sentinel errors translated from the storage engine. ErrUniqueViolation
// is the safety net for concurrent find-then-create races on the patient
// document number.
var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// UnitOfWork is one database transaction. Every write of an admission
// commit goes through the same UnitOfWork; nothing can accidentally run
// outside the transaction boundary.
type UnitOfWork interface {
	Commit() error
	Rollback() error
}

// TxManager opens units of work.
type TxManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Repositories take an optional UnitOfWork: nil runs the statement on the
// plain connection, non-nil inside the transaction.

type PatientRepository interface {
	FindByID(ctx context.Context, uow UnitOfWork, id int64) (*model.Patient, error)
	FindByDocument(ctx context.Context, uow UnitOfWork, document string) (*model.Patient, error)
	Create(ctx context.Context, uow UnitOfWork, patient *model.Patient) (int64, error)
	Update(ctx context.Context, uow UnitOfWork, patient *model.Patient) error
}

type RepresentativeRepository interface {
	FindByPatient(ctx context.Context, uow UnitOfWork, patientID int64) (*model.Representative, error)
	Create(ctx context.Context, uow UnitOfWork, rep *model.Representative) (int64, error)
	Update(ctx context.Context, uow UnitOfWork, rep *model.Representative) error
}

type AdmissionRepository interface {
	Create(ctx context.Context, uow UnitOfWork, admission *model.Admission) (int64, error)
	// FindOpen returns the most recent admission whose status is not
	// discharged, or ErrNotFound.
	FindOpen(ctx context.Context, patientID int64) (*model.Admission, error)
	// LatestSince returns the most recent admission created at or after
	// the given instant, or ErrNotFound.
	LatestSince(ctx context.Context, patientID int64, since time.Time) (*model.Admission, error)
}

type BirthRecordRepository interface {
	Create(ctx context.Context, uow UnitOfWork, record *model.BirthRecord) (int64, error)
}

// CatalogRepository reads the reference tables. The service never writes
// to them.
type CatalogRepository interface {
	Ethnicity(ctx context.Context, id int64) (*model.Ethnicity, error)
	Ethnicities(ctx context.Context) ([]*model.Ethnicity, error)
	Nationality(ctx context.Context, id int64) (*model.EthnicNationality, error)
	NationalitiesForEthnicity(ctx context.Context, ethnicityID int64) ([]*model.EthnicNationality, error)
	Group(ctx context.Context, id int64) (*model.EthnicGroup, error)
	GroupsForNationality(ctx context.Context, nationalityID int64) ([]*model.EthnicGroup, error)
	ArrivalMode(ctx context.Context, id int64) (*model.ArrivalMode, error)
	ArrivalModes(ctx context.Context) ([]*model.ArrivalMode, error)
	ArrivalConditions(ctx context.Context) ([]*model.ArrivalCondition, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByDocument(ctx context.Context, document string) (*model.User, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, uow UnitOfWork, event *model.OutboxEvent) error
	FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}
