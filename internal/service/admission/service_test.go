package admission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
	"github.com/sigemech/admission-api/internal/service/catalog"
	"github.com/sigemech/admission-api/internal/service/patient"
	"github.com/sigemech/admission-api/pkg/apperror"
)

func ptr[T any](v T) *T { return &v }

// --- fakes -----------------------------------------------------------------

type fakeUOW struct {
	committed  bool
	rolledBack bool
}

func (u *fakeUOW) Commit() error   { u.committed = true; return nil }
func (u *fakeUOW) Rollback() error { u.rolledBack = true; return nil }

type fakeTxManager struct {
	uows []*fakeUOW
}

func (m *fakeTxManager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	u := &fakeUOW{}
	m.uows = append(m.uows, u)
	return u, nil
}

type fakePatientRepo struct {
	rows    map[int64]model.Patient
	byDoc   map[string]int64
	nextID  int64
	updated int

	// createErrs are popped one per Create call; when seedOnConflict is
	// set, a popped unique violation also registers the row, simulating
	// the concurrent writer that won the race.
	createErrs     []error
	seedOnConflict bool
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		rows:           map[int64]model.Patient{},
		byDoc:          map[string]int64{},
		seedOnConflict: true,
	}
}

func (r *fakePatientRepo) seed(p model.Patient) int64 {
	r.nextID++
	p.ID = r.nextID
	r.rows[p.ID] = p
	r.byDoc[p.DocumentNumber] = p.ID
	return p.ID
}

func (r *fakePatientRepo) FindByID(ctx context.Context, uow repository.UnitOfWork, id int64) (*model.Patient, error) {
	if p, ok := r.rows[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakePatientRepo) FindByDocument(ctx context.Context, uow repository.UnitOfWork, document string) (*model.Patient, error) {
	if id, ok := r.byDoc[document]; ok {
		cp := r.rows[id]
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakePatientRepo) Create(ctx context.Context, uow repository.UnitOfWork, p *model.Patient) (int64, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			if r.seedOnConflict && errors.Is(err, repository.ErrUniqueViolation) {
				r.seed(*p)
			}
			return 0, err
		}
	}
	return r.seed(*p), nil
}

func (r *fakePatientRepo) Update(ctx context.Context, uow repository.UnitOfWork, p *model.Patient) error {
	r.rows[p.ID] = *p
	r.byDoc[p.DocumentNumber] = p.ID
	r.updated++
	return nil
}

type fakeRepRepo struct {
	byPatient map[int64]model.Representative
	nextID    int64
	created   int
	updated   int
}

func newFakeRepRepo() *fakeRepRepo {
	return &fakeRepRepo{byPatient: map[int64]model.Representative{}}
}

func (r *fakeRepRepo) FindByPatient(ctx context.Context, uow repository.UnitOfWork, patientID int64) (*model.Representative, error) {
	if rep, ok := r.byPatient[patientID]; ok {
		cp := rep
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRepRepo) Create(ctx context.Context, uow repository.UnitOfWork, rep *model.Representative) (int64, error) {
	r.nextID++
	rep.ID = r.nextID
	r.byPatient[rep.PatientID] = *rep
	r.created++
	return rep.ID, nil
}

func (r *fakeRepRepo) Update(ctx context.Context, uow repository.UnitOfWork, rep *model.Representative) error {
	r.byPatient[rep.PatientID] = *rep
	r.updated++
	return nil
}

type fakeAdmissionRepo struct {
	rows   []model.Admission
	nextID int64
	// recent maps patient ID to an admission returned by LatestSince when
	// it falls inside the window.
	recent map[int64]model.Admission
}

func newFakeAdmissionRepo() *fakeAdmissionRepo {
	return &fakeAdmissionRepo{recent: map[int64]model.Admission{}}
}

func (r *fakeAdmissionRepo) Create(ctx context.Context, uow repository.UnitOfWork, adm *model.Admission) (int64, error) {
	r.nextID++
	adm.ID = r.nextID
	r.rows = append(r.rows, *adm)
	return adm.ID, nil
}

func (r *fakeAdmissionRepo) FindOpen(ctx context.Context, patientID int64) (*model.Admission, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].PatientID == patientID && r.rows[i].Status != model.AdmissionStatusDischarged {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAdmissionRepo) LatestSince(ctx context.Context, patientID int64, since time.Time) (*model.Admission, error) {
	if adm, ok := r.recent[patientID]; ok && !adm.AdmissionDate.Before(since) {
		cp := adm
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

type fakeBirthRepo struct {
	records   []model.BirthRecord
	nextID    int64
	createErr error
}

func (r *fakeBirthRepo) Create(ctx context.Context, uow repository.UnitOfWork, rec *model.BirthRecord) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	rec.ID = r.nextID
	r.records = append(r.records, *rec)
	return rec.ID, nil
}

type fakeOutboxRepo struct {
	events []model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(ctx context.Context, uow repository.UnitOfWork, event *model.OutboxEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeOutboxRepo) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (r *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID) error    { return nil }

type fakeCatalogRepo struct {
	ethnicities   map[int64]model.Ethnicity
	nationalities map[int64]model.EthnicNationality
	groups        map[int64]model.EthnicGroup
	arrivalModes  map[int64]model.ArrivalMode
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		ethnicities: map[int64]model.Ethnicity{
			1: {ID: 1, Name: "Indígena", RequiresDetail: true},
			2: {ID: 2, Name: "Mestizo"},
		},
		nationalities: map[int64]model.EthnicNationality{
			5: {ID: 5, Name: "Kichwa", EthnicityID: 1},
		},
		groups: map[int64]model.EthnicGroup{
			9: {ID: 9, Name: "Otavalo", NationalityID: 5},
		},
		arrivalModes: map[int64]model.ArrivalMode{
			1: {ID: 1, Name: "Ambulatorio"},
			2: {ID: 2, Name: model.ArrivalModeReferred},
		},
	}
}

func (r *fakeCatalogRepo) Ethnicity(ctx context.Context, id int64) (*model.Ethnicity, error) {
	if e, ok := r.ethnicities[id]; ok {
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) Ethnicities(ctx context.Context) ([]*model.Ethnicity, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) Nationality(ctx context.Context, id int64) (*model.EthnicNationality, error) {
	if n, ok := r.nationalities[id]; ok {
		return &n, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) NationalitiesForEthnicity(ctx context.Context, ethnicityID int64) ([]*model.EthnicNationality, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) Group(ctx context.Context, id int64) (*model.EthnicGroup, error) {
	if g, ok := r.groups[id]; ok {
		return &g, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) GroupsForNationality(ctx context.Context, nationalityID int64) ([]*model.EthnicGroup, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ArrivalMode(ctx context.Context, id int64) (*model.ArrivalMode, error) {
	if m, ok := r.arrivalModes[id]; ok {
		return &m, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) ArrivalModes(ctx context.Context) ([]*model.ArrivalMode, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ArrivalConditions(ctx context.Context) ([]*model.ArrivalCondition, error) {
	return nil, nil
}

// --- fixture ---------------------------------------------------------------

const testFacilityID int64 = 7

type fixture struct {
	now      time.Time
	tx       *fakeTxManager
	patients *fakePatientRepo
	reps     *fakeRepRepo
	adms     *fakeAdmissionRepo
	births   *fakeBirthRepo
	outbox   *fakeOutboxRepo
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		now:      time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		tx:       &fakeTxManager{},
		patients: newFakePatientRepo(),
		reps:     newFakeRepRepo(),
		adms:     newFakeAdmissionRepo(),
		births:   &fakeBirthRepo{},
		outbox:   &fakeOutboxRepo{},
	}
	catalogSvc := catalog.NewService(newFakeCatalogRepo())
	patientSvc := patient.NewService(f.patients, f.adms, zerolog.Nop())
	rules := NewValidator(RuleConfig{
		MaternalRecencyWindow: 48 * time.Hour,
		ClockSkewTolerance:    5 * time.Minute,
		FacilityID:            testFacilityID,
	}, catalogSvc, f.patients, f.adms)
	rules.now = func() time.Time { return f.now }

	f.svc = NewService(f.tx, patientSvc, catalogSvc, rules,
		f.reps, f.adms, f.births, f.patients, f.outbox, nil, zerolog.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func validRequest() *model.CreateAdmissionRequest {
	return &model.CreateAdmissionRequest{
		Patient: &model.PatientPayload{
			IdentityTypeID: ptr(model.IdentityCedula),
			DocumentNumber: ptr("1710034065"),
			FirstName:      ptr("MARIA"),
			FirstSurname:   ptr("PEREZ"),
			BirthDate:      ptr(model.NewDate(1994, time.May, 17)),
			SexID:          ptr(model.SexFemale),
		},
		Admission: &model.AdmissionPayload{
			ArrivalModeID:      ptr(int64(1)),
			ConsultationReason: "dolor abdominal agudo",
		},
	}
}

// --- tests -----------------------------------------------------------------

func TestCreateNewPatientCommits(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Create(context.Background(), validRequest(), 42)
	require.NoError(t, err)
	assert.NotZero(t, result.PatientID)
	assert.NotZero(t, result.AdmissionID)

	require.Len(t, f.tx.uows, 1)
	assert.True(t, f.tx.uows[0].committed)
	assert.False(t, f.tx.uows[0].rolledBack)

	require.Len(t, f.adms.rows, 1)
	adm := f.adms.rows[0]
	assert.Equal(t, model.AdmissionStatusWaiting, adm.Status)
	assert.Equal(t, f.now, adm.AdmissionDate)
	assert.Equal(t, int64(42), adm.RegisteredBy)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventAdmissionCreated, f.outbox.events[0].EventType)
	assert.Equal(t, model.OutboxStatusPending, f.outbox.events[0].Status)
	var payload admissionCreatedEvent
	require.NoError(t, json.Unmarshal(f.outbox.events[0].Payload, &payload))
	assert.Equal(t, result.AdmissionID, payload.AdmissionID)
	assert.Equal(t, "1710034065", payload.DocumentNumber)
}

func TestCreateExistingPatientUpdates(t *testing.T) {
	f := newFixture(t)
	id := f.patients.seed(model.Patient{
		IdentityTypeID: model.IdentityCedula,
		DocumentNumber: "1710034065",
		FirstName:      "MARIA",
		FirstSurname:   "GOMEZ",
		BirthDate:      model.NewDate(1994, time.May, 17),
	})

	req := validRequest()
	req.Patient.FirstSurname = ptr("PEREZ")
	result, err := f.svc.Create(context.Background(), req, 42)
	require.NoError(t, err)
	assert.Equal(t, id, result.PatientID)
	assert.Equal(t, 1, f.patients.updated)
	assert.Equal(t, "PEREZ", f.patients.rows[id].FirstSurname)
}

func TestClientAdmissionTimestampIgnored(t *testing.T) {
	f := newFixture(t)

	// The payload has no timestamp field at all; whatever the client puts
	// in the raw JSON is dropped at decode time. The stored stamp is the
	// server clock.
	_, err := f.svc.Create(context.Background(), validRequest(), 1)
	require.NoError(t, err)
	assert.Equal(t, f.now, f.adms.rows[0].AdmissionDate)
}

func TestReferralRequiresOriginFacility(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Admission.ArrivalModeID = ptr(int64(2))

	_, err := f.svc.Create(context.Background(), req, 1)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, RuleReferralProvenance, appErr.Rule)

	// rejected before the transaction opened
	assert.Empty(t, f.tx.uows)
	assert.Empty(t, f.adms.rows)

	req.Admission.OriginFacility = ptr("Centro de Salud Conocoto")
	_, err = f.svc.Create(context.Background(), req, 1)
	assert.NoError(t, err)
}

func TestFutureBirthDateRejected(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	future := f.now.AddDate(0, 0, 1)
	req.Patient.BirthDate = ptr(model.Date{Time: future})

	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleNonFutureTimestamp, appErr.Rule)
	assert.Empty(t, f.tx.uows)
}

func TestDisabilityPercentageFloor(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Patient.HasDisability = ptr(true)
	req.Patient.DisabilityPercentage = ptr(15)

	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleDisabilityFloor, appErr.Rule)
	assert.Empty(t, f.tx.uows)

	req.Patient.DisabilityPercentage = ptr(30)
	_, err = f.svc.Create(context.Background(), req, 1)
	assert.NoError(t, err)
}

func TestStoredDisabilityFlagBindsUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.patients.seed(model.Patient{
		IdentityTypeID:       model.IdentityCedula,
		DocumentNumber:       "1710034065",
		FirstName:            "MARIA",
		FirstSurname:         "PEREZ",
		BirthDate:            model.NewDate(1994, time.May, 17),
		HasDisability:        true,
		DisabilityPercentage: ptr(45),
	})

	// the update supplies only the percentage; the stored flag still binds
	req := validRequest()
	req.Patient.DisabilityPercentage = ptr(15)

	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleDisabilityFloor, appErr.Rule)
	assert.Empty(t, f.tx.uows)
	require.NotNil(t, f.patients.rows[id].DisabilityPercentage)
	assert.Equal(t, 45, *f.patients.rows[id].DisabilityPercentage)

	req.Patient.DisabilityPercentage = ptr(35)
	_, err = f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, 35, *f.patients.rows[id].DisabilityPercentage)
}

func neonateRequest(f *fixture) *model.CreateAdmissionRequest {
	req := validRequest()
	born := f.now.AddDate(0, 0, -5)
	req.Patient.IdentityTypeID = ptr(model.IdentityUnidentified)
	req.Patient.DocumentNumber = nil
	req.Patient.FirstName = ptr("BEBE")
	req.Patient.FirstSurname = ptr("PEREZ")
	req.Patient.BirthDate = ptr(model.Date{Time: born})
	req.Patient.ProvinceCode = ptr("17")
	req.Patient.SexID = ptr(model.SexMale)
	req.Birth = &model.BirthPayload{
		BirthTime: ptr(born),
	}
	return req
}

func TestNeonateRequiresMotherDocument(t *testing.T) {
	f := newFixture(t)
	req := neonateRequest(f)
	req.Birth.MotherDocumentNumber = nil

	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleNeonateLinkage, appErr.Rule)
	assert.Empty(t, f.tx.uows)
}

func TestStoredBirthDateTriggersNeonateRule(t *testing.T) {
	f := newFixture(t)
	id := f.patients.seed(model.Patient{
		IdentityTypeID: model.IdentityUnidentified,
		DocumentNumber: "BEXPEX17202603059",
		FirstName:      "BEBE",
		FirstSurname:   "PEREZ",
		BirthDate:      model.Date{Time: f.now.AddDate(0, 0, -5)},
	})

	// resolved by internal ID with birth_date omitted; the stored date
	// still makes this a neonate without a mother linkage
	req := validRequest()
	req.Patient = &model.PatientPayload{ID: ptr(id)}
	req.Birth = nil

	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleNeonateLinkage, appErr.Rule)
	assert.Empty(t, f.tx.uows)
}

func TestFacilityDeliveryRequiresRecentMaternalAdmission(t *testing.T) {
	f := newFixture(t)
	motherID := f.patients.seed(model.Patient{
		IdentityTypeID: model.IdentityCedula,
		DocumentNumber: "0926687856",
		FirstName:      "ROSA",
		FirstSurname:   "VERA",
		SexID:          ptr(model.SexFemale),
		BirthDate:      model.NewDate(1998, time.January, 3),
	})

	req := neonateRequest(f)
	req.Birth.MotherDocumentNumber = ptr("0926687856")
	req.Birth.PlaceID = ptr(testFacilityID)

	// no admission in the window yet
	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleNeonateLinkage, appErr.Rule)

	f.adms.recent[motherID] = model.Admission{
		ID:            99,
		PatientID:     motherID,
		AdmissionDate: f.now.Add(-6 * time.Hour),
	}
	result, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	require.Len(t, f.births.records, 1)
	record := f.births.records[0]
	assert.Equal(t, result.PatientID, record.PatientID)
	assert.Equal(t, result.AdmissionID, record.AdmissionID)
	require.NotNil(t, record.MotherPatientID)
	assert.Equal(t, motherID, *record.MotherPatientID)
}

func TestFacilityDeliveryRejectsMalePatientAsMother(t *testing.T) {
	f := newFixture(t)
	f.patients.seed(model.Patient{
		IdentityTypeID: model.IdentityCedula,
		DocumentNumber: "0926687856",
		FirstName:      "PEDRO",
		FirstSurname:   "VERA",
		SexID:          ptr(model.SexMale),
		BirthDate:      model.NewDate(1998, time.January, 3),
	})

	req := neonateRequest(f)
	req.Birth.MotherDocumentNumber = ptr("0926687856")
	req.Birth.PlaceID = ptr(testFacilityID)

	_, err := f.svc.Create(context.Background(), req, 1)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, RuleNeonateLinkage, appErr.Rule)
}

func TestBirthInsertFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.births.createErr = errors.New("deadlock detected")

	req := neonateRequest(f)
	req.Birth.MotherDocumentNumber = ptr("0926687856")

	_, err := f.svc.Create(context.Background(), req, 1)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInternal, apperror.CodeOf(err))

	require.Len(t, f.tx.uows, 1)
	assert.True(t, f.tx.uows[0].rolledBack)
	assert.False(t, f.tx.uows[0].committed)
	assert.Empty(t, f.outbox.events)
}

func TestDuplicateIdentityRaceRetriesOnce(t *testing.T) {
	f := newFixture(t)
	// the concurrent writer wins the insert race once
	f.patients.createErrs = []error{repository.ErrUniqueViolation}

	result, err := f.svc.Create(context.Background(), validRequest(), 1)
	require.NoError(t, err)

	require.Len(t, f.tx.uows, 2)
	assert.True(t, f.tx.uows[0].rolledBack)
	assert.True(t, f.tx.uows[1].committed)

	// the retry found the winner's row and updated it
	assert.Equal(t, 1, f.patients.updated)
	winnerID := f.patients.byDoc["1710034065"]
	assert.Equal(t, winnerID, result.PatientID)
	require.Len(t, f.adms.rows, 1)
}

func TestDuplicateIdentityPersistingFails(t *testing.T) {
	f := newFixture(t)
	// both the first run and the retry hit the constraint without the
	// winner's row ever becoming visible
	f.patients.seedOnConflict = false
	f.patients.createErrs = []error{repository.ErrUniqueViolation, repository.ErrUniqueViolation}

	_, err := f.svc.Create(context.Background(), validRequest(), 1)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeDuplicateIdentity, apperror.CodeOf(err))
	require.Len(t, f.tx.uows, 2)
	assert.True(t, f.tx.uows[0].rolledBack)
	assert.True(t, f.tx.uows[1].rolledBack)
}

func TestRepresentativeUpsert(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Representative = &model.RepresentativePayload{
		IdentityTypeID: ptr(model.IdentityCedula),
		DocumentNumber: ptr("0102030400"),
		FirstName:      ptr("CARMEN"),
		FirstSurname:   ptr("PEREZ"),
		RelationshipID: ptr(int64(1)),
	}

	result, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.reps.created)
	assert.Equal(t, 0, f.reps.updated)

	// second admission refreshes the stored representative
	req.Patient.ID = ptr(result.PatientID)
	req.Representative.Phone = ptr("0999999999")
	_, err = f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.reps.created)
	assert.Equal(t, 1, f.reps.updated)
	rep := f.reps.byPatient[result.PatientID]
	require.NotNil(t, rep.Phone)
	assert.Equal(t, "0999999999", *rep.Phone)
}

func TestRepresentativeWithoutDocumentSkipped(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Representative = &model.RepresentativePayload{
		FirstName: ptr("CARMEN"),
	}

	_, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, f.reps.created)
}

func TestEthnicCascadeResetOnParentChange(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	// Mestizo (no sub-classification) with leftover children from a
	// previous Indígena selection
	req.Patient.EthnicityID = ptr(int64(2))
	req.Patient.EthnicNationalityID = ptr(int64(5))
	req.Patient.EthnicGroupID = ptr(int64(9))

	result, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	stored := f.patients.rows[result.PatientID]
	require.NotNil(t, stored.EthnicityID)
	assert.Equal(t, int64(2), *stored.EthnicityID)
	assert.Nil(t, stored.EthnicNationalityID)
	assert.Nil(t, stored.EthnicGroupID)
}

func TestEthnicCascadeKeepsConsistentTriple(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Patient.EthnicityID = ptr(int64(1))
	req.Patient.EthnicNationalityID = ptr(int64(5))
	req.Patient.EthnicGroupID = ptr(int64(9))

	result, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	stored := f.patients.rows[result.PatientID]
	require.NotNil(t, stored.EthnicGroupID)
	assert.Equal(t, int64(9), *stored.EthnicGroupID)
}

func TestInvalidCedulaRejectedBeforeTransaction(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Patient.DocumentNumber = ptr("1710034066")

	_, err := f.svc.Create(context.Background(), req, 1)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	assert.Empty(t, f.tx.uows)
	assert.Empty(t, f.adms.rows)
}

func TestBirthRecordEmitsOutboxEvent(t *testing.T) {
	f := newFixture(t)
	req := neonateRequest(f)
	req.Birth.MotherDocumentNumber = ptr("0926687856")

	result, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	require.Len(t, f.outbox.events, 2)
	assert.Equal(t, model.EventAdmissionCreated, f.outbox.events[0].EventType)
	assert.Equal(t, model.EventBirthRegistered, f.outbox.events[1].EventType)

	var payload birthRegisteredEvent
	require.NoError(t, json.Unmarshal(f.outbox.events[1].Payload, &payload))
	assert.Equal(t, result.AdmissionID, payload.AdmissionID)
	assert.Equal(t, result.PatientID, payload.PatientID)
	// the mother's document is not registered here, so no link
	assert.Nil(t, payload.MotherPatientID)
}

func TestTemporaryIdentityCodeDerived(t *testing.T) {
	f := newFixture(t)
	req := neonateRequest(f)
	req.Birth.MotherDocumentNumber = ptr("0926687856")

	result, err := f.svc.Create(context.Background(), req, 1)
	require.NoError(t, err)

	stored := f.patients.rows[result.PatientID]
	assert.Len(t, stored.DocumentNumber, 17)
	assert.Equal(t, "17", stored.DocumentNumber[6:8])
}
