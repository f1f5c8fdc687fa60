package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
)

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Ethnicity(ctx context.Context, id int64) (*model.Ethnicity, error) {
	var e model.Ethnicity
	if err := r.db.GetContext(ctx, &e, `SELECT * FROM cat_ethnicities WHERE id = $1`, id); err != nil {
		return nil, translateErr(err)
	}
	return &e, nil
}

func (r *catalogRepository) Ethnicities(ctx context.Context) ([]*model.Ethnicity, error) {
	var list []*model.Ethnicity
	err := r.db.SelectContext(ctx, &list, `SELECT * FROM cat_ethnicities ORDER BY id`)
	return list, translateErr(err)
}

func (r *catalogRepository) Nationality(ctx context.Context, id int64) (*model.EthnicNationality, error) {
	var n model.EthnicNationality
	if err := r.db.GetContext(ctx, &n, `SELECT * FROM cat_ethnic_nationalities WHERE id = $1`, id); err != nil {
		return nil, translateErr(err)
	}
	return &n, nil
}

func (r *catalogRepository) NationalitiesForEthnicity(ctx context.Context, ethnicityID int64) ([]*model.EthnicNationality, error) {
	var list []*model.EthnicNationality
	err := r.db.SelectContext(ctx, &list,
		`SELECT * FROM cat_ethnic_nationalities WHERE ethnicity_id = $1 ORDER BY name`, ethnicityID)
	return list, translateErr(err)
}

func (r *catalogRepository) Group(ctx context.Context, id int64) (*model.EthnicGroup, error) {
	var g model.EthnicGroup
	if err := r.db.GetContext(ctx, &g, `SELECT * FROM cat_ethnic_groups WHERE id = $1`, id); err != nil {
		return nil, translateErr(err)
	}
	return &g, nil
}

func (r *catalogRepository) GroupsForNationality(ctx context.Context, nationalityID int64) ([]*model.EthnicGroup, error) {
	var list []*model.EthnicGroup
	err := r.db.SelectContext(ctx, &list,
		`SELECT * FROM cat_ethnic_groups WHERE nationality_id = $1 ORDER BY name`, nationalityID)
	return list, translateErr(err)
}

func (r *catalogRepository) ArrivalMode(ctx context.Context, id int64) (*model.ArrivalMode, error) {
	var m model.ArrivalMode
	if err := r.db.GetContext(ctx, &m, `SELECT * FROM cat_arrival_modes WHERE id = $1`, id); err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

func (r *catalogRepository) ArrivalModes(ctx context.Context) ([]*model.ArrivalMode, error) {
	var list []*model.ArrivalMode
	err := r.db.SelectContext(ctx, &list, `SELECT * FROM cat_arrival_modes ORDER BY id`)
	return list, translateErr(err)
}

func (r *catalogRepository) ArrivalConditions(ctx context.Context) ([]*model.ArrivalCondition, error) {
	var list []*model.ArrivalCondition
	err := r.db.SelectContext(ctx, &list, `SELECT * FROM cat_arrival_conditions ORDER BY id`)
	return list, translateErr(err)
}
