package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbpool, nil
}

const StagingTableName = "staging_beers"

// StagingColumns is the staging_beers column list in declaration order.
// Positional binds in the loader strategies rely on this exact order; a
// mismatch corrupts data silently rather than failing.
//
// NOTE: the column is declared target_ob but every code path binds the
// record's target_og value into it. The misspelling is preserved from the
// original schema so existing readers of the table keep working; the binding
// is the canonical side.
var StagingColumns = []string{
	"id",
	"name",
	"tagline",
	"first_brewed",
	"description",
	"image_url",
	"abv",
	"ibu",
	"target_fg",
	"target_ob",
	"ebc",
	"srm",
	"ph",
	"attenuation_level",
	"brewers_tips",
	"contributed_by",
	"volume",
}

const createStagingTable = `
CREATE UNLOGGED TABLE staging_beers (
	id                  INTEGER,
	name                TEXT,
	tagline             TEXT,
	first_brewed        DATE,
	description         TEXT,
	image_url           TEXT,
	abv                 DECIMAL,
	ibu                 DECIMAL,
	target_fg           DECIMAL,
	target_ob           DECIMAL,
	ebc                 DECIMAL,
	srm                 DECIMAL,
	ph                  DECIMAL,
	attenuation_level   DECIMAL,
	brewers_tips        TEXT,
	contributed_by      TEXT,
	volume              INTEGER
);`

// StagingManager owns the lifecycle of the staging_beers table. Every
// benchmark strategy starts from a freshly recreated table, which isolates
// runs from each other and makes partial write failures harmless.
type StagingManager struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

func NewStagingManager(ctx context.Context, pool *pgxpool.Pool) *StagingManager {
	return &StagingManager{dbpool: pool, ctx: ctx}
}

// RecreateStagingTable drops and redefines staging_beers, guaranteeing every
// strategy run begins against an empty, identically shaped table.
func (m *StagingManager) RecreateStagingTable() error {
	dropQuery := fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, pgx.Identifier{StagingTableName}.Sanitize())
	if _, err := m.dbpool.Exec(m.ctx, dropQuery); err != nil {
		return fmt.Errorf("error dropping staging table: %v", err)
	}

	if _, err := m.dbpool.Exec(m.ctx, createStagingTable); err != nil {
		return fmt.Errorf("error creating staging table: %v", err)
	}

	return nil
}

// CountStagingRows returns the current row count of staging_beers.
func (m *StagingManager) CountStagingRows() (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s;`, pgx.Identifier{StagingTableName}.Sanitize())

	var count int64
	if err := m.dbpool.QueryRow(m.ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting staging rows: %v", err)
	}

	return count, nil
}
