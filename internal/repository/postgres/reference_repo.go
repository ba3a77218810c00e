package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// ReferenceRepo implements port.ReferenceRepository over PostgreSQL.
type ReferenceRepo struct {
	db *sqlx.DB
}

// NewReferenceRepo creates a new reference repository.
func NewReferenceRepo(db *sqlx.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

var _ port.ReferenceRepository = (*ReferenceRepo)(nil)

// storeErr maps low-level connection failures onto the domain sentinel so the
// builder can distinguish "store down" from "row absent".
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrReferenceStoreUnavailable, err)
}

func (r *ReferenceRepo) GetItem(ctx context.Context, code string) (*domain.ReferenceItem, error) {
	var item domain.ReferenceItem
	query := `
		SELECT goods_code, description, level, valid_from, valid_to, is_leaf
		FROM goods_nomenclature
		WHERE goods_code = $1`
	err := r.db.GetContext(ctx, &item, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get nomenclature item", err)
	}
	return &item, nil
}

func (r *ReferenceRepo) ListLeafItems(ctx context.Context) ([]domain.ReferenceItem, error) {
	var items []domain.ReferenceItem
	query := `
		SELECT goods_code, description, level, valid_from, valid_to, is_leaf
		FROM goods_nomenclature
		WHERE is_leaf = TRUE
		ORDER BY goods_code`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, storeErr("list leaf items", err)
	}
	return items, nil
}

func (r *ReferenceRepo) ImportMeasures(ctx context.Context, code, origin string) ([]domain.ImportMeasure, error) {
	var rows []domain.MeasureRow
	query := `
		SELECT m.goods_code, m.origin_group AS measure_group, m.measure_type,
		       m.duty_components,
		       COALESCE(m.legal_base_id, '') AS legal_base_id,
		       COALESCE(lb.title, '') AS legal_base_title,
		       m.valid_from, m.valid_to, m.footnote_code, m.cond_cert_code
		FROM measures_import m
		LEFT JOIN legal_bases lb ON lb.id = m.legal_base_id
		WHERE m.goods_code = $1 AND m.origin_group IN ($2, $3)
		ORDER BY m.origin_group, m.measure_type`
	if err := r.db.SelectContext(ctx, &rows, query, code, origin, domain.ErgaOmnes); err != nil {
		return nil, storeErr("select import measures", err)
	}

	measures := make([]domain.ImportMeasure, 0, len(rows))
	for _, row := range rows {
		components, err := decodeDutyComponents(row.DutyComponents)
		if err != nil {
			return nil, fmt.Errorf("decode duty components for %s: %w", row.GoodsCode, err)
		}
		measures = append(measures, domain.ImportMeasure{
			GoodsCode:      row.GoodsCode,
			OriginGroup:    row.Group,
			MeasureType:    row.MeasureType,
			DutyComponents: components,
			Applicability:  domain.Applicability{ValidFrom: row.ValidFrom, ValidTo: row.ValidTo},
			LegalBase:      domain.LegalBase{ID: row.LegalBaseID, Title: row.LegalBaseTitle},
			FootnoteCode:   deref(row.FootnoteCode),
			CondCertCode:   deref(row.CondCertCode),
		})
	}
	return measures, nil
}

func (r *ReferenceRepo) ExportMeasures(ctx context.Context, code, destination string) ([]domain.ExportMeasure, error) {
	var rows []domain.MeasureRow
	query := `
		SELECT m.goods_code, m.destination_group AS measure_group, m.measure_type,
		       m.duty_components,
		       COALESCE(m.legal_base_id, '') AS legal_base_id,
		       COALESCE(lb.title, '') AS legal_base_title,
		       m.valid_from, m.valid_to, m.footnote_code, m.cond_cert_code
		FROM measures_export m
		LEFT JOIN legal_bases lb ON lb.id = m.legal_base_id
		WHERE m.goods_code = $1 AND m.destination_group IN ($2, $3)
		ORDER BY m.destination_group, m.measure_type`
	if err := r.db.SelectContext(ctx, &rows, query, code, destination, domain.ErgaOmnes); err != nil {
		return nil, storeErr("select export measures", err)
	}

	measures := make([]domain.ExportMeasure, 0, len(rows))
	for _, row := range rows {
		components, err := decodeDutyComponents(row.DutyComponents)
		if err != nil {
			return nil, fmt.Errorf("decode duty components for %s: %w", row.GoodsCode, err)
		}
		measures = append(measures, domain.ExportMeasure{
			GoodsCode:        row.GoodsCode,
			DestinationGroup: row.Group,
			MeasureType:      row.MeasureType,
			DutyComponents:   components,
			Applicability:    domain.Applicability{ValidFrom: row.ValidFrom, ValidTo: row.ValidTo},
			LegalBase:        domain.LegalBase{ID: row.LegalBaseID, Title: row.LegalBaseTitle},
			FootnoteCode:     deref(row.FootnoteCode),
			CondCertCode:     deref(row.CondCertCode),
		})
	}
	return measures, nil
}

func (r *ReferenceRepo) VATRates(ctx context.Context, country string) ([]domain.VATRate, error) {
	var rates []domain.VATRate
	query := `
		SELECT country_code, standard_rate, reduced_rate_1, valid_from, valid_to
		FROM vat_rates
		WHERE country_code = $1
		ORDER BY valid_from DESC NULLS LAST`
	if err := r.db.SelectContext(ctx, &rates, query, strings.ToUpper(country)); err != nil {
		return nil, storeErr("select vat rates", err)
	}
	return rates, nil
}

func (r *ReferenceRepo) MeasureConditions(ctx context.Context, code string) ([]domain.MeasureCondition, error) {
	type condRow struct {
		CertificateCode string         `db:"certificate_code"`
		Action          string         `db:"action"`
		ThresholdValue  *float64       `db:"threshold_value"`
		ThresholdUnit   sql.NullString `db:"threshold_unit"`
		Notes           sql.NullString `db:"notes"`
		Box44Codes      pq.StringArray `db:"box44_codes"`
	}
	var rows []condRow
	query := `
		SELECT certificate_code, action, threshold_value, threshold_unit, notes, box44_codes
		FROM measure_conditions
		WHERE goods_code = $1
		ORDER BY certificate_code`
	if err := r.db.SelectContext(ctx, &rows, query, code); err != nil {
		return nil, storeErr("select measure conditions", err)
	}

	conditions := make([]domain.MeasureCondition, 0, len(rows))
	for _, row := range rows {
		conditions = append(conditions, domain.MeasureCondition{
			CertificateCode: row.CertificateCode,
			Action:          row.Action,
			ThresholdValue:  row.ThresholdValue,
			ThresholdUnit:   row.ThresholdUnit.String,
			Notes:           row.Notes.String,
			Box44Codes:      row.Box44Codes,
		})
	}
	return conditions, nil
}

func (r *ReferenceRepo) HasReachMapping(ctx context.Context, prefix string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reach_map WHERE goods_code_prefix = $1)`
	if err := r.db.GetContext(ctx, &exists, query, prefix); err != nil {
		return false, storeErr("check reach mapping", err)
	}
	return exists, nil
}

func (r *ReferenceRepo) LatestExchangeRates(ctx context.Context, isos []string) ([]domain.ExchangeRate, error) {
	if len(isos) == 0 {
		return nil, nil
	}
	var rates []domain.ExchangeRate
	query := `
		SELECT DISTINCT ON (iso) iso, rate, rate_date, source
		FROM exchange_rates
		WHERE iso = ANY($1)
		ORDER BY iso, rate_date DESC`
	if err := r.db.SelectContext(ctx, &rates, query, pq.Array(isos)); err != nil {
		return nil, storeErr("select exchange rates", err)
	}
	return rates, nil
}

func (r *ReferenceRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func decodeDutyComponents(raw json.RawMessage) ([]domain.DutyComponent, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var components []domain.DutyComponent
	if err := json.Unmarshal(raw, &components); err != nil {
		return nil, err
	}
	return components, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
