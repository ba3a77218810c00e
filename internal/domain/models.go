package domain

import (
	"encoding/json"
	"time"
)

// ReferenceItem is a node in the commodity-code hierarchy. A leaf item's
// ancestors (codes formed by truncating to each shorter valid prefix length)
// always exist as ReferenceItems of their own.
type ReferenceItem struct {
	Code        string     `db:"goods_code" json:"goods_code"`
	Description string     `db:"description" json:"description"`
	Level       int        `db:"level" json:"level"`
	ValidFrom   time.Time  `db:"valid_from" json:"validity_start_date"`
	ValidTo     *time.Time `db:"valid_to" json:"validity_end_date,omitempty"`
	IsLeaf      bool       `db:"is_leaf" json:"is_leaf"`
}

// DutyComponent is a single component of a duty expression. Only ad-valorem
// percent components feed the applicable-rate percentage; specific and
// compound components are carried untouched.
type DutyComponent struct {
	Type  DutyType `json:"type"`
	Value float64  `json:"value"`
	Unit  DutyUnit `json:"unit"`
}

// Applicability is the validity interval of a measure.
type Applicability struct {
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
}

// LegalBase is the legal citation backing a measure.
type LegalBase struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ImportMeasure is a duty measure applying to imports of a commodity code
// from an origin group.
type ImportMeasure struct {
	GoodsCode      string          `db:"goods_code" json:"goods_code"`
	OriginGroup    string          `db:"origin_group" json:"origin_group"`
	MeasureType    string          `db:"measure_type" json:"measure_type"`
	DutyComponents []DutyComponent `json:"duty_components"`
	Applicability  Applicability   `json:"applicability"`
	LegalBase      LegalBase       `json:"legal_base"`
	FootnoteCode   string          `db:"footnote_code" json:"footnote_code,omitempty"`
	CondCertCode   string          `db:"cond_cert_code" json:"cond_cert_code,omitempty"`
}

// ExportMeasure is a duty measure applying to exports of a commodity code
// toward a destination group.
type ExportMeasure struct {
	GoodsCode        string          `db:"goods_code" json:"goods_code"`
	DestinationGroup string          `db:"destination_group" json:"destination_group"`
	MeasureType      string          `db:"measure_type" json:"measure_type"`
	DutyComponents   []DutyComponent `json:"duty_components"`
	Applicability    Applicability   `json:"applicability"`
	LegalBase        LegalBase       `json:"legal_base"`
	FootnoteCode     string          `db:"footnote_code" json:"footnote_code,omitempty"`
	CondCertCode     string          `db:"cond_cert_code" json:"cond_cert_code,omitempty"`
}

// MeasureRow is the flat sqlx scan target for measure tables; duty components
// live in a JSONB column.
type MeasureRow struct {
	GoodsCode      string          `db:"goods_code"`
	Group          string          `db:"measure_group"`
	MeasureType    string          `db:"measure_type"`
	DutyComponents json.RawMessage `db:"duty_components"`
	LegalBaseID    string          `db:"legal_base_id"`
	LegalBaseTitle string          `db:"legal_base_title"`
	ValidFrom      time.Time       `db:"valid_from"`
	ValidTo        *time.Time      `db:"valid_to"`
	FootnoteCode   *string         `db:"footnote_code"`
	CondCertCode   *string         `db:"cond_cert_code"`
}

// VATRate is a destination country's VAT rate.
type VATRate struct {
	Country             string     `db:"country_code" json:"country"`
	StandardRatePercent float64    `db:"standard_rate" json:"standard_rate_percent"`
	ReducedRate1Percent *float64   `db:"reduced_rate_1" json:"reduced_rate_1_percent,omitempty"`
	ValidFrom           *time.Time `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo             *time.Time `db:"valid_to" json:"valid_to,omitempty"`
}

// ExchangeRate is the latest stored conversion rate for a currency.
type ExchangeRate struct {
	ISO      string    `db:"iso" json:"iso"`
	Rate     float64   `db:"rate" json:"rate"`
	RateDate time.Time `db:"rate_date" json:"rate_date"`
	Source   string    `db:"source" json:"source"`
}

// MeasureCondition is a certificate or documentary requirement attached to a
// commodity code's measures.
type MeasureCondition struct {
	CertificateCode string   `db:"certificate_code" json:"certificate_code"`
	Action          string   `db:"action" json:"action"`
	ThresholdValue  *float64 `db:"threshold_value" json:"threshold_value,omitempty"`
	ThresholdUnit   string   `db:"threshold_unit" json:"threshold_unit,omitempty"`
	Notes           string   `db:"notes" json:"notes,omitempty"`
	Box44Codes      []string `json:"box44_codes,omitempty"`
}
