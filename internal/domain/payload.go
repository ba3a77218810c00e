package domain

// QueryParameters echoes the request that produced a compliance response.
type QueryParameters struct {
	Code               string `json:"hs_code"`
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	ProductDescription string `json:"product_description,omitempty"`
}

// ApplicableRateResolution records which import measure's rate applies and
// what the importer falls back to without preference proof.
type ApplicableRateResolution struct {
	PreferencePossible       bool     `json:"preference_possible"`
	RequiredProof            string   `json:"required_proof,omitempty"`
	ChosenMeasureOrigin      string   `json:"chosen_measure_origin"`
	ChosenDutyRatePercent    *float64 `json:"chosen_duty_rate_percent,omitempty"`
	FallbackIfNoProofPercent *float64 `json:"fallback_if_no_proof_percent,omitempty"`
}

// Completeness is the payload's structured self-assessment of which expected
// facts are present.
type Completeness struct {
	AllMeasuresHaveLegalBase bool `json:"all_measures_have_legal_base"`
	AllRequiredVATPresent    bool `json:"all_required_vat_present"`
	HasReachMapping          bool `json:"has_reach_mapping"`
}

// Unknown names an expected fact the reference store could not supply.
type Unknown struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Provenance is the de-duplicated set of legal bases referenced by any
// selected measure.
type Provenance struct {
	LegalBases []LegalBase `json:"legal_bases"`
}

// DeterministicPayload is the fact-only compliance payload. Every numeric
// value in it traces to exactly one reference-store row.
type DeterministicPayload struct {
	Nomenclature             []ReferenceItem           `json:"goods_nomenclature_en"`
	ImportMeasures           []ImportMeasure           `json:"import_measures"`
	ExportMeasures           []ExportMeasure           `json:"export_measures,omitempty"`
	VATRates                 []VATRate                 `json:"vat_rates"`
	ExchangeRates            []ExchangeRate            `json:"exchange_rates,omitempty"`
	MeasureConditions        []MeasureCondition        `json:"measure_conditions,omitempty"`
	ApplicableRateResolution *ApplicableRateResolution `json:"applicable_rate_resolution,omitempty"`
	Completeness             Completeness              `json:"completeness"`
	Unknowns                 []Unknown                 `json:"unknowns,omitempty"`
	Provenance               Provenance                `json:"provenance"`
}

// ClassificationMeta summarizes the classification that produced a response's
// commodity code.
type ClassificationMeta struct {
	Method     ClassificationMethod `json:"method"`
	Confidence float64              `json:"confidence"`
	Abstained  bool                 `json:"abstained"`
}

// Annotations carries guarded, human-readable explanations derived from an
// already-built deterministic payload. The generator may paraphrase; it may
// not introduce numbers.
type Annotations struct {
	HumanSummary            string                   `json:"human_summary,omitempty"`
	CertificateExplanations []CertificateExplanation `json:"certificate_explanations,omitempty"`
	ComplianceNotes         []string                 `json:"compliance_notes,omitempty"`
	HallucinationGuard      bool                     `json:"hallucination_guard"`
	Disclaimer              string                   `json:"disclaimer,omitempty"`
}

// CertificateExplanation explains one certificate code in plain language.
type CertificateExplanation struct {
	Code         string `json:"code"`
	WhatItIs     string `json:"what_it_is"`
	WhenRequired string `json:"when_required"`
}

// ComplianceResponse is the outbound wrapper: the original query parameters,
// the deterministic payload, and optional classification/annotation metadata.
type ComplianceResponse struct {
	QueryParameters     QueryParameters      `json:"query_parameters"`
	ClassificationMeta  *ClassificationMeta  `json:"classification_meta,omitempty"`
	DeterministicValues DeterministicPayload `json:"deterministic_values"`
	Annotations         *Annotations         `json:"annotations_llm,omitempty"`
}
