package validator

import (
	"fmt"

	"github.com/wahajaslm/tarco/internal/domain"
)

// NewDefaultGate registers the full structural rule set.
func NewDefaultGate() *Gate {
	return NewGate(
		QueryParametersRule{},
		NomenclatureRule{},
		ImportMeasuresRule{},
		VATRule{},
		RateResolutionRule{},
		ProvenanceRule{},
	)
}

// QueryParametersRule checks code and country formats on the echoed query.
type QueryParametersRule struct{}

func (QueryParametersRule) Name() string { return "query_parameters" }

func (r QueryParametersRule) Check(resp *domain.ComplianceResponse) []Violation {
	var out []Violation
	qp := resp.QueryParameters
	if !domain.ValidCode(qp.Code) {
		out = append(out, Violation{r.Name(), "hs_code", "must be 4-10 digits"})
	}
	if !domain.ValidCountry(qp.Origin) {
		out = append(out, Violation{r.Name(), "origin", "must be a 2-3 letter country code"})
	}
	if !domain.ValidCountry(qp.Destination) {
		out = append(out, Violation{r.Name(), "destination", "must be a 2-3 letter country code"})
	}
	return out
}

// NomenclatureRule requires a non-empty hierarchy of well-formed items.
type NomenclatureRule struct{}

func (NomenclatureRule) Name() string { return "nomenclature" }

func (r NomenclatureRule) Check(resp *domain.ComplianceResponse) []Violation {
	var out []Violation
	items := resp.DeterministicValues.Nomenclature
	if len(items) == 0 {
		out = append(out, Violation{r.Name(), "goods_nomenclature_en", "at least one item required"})
		return out
	}
	for i, item := range items {
		field := fmt.Sprintf("goods_nomenclature_en[%d]", i)
		if !domain.ValidCode(item.Code) {
			out = append(out, Violation{r.Name(), field + ".goods_code", "must be 4-10 digits"})
		}
		if item.Description == "" {
			out = append(out, Violation{r.Name(), field + ".description", "must not be empty"})
		}
		if item.ValidTo != nil && item.ValidTo.Before(item.ValidFrom) {
			out = append(out, Violation{r.Name(), field + ".validity_end_date", "must not precede validity_start_date"})
		}
	}
	return out
}

// ImportMeasuresRule requires at least one well-formed import measure. A
// payload without any measure cannot state a duty position and must not
// egress, even when an Unknowns entry names the gap.
type ImportMeasuresRule struct{}

func (ImportMeasuresRule) Name() string { return "import_measures" }

func (r ImportMeasuresRule) Check(resp *domain.ComplianceResponse) []Violation {
	var out []Violation
	measures := resp.DeterministicValues.ImportMeasures
	if len(measures) == 0 {
		out = append(out, Violation{r.Name(), "import_measures", "at least one measure required"})
		return out
	}
	for i, m := range measures {
		field := fmt.Sprintf("import_measures[%d]", i)
		if m.OriginGroup == "" {
			out = append(out, Violation{r.Name(), field + ".origin_group", "must not be empty"})
		}
		if m.Applicability.ValidTo != nil && m.Applicability.ValidTo.Before(m.Applicability.ValidFrom) {
			out = append(out, Violation{r.Name(), field + ".applicability", "valid_to must not precede valid_from"})
		}
		out = append(out, checkDutyComponents(r.Name(), field, m.DutyComponents)...)
	}
	return out
}

// VATRule requires a stored VAT rate for the destination and bounds every
// percentage.
type VATRule struct{}

func (VATRule) Name() string { return "vat_rates" }

func (r VATRule) Check(resp *domain.ComplianceResponse) []Violation {
	var out []Violation
	rates := resp.DeterministicValues.VATRates
	if len(rates) == 0 {
		out = append(out, Violation{r.Name(), "vat_rates", "at least one rate required"})
		return out
	}
	for i, rate := range rates {
		field := fmt.Sprintf("vat_rates[%d]", i)
		if !domain.ValidCountry(rate.Country) {
			out = append(out, Violation{r.Name(), field + ".country", "must be a 2-3 letter country code"})
		}
		if rate.StandardRatePercent < 0 || rate.StandardRatePercent > 100 {
			out = append(out, Violation{r.Name(), field + ".standard_rate_percent", "must be within [0, 100]"})
		}
		if rate.ReducedRate1Percent != nil && (*rate.ReducedRate1Percent < 0 || *rate.ReducedRate1Percent > 100) {
			out = append(out, Violation{r.Name(), field + ".reduced_rate_1_percent", "must be within [0, 100]"})
		}
	}
	return out
}

// RateResolutionRule bounds the resolved duty percentages.
type RateResolutionRule struct{}

func (RateResolutionRule) Name() string { return "applicable_rate_resolution" }

func (r RateResolutionRule) Check(resp *domain.ComplianceResponse) []Violation {
	res := resp.DeterministicValues.ApplicableRateResolution
	if res == nil {
		return nil
	}
	var out []Violation
	if res.ChosenMeasureOrigin == "" {
		out = append(out, Violation{r.Name(), "chosen_measure_origin", "must not be empty"})
	}
	if res.ChosenDutyRatePercent != nil && (*res.ChosenDutyRatePercent < 0 || *res.ChosenDutyRatePercent > 100) {
		out = append(out, Violation{r.Name(), "chosen_duty_rate_percent", "must be within [0, 100]"})
	}
	if res.FallbackIfNoProofPercent != nil && (*res.FallbackIfNoProofPercent < 0 || *res.FallbackIfNoProofPercent > 100) {
		out = append(out, Violation{r.Name(), "fallback_if_no_proof_percent", "must be within [0, 100]"})
	}
	return out
}

// ProvenanceRule requires at least one legal base behind the payload; a
// response whose measures cite no law at all is not publishable.
type ProvenanceRule struct{}

func (ProvenanceRule) Name() string { return "provenance" }

func (r ProvenanceRule) Check(resp *domain.ComplianceResponse) []Violation {
	var out []Violation
	dv := resp.DeterministicValues
	if len(dv.Provenance.LegalBases) == 0 {
		out = append(out, Violation{r.Name(), "provenance.legal_bases", "at least one legal base required"})
	}
	for i, lb := range dv.Provenance.LegalBases {
		if lb.ID == "" {
			out = append(out, Violation{r.Name(), fmt.Sprintf("provenance.legal_bases[%d].id", i), "must not be empty"})
		}
	}
	return out
}

func checkDutyComponents(rule, field string, components []domain.DutyComponent) []Violation {
	var out []Violation
	for i, c := range components {
		cf := fmt.Sprintf("%s.duty_components[%d]", field, i)
		if !domain.ValidDutyTypes[c.Type] {
			out = append(out, Violation{rule, cf + ".type", "unknown duty type"})
		}
		if !domain.ValidDutyUnits[c.Unit] {
			out = append(out, Violation{rule, cf + ".unit", "unknown duty unit"})
		}
		if c.Unit == domain.DutyUnitPercent && (c.Value < 0 || c.Value > 100) {
			out = append(out, Violation{rule, cf + ".value", "percent must be within [0, 100]"})
		}
		if c.Unit != domain.DutyUnitPercent && c.Value < 0 {
			out = append(out, Violation{rule, cf + ".value", "must not be negative"})
		}
	}
	return out
}
