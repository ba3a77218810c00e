package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
	"github.com/wahajaslm/tarco/internal/validator"
)

// exchangeISOs are the currencies whose latest stored rate accompanies every
// payload.
var exchangeISOs = []string{"USD", "EUR", "GBP", "JPY", "CHF"}

// reachPrefixLen is the code prefix length REACH substance mappings are keyed
// on.
const reachPrefixLen = 6

// BuilderService assembles the deterministic compliance payload. Every value
// in the payload comes from a reference-store row; nothing is inferred or
// estimated. Missing facts become Unknown entries, and the assembled payload
// must pass the schema gate before it is returned.
type BuilderService struct {
	refs port.ReferenceRepository
	gate *validator.Gate
}

// NewBuilderService creates the deterministic builder.
func NewBuilderService(refs port.ReferenceRepository, gate *validator.Gate) *BuilderService {
	return &BuilderService{refs: refs, gate: gate}
}

// Build assembles the compliance response for a classified code and route.
func (s *BuilderService) Build(ctx context.Context, code, origin, destination, productDescription string) (*domain.ComplianceResponse, error) {
	if !domain.ValidCode(code) {
		return nil, domain.ErrInvalidCode
	}
	if !domain.ValidCountry(origin) || !domain.ValidCountry(destination) {
		return nil, domain.ErrInvalidCountry
	}
	origin = strings.ToUpper(origin)
	destination = strings.ToUpper(destination)

	nomenclature, err := s.hierarchy(ctx, code)
	if err != nil {
		return nil, err
	}

	importMeasures, err := s.refs.ImportMeasures(ctx, code, origin)
	if err != nil {
		return nil, fmt.Errorf("load import measures: %w", err)
	}
	exportMeasures, err := s.refs.ExportMeasures(ctx, code, destination)
	if err != nil {
		return nil, fmt.Errorf("load export measures: %w", err)
	}
	vatRates, err := s.refs.VATRates(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("load vat rates: %w", err)
	}
	conditions, err := s.refs.MeasureConditions(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("load measure conditions: %w", err)
	}
	exchangeRates, err := s.refs.LatestExchangeRates(ctx, exchangeISOs)
	if err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}

	hasReach := false
	if len(code) >= reachPrefixLen {
		hasReach, err = s.refs.HasReachMapping(ctx, code[:reachPrefixLen])
		if err != nil {
			return nil, fmt.Errorf("check reach mapping: %w", err)
		}
	}

	payload := domain.DeterministicPayload{
		Nomenclature:      nomenclature,
		ImportMeasures:    importMeasures,
		ExportMeasures:    exportMeasures,
		VATRates:          vatRates,
		ExchangeRates:     exchangeRates,
		MeasureConditions: conditions,
	}
	payload.ApplicableRateResolution = resolveRate(importMeasures, origin, conditions)
	payload.Provenance = provenance(importMeasures, exportMeasures)
	payload.Completeness, payload.Unknowns = completeness(importMeasures, exportMeasures, vatRates, hasReach)

	resp := &domain.ComplianceResponse{
		QueryParameters: domain.QueryParameters{
			Code:               code,
			Origin:             origin,
			Destination:        destination,
			ProductDescription: productDescription,
		},
		DeterministicValues: payload,
	}

	if err := s.gate.Validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// hierarchy walks the code's ancestry, truncating two digits at a time down
// to the four-digit heading. Ancestors absent from the store are skipped; the
// full code itself must resolve.
func (s *BuilderService) hierarchy(ctx context.Context, code string) ([]domain.ReferenceItem, error) {
	var prefixes []string
	for l := 4; l < len(code); l += 2 {
		prefixes = append(prefixes, code[:l])
	}
	prefixes = append(prefixes, code)

	items := make([]domain.ReferenceItem, 0, len(prefixes))
	for _, prefix := range prefixes {
		item, err := s.refs.GetItem(ctx, prefix)
		if errors.Is(err, domain.ErrNotFound) {
			if prefix == code {
				return nil, domain.ErrNotFound
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load nomenclature %s: %w", prefix, err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// resolveRate picks the applicable ad-valorem duty rate. A preferential
// origin-specific measure wins over the universal one when both carry a
// percent component; the universal rate stays as the no-proof fallback.
func resolveRate(measures []domain.ImportMeasure, origin string, conditions []domain.MeasureCondition) *domain.ApplicableRateResolution {
	if len(measures) == 0 {
		return nil
	}

	var prefRate, ergaRate *float64
	var prefMeasure *domain.ImportMeasure
	for i := range measures {
		rate := adValoremPercent(measures[i].DutyComponents)
		if rate == nil {
			continue
		}
		switch measures[i].OriginGroup {
		case domain.ErgaOmnes:
			if ergaRate == nil || *rate < *ergaRate {
				ergaRate = rate
			}
		case origin:
			if prefRate == nil || *rate < *prefRate {
				prefRate = rate
				prefMeasure = &measures[i]
			}
		}
	}

	res := &domain.ApplicableRateResolution{}
	switch {
	case prefRate != nil:
		res.PreferencePossible = true
		res.ChosenMeasureOrigin = origin
		res.ChosenDutyRatePercent = prefRate
		res.FallbackIfNoProofPercent = ergaRate
		res.RequiredProof = preferenceProof(prefMeasure, conditions)
	case ergaRate != nil:
		res.ChosenMeasureOrigin = domain.ErgaOmnes
		res.ChosenDutyRatePercent = ergaRate
	default:
		return nil
	}
	return res
}

// adValoremPercent extracts the percent rate from a duty expression. Only a
// pure ad-valorem component qualifies; specific and compound duties cannot be
// reduced to a single percentage.
func adValoremPercent(components []domain.DutyComponent) *float64 {
	for _, c := range components {
		if c.Type == domain.DutyAdValorem && c.Unit == domain.DutyUnitPercent {
			v := c.Value
			return &v
		}
	}
	return nil
}

// preferenceProof names the certificate backing a preferential claim, from
// the measure's own certificate reference or a matching condition row.
func preferenceProof(measure *domain.ImportMeasure, conditions []domain.MeasureCondition) string {
	if measure == nil {
		return ""
	}
	if measure.CondCertCode != "" {
		return measure.CondCertCode
	}
	for _, c := range conditions {
		if strings.EqualFold(c.Action, "apply_preference") {
			return c.CertificateCode
		}
	}
	return ""
}

// provenance collects the de-duplicated legal bases behind all selected
// measures, ordered by id.
func provenance(imports []domain.ImportMeasure, exports []domain.ExportMeasure) domain.Provenance {
	seen := map[string]domain.LegalBase{}
	for _, m := range imports {
		if m.LegalBase.ID != "" {
			seen[m.LegalBase.ID] = m.LegalBase
		}
	}
	for _, m := range exports {
		if m.LegalBase.ID != "" {
			seen[m.LegalBase.ID] = m.LegalBase
		}
	}

	bases := make([]domain.LegalBase, 0, len(seen))
	for _, lb := range seen {
		bases = append(bases, lb)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i].ID < bases[j].ID })
	return domain.Provenance{LegalBases: bases}
}

// completeness computes the payload's self-assessment flags. Every false flag
// produces a matching Unknown entry naming the gap. Legal-base coverage spans
// import and export measures and requires both the id and the title.
func completeness(imports []domain.ImportMeasure, exports []domain.ExportMeasure, vat []domain.VATRate, hasReach bool) (domain.Completeness, []domain.Unknown) {
	c := domain.Completeness{
		AllMeasuresHaveLegalBase: true,
		AllRequiredVATPresent:    len(vat) > 0,
		HasReachMapping:          hasReach,
	}
	for _, m := range imports {
		if m.LegalBase.ID == "" || m.LegalBase.Title == "" {
			c.AllMeasuresHaveLegalBase = false
			break
		}
	}
	if c.AllMeasuresHaveLegalBase {
		for _, m := range exports {
			if m.LegalBase.ID == "" || m.LegalBase.Title == "" {
				c.AllMeasuresHaveLegalBase = false
				break
			}
		}
	}

	var unknowns []domain.Unknown
	if !c.AllMeasuresHaveLegalBase {
		unknowns = append(unknowns, domain.Unknown{
			Field:  "legal_base",
			Reason: "one or more measures have no legal base recorded",
		})
	}
	if !c.AllRequiredVATPresent {
		unknowns = append(unknowns, domain.Unknown{
			Field:  "vat_rates",
			Reason: "no vat rate stored for destination country",
		})
	}
	if !c.HasReachMapping {
		unknowns = append(unknowns, domain.Unknown{
			Field:  "reach_mapping",
			Reason: "no substance restriction mapping for code prefix",
		})
	}
	return c, unknowns
}
