package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/domain"
)

func validResponse() *domain.ComplianceResponse {
	rate := 8.5
	fallback := 12.0
	return &domain.ComplianceResponse{
		QueryParameters: domain.QueryParameters{
			Code:        "61102000",
			Origin:      "PK",
			Destination: "DE",
		},
		DeterministicValues: domain.DeterministicPayload{
			Nomenclature: []domain.ReferenceItem{
				{Code: "6110", Description: "pullovers", Level: 4, ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
				{Code: "61102000", Description: "of cotton", Level: 8, ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsLeaf: true},
			},
			ImportMeasures: []domain.ImportMeasure{
				{
					GoodsCode:   "61102000",
					OriginGroup: "PK",
					MeasureType: "preferential_duty",
					DutyComponents: []domain.DutyComponent{
						{Type: domain.DutyAdValorem, Value: 8.5, Unit: domain.DutyUnitPercent},
					},
					Applicability: domain.Applicability{ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
					LegalBase:     domain.LegalBase{ID: "D2016/1076", Title: "Regulation"},
				},
			},
			VATRates: []domain.VATRate{{Country: "DE", StandardRatePercent: 19.0}},
			ApplicableRateResolution: &domain.ApplicableRateResolution{
				PreferencePossible:       true,
				ChosenMeasureOrigin:      "PK",
				ChosenDutyRatePercent:    &rate,
				FallbackIfNoProofPercent: &fallback,
			},
			Completeness: domain.Completeness{
				AllMeasuresHaveLegalBase: true,
				AllRequiredVATPresent:    true,
				HasReachMapping:          true,
			},
			Provenance: domain.Provenance{
				LegalBases: []domain.LegalBase{{ID: "D2016/1076", Title: "Regulation"}},
			},
		},
	}
}

func TestGateAcceptsValidPayload(t *testing.T) {
	assert.NoError(t, NewDefaultGate().Validate(validResponse()))
}

func TestGateRejectsEmptyNomenclature(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.Nomenclature = nil

	err := NewDefaultGate().Validate(resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsMissingMeasures(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.ImportMeasures = nil

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsMissingMeasuresDespiteUnknown(t *testing.T) {
	// An Unknowns entry documents the gap but never licenses an empty
	// mandatory section.
	resp := validResponse()
	resp.DeterministicValues.ImportMeasures = nil
	resp.DeterministicValues.ApplicableRateResolution = nil
	resp.DeterministicValues.Unknowns = []domain.Unknown{
		{Field: "import_measures", Reason: "no import measures stored for code and origin"},
	}

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsMissingVATRates(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.VATRates = nil
	resp.DeterministicValues.Unknowns = []domain.Unknown{
		{Field: "vat_rates", Reason: "no vat rate stored for destination country"},
	}

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsUnknownDutyUnit(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.ImportMeasures[0].DutyComponents[0].Unit = "bushels"

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsPercentOutOfRange(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.ImportMeasures[0].DutyComponents[0].Value = 140

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsBadDateOrdering(t *testing.T) {
	resp := validResponse()
	earlier := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	resp.DeterministicValues.Nomenclature[0].ValidTo = &earlier

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsBadQueryParameters(t *testing.T) {
	resp := validResponse()
	resp.QueryParameters.Origin = "Pakistan"

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestGateRejectsEmptyProvenance(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.Provenance.LegalBases = nil

	err := NewDefaultGate().Validate(resp)
	assert.True(t, errors.Is(err, domain.ErrSchemaViolation))
}

func TestCheckListsEveryViolation(t *testing.T) {
	resp := validResponse()
	resp.DeterministicValues.Nomenclature = nil
	resp.QueryParameters.Code = "abc"

	violations := NewDefaultGate().Check(resp)
	assert.GreaterOrEqual(t, len(violations), 2)
}
