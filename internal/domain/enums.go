package domain

// DutyType identifies the kind of duty component on a trade measure.
type DutyType string

const (
	DutyAdValorem DutyType = "ad_valorem"
	DutySpecific  DutyType = "specific"
	DutyCompound  DutyType = "compound"
)

// ValidDutyTypes is the closed set of duty component types.
var ValidDutyTypes = map[DutyType]bool{
	DutyAdValorem: true,
	DutySpecific:  true,
	DutyCompound:  true,
}

// DutyUnit identifies the unit a duty component is expressed in.
type DutyUnit string

const (
	DutyUnitPercent    DutyUnit = "percent"
	DutyUnitEurPer100K DutyUnit = "eur/100kg"
	DutyUnitEurPerUnit DutyUnit = "eur/unit"
	DutyUnitMixed      DutyUnit = "mixed"
)

// ValidDutyUnits is the closed set of duty component units.
var ValidDutyUnits = map[DutyUnit]bool{
	DutyUnitPercent:    true,
	DutyUnitEurPer100K: true,
	DutyUnitEurPerUnit: true,
	DutyUnitMixed:      true,
}

// ClassificationMethod records how a commodity code was determined.
type ClassificationMethod string

const (
	MethodRetrievalRerankCalibrate ClassificationMethod = "retrieval_rerank_calibrate"
	MethodProvidedByUser           ClassificationMethod = "provided_by_user"
)

// ValidClassificationMethods is the closed set of classification methods.
var ValidClassificationMethods = map[ClassificationMethod]bool{
	MethodRetrievalRerankCalibrate: true,
	MethodProvidedByUser:           true,
}

// AbstainReason is a machine-readable code explaining why the classifier
// deferred instead of returning a commodity code.
type AbstainReason string

const (
	ReasonNoCandidatesRetrieved      AbstainReason = "no_candidates_retrieved"
	ReasonNoCandidatesAfterReranking AbstainReason = "no_candidates_after_reranking"
	ReasonInsufficientFeatures       AbstainReason = "insufficient_confidence_features"
	ReasonClassificationError        AbstainReason = "classification_error"
	ReasonLowConfidence              AbstainReason = "low_confidence"
	ReasonNoCodeInResult             AbstainReason = "no_code_in_result"
	ReasonInvalidOptionSelected      AbstainReason = "invalid_option_selected"
)

// ErgaOmnes is the universal origin group: the duty measure that applies
// absent a more specific preferential agreement.
const ErgaOmnes = "ERGA OMNES"
