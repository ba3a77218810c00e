package rerank

import (
	"math"

	"github.com/wahajaslm/tarco/internal/domain"
)

// Features derives the calibrator's rank-score statistics from a reranked
// candidate list. With fewer than two candidates top2 is 0 and gap equals
// top1. Candidates without a rerank score contribute their retrieval score.
func Features(candidates []domain.Candidate) domain.FeatureVector {
	if len(candidates) == 0 {
		return domain.FeatureVector{}
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		if c.RerankScore != nil {
			scores[i] = *c.RerankScore
		} else {
			scores[i] = c.RetrievalScore
		}
	}

	fv := domain.FeatureVector{Top1: scores[0]}
	if len(scores) > 1 {
		fv.Top2 = scores[1]
	}
	fv.Gap = fv.Top1 - fv.Top2

	var sum float64
	for _, s := range scores {
		sum += s
	}
	fv.Mean = sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := s - fv.Mean
		variance += d * d
	}
	fv.Std = math.Sqrt(variance / float64(len(scores)))

	return fv
}
