package domain

import "time"

// Candidate is a transient record produced during retrieval and reranking.
// RerankScore is populated only after reranking; ordering by RerankScore
// descending once present.
type Candidate struct {
	Code           string   `json:"code"`
	Text           string   `json:"text"`
	RetrievalScore float64  `json:"retrieval_score"`
	RerankScore    *float64 `json:"rerank_score,omitempty"`
}

// FeatureVector holds the five rank-score statistics fed to the confidence
// calibrator: [top1, top2, gap, mean, std] over the reranked top-K.
type FeatureVector struct {
	Top1 float64 `json:"top1"`
	Top2 float64 `json:"top2"`
	Gap  float64 `json:"gap"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Values returns the feature vector in calibrator input order.
func (f FeatureVector) Values() []float64 {
	return []float64{f.Top1, f.Top2, f.Gap, f.Mean, f.Std}
}

// FeatureCount is the calibrator's fixed input width.
const FeatureCount = 5

// ClassificationResult is the terminal output of the classification pipeline.
// Code is non-empty exactly when Abstained is false.
type ClassificationResult struct {
	Code              string               `json:"code,omitempty"`
	Confidence        float64              `json:"confidence"`
	Margin            float64              `json:"margin"`
	Method            ClassificationMethod `json:"method"`
	Abstained         bool                 `json:"abstained"`
	Reason            AbstainReason        `json:"reason,omitempty"`
	TopCandidates     []Candidate          `json:"top_candidates,omitempty"`
	ClarificationUsed bool                 `json:"clarification_used,omitempty"`
	SelectedOption    string               `json:"selected_option,omitempty"`
}

// ClarifyingOption is one selectable answer to a clarifying question. IDs are
// single letters assigned by position ('a', 'b', 'c', ...).
type ClarifyingOption struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// ClarifyingQuestion is emitted on abstention when at least two candidates
// have a resolvable code. Its ID doubles as the clarification session id.
type ClarifyingQuestion struct {
	ID       string             `json:"id"`
	Question string             `json:"question"`
	Options  []ClarifyingOption `json:"options"`
}

// ClarificationSession is the pending classification state persisted between
// an abstention and the human answer that resolves it. Created exactly once
// per abstain event and consumed at most once.
type ClarificationSession struct {
	ID                string      `db:"id" json:"id"`
	OriginalQuery     string      `db:"original_query" json:"original_query"`
	Origin            string      `db:"origin" json:"origin,omitempty"`
	Destination       string      `db:"destination" json:"destination,omitempty"`
	PendingCandidates []Candidate `json:"pending_candidates"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
}
