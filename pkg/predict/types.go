package predict

// Result is the payload returned by POST /predict. Fields are copied verbatim
// from the response body.
type Result struct {
	ExamScore       float64 `json:"exam_score"`
	ConfidenceLevel string  `json:"confidence_level"`
	PassProbability float64 `json:"pass_probability"`
}

// FeatureImportance is one entry of the global importance ranking.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}
