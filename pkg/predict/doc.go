// Package predict talks to the exam-score prediction service.
//
// Client owns the wire contract for POST /predict and GET /feature_importance.
// Controller drives one submission at a time through the State machine defined
// by Reduce, and Insights fetches the feature-importance list once at startup.
// Prediction failures surface as a single user-visible message; insights
// failures are logged and otherwise ignored.
package predict
