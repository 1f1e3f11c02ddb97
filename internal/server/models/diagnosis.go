package models

import "time"

// Prediction is one class/probability pair produced by a classifier.
// Probability is in the [0, 1] range.
type Prediction struct {
	Label       string
	Probability float64
}

// Diagnosis is the request-scoped outcome of an x-ray classification. It is
// rendered into a PDF and returned to the caller; it is not stored.
type Diagnosis struct {
	PatientDNI  string
	PatientName string
	Date        time.Time
	ImageURL    string
	Model       string
	Label       string
	Confidence  float64
	Predictions []Prediction
}
