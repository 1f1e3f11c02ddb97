// Package report turns classifier output into the diagnosis headline and
// the downloadable PDF handed back to the patient.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/clinicportal/internal/server/models"
)

// Model class names and the labels shown to patients.
const (
	ClassPneumonia = "pneumonia"
	ClassNormal    = "normal"

	LabelPneumonia = "pneumonia"
	LabelHealthy   = "healthy"
)

var ErrMissingClass = errors.New("prediction is missing a required class")

// Finding is the headline outcome of a two-class prediction. Percentages
// are in the [0, 100] range.
type Finding struct {
	Label      string
	Confidence float64
	Pneumonia  float64
	Normal     float64
}

// Summary renders both class percentages, e.g. "PNEUMONIA: 70.00%, NORMAL: 30.00%".
func (f Finding) Summary() string {
	return fmt.Sprintf("PNEUMONIA: %.2f%%, NORMAL: %.2f%%", f.Pneumonia, f.Normal)
}

// Decide picks the more probable of pneumonia and normal. A tie reports
// pneumonia.
func Decide(preds []models.Prediction) (Finding, error) {
	var pneumonia, normal float64
	var havePneumonia, haveNormal bool

	for _, p := range preds {
		switch strings.ToLower(p.Label) {
		case ClassPneumonia:
			pneumonia, havePneumonia = p.Probability*100, true
		case ClassNormal:
			normal, haveNormal = p.Probability*100, true
		}
	}
	if !havePneumonia || !haveNormal {
		return Finding{}, ErrMissingClass
	}

	f := Finding{Pneumonia: pneumonia, Normal: normal}
	if pneumonia >= normal {
		f.Label, f.Confidence = LabelPneumonia, pneumonia
	} else {
		f.Label, f.Confidence = LabelHealthy, normal
	}
	return f, nil
}
