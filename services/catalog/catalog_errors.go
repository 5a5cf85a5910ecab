package catalog

import (
	"errors"
	"fmt"
)

var ErrInvalidPlan = errors.New("plan failed normalization")

// PlanError records which raw plan was rejected and why.
type PlanError struct {
	ErrorObj    error
	PackageCode string
	Reason      string
}

func (p *PlanError) Error() string {
	return fmt.Sprintf("%v: %v (%v)", p.ErrorObj.Error(), p.PackageCode, p.Reason)
}

func (p *PlanError) Unwrap() error {
	return p.ErrorObj
}

func NewPlanError(code string, reason string) *PlanError {
	return &PlanError{
		ErrorObj:    ErrInvalidPlan,
		PackageCode: code,
		Reason:      reason,
	}
}
