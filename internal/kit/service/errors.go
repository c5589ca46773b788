package service

import (
	"errors"
	"fmt"
	"net/http"

	"kitportal/platform/apperr"
	"kitportal/platform/httpkit"
)

// ActivationReason tells why a barcode could not be activated.
type ActivationReason string

const (
	ReasonInvalidBarcode ActivationReason = "invalid_barcode"
	ReasonMultipleDNAKit ActivationReason = "multiple_dna_kit"
	ReasonGeneric        ActivationReason = "generic"
)

// ActivationError is returned by ActivateBarcode. It unwraps to an
// *apperr.Error so the HTTP layer can map it.
type ActivationError struct {
	Reason    ActivationReason
	Barcode   string
	ProfileID string
	Err       error
}

func (e *ActivationError) Error() string {
	switch e.Reason {
	case ReasonInvalidBarcode:
		return "invalid barcode"
	case ReasonMultipleDNAKit:
		return "profile already has an active DNA kit"
	default:
		return fmt.Sprintf("failed to activate code: %s; profile id: %s", e.Barcode, e.ProfileID)
	}
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// newActivationError maps an upstream activation failure by status code.
func newActivationError(barcode, profileID string, cause error) *ActivationError {
	reason := ReasonGeneric
	kind := apperr.KindUnexpected
	if status, ok := httpkit.StatusCode(cause); ok {
		switch status {
		case http.StatusBadRequest:
			reason, kind = ReasonInvalidBarcode, apperr.KindValidation
		case http.StatusConflict:
			reason, kind = ReasonMultipleDNAKit, apperr.KindConflict
		}
	}
	e := &ActivationError{Reason: reason, Barcode: barcode, ProfileID: profileID}
	e.Err = apperr.Wrap(kind, e.Error(), cause).WithOp("kit.ActivateBarcode").WithDetails(map[string]string{
		"reason": string(reason),
	})
	return e
}

// invalidBarcode is raised before any network call for a malformed barcode.
func invalidBarcode(barcode, profileID string) *ActivationError {
	e := &ActivationError{Reason: ReasonInvalidBarcode, Barcode: barcode, ProfileID: profileID}
	e.Err = apperr.Validation(e.Error()).WithOp("kit.ActivateBarcode").WithDetails(map[string]string{
		"reason": string(ReasonInvalidBarcode),
	})
	return e
}

// replacementError maps a replacement failure: a 400 means the customer
// details were rejected, anything else is unexpected.
func replacementError(cause error) error {
	if status, ok := httpkit.StatusCode(cause); ok && status == http.StatusBadRequest {
		return apperr.Wrap(apperr.KindValidation, "Invalid info", cause).WithOp("kit.RequestReplacement")
	}
	return apperr.Unexpected("Unexpected error, please contact our customer service to request a new kit.", cause).
		WithOp("kit.RequestReplacement")
}

// metadataError maps an add-metadata failure.
func metadataError(cause error) error {
	if status, ok := httpkit.StatusCode(cause); ok && status == http.StatusBadRequest {
		return apperr.Wrap(apperr.KindValidation, "invalid metadata", cause).WithOp("kit.AddMetadata")
	}
	return apperr.Unexpected("failed to add metadata", cause).WithOp("kit.AddMetadata")
}

func errNotAuthorized(op string) error {
	return apperr.Unauthorized("not authorized").WithOp(op)
}

// IsActivationError reports whether err carries an ActivationError and returns it.
func IsActivationError(err error) (*ActivationError, bool) {
	var ae *ActivationError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
