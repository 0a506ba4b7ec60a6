package shared

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hrcontracts/internal/apperror"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/domain/novedades"
	"hrcontracts/internal/domain/onboarding"
	"hrcontracts/internal/domain/periods"
	"hrcontracts/internal/domain/users"
	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/requestctx"
	"hrcontracts/internal/transport/http/api"
)

type mapping struct {
	target error
	base   *apperror.AppError
}

var (
	errContractApproved   = apperror.New(http.StatusConflict, "contract_approved", "Contrato aprobado", "")
	errTerminationExists  = apperror.New(http.StatusConflict, "termination_exists", "Terminación registrada", "")
	errConfirmation       = apperror.New(http.StatusConflict, "confirmation_required", "Confirmación requerida", "")
	errDependencyNotMet   = apperror.New(http.StatusConflict, "dependency_not_met", "Requisito pendiente", "")
	errDependentsMarked   = apperror.New(http.StatusConflict, "dependents_marked", "Campos dependientes marcados", "")
	errToggleInProgress   = apperror.New(http.StatusConflict, "toggle_in_progress", "Cambio en curso", "")
	errContractDraft      = apperror.New(http.StatusConflict, "contract_draft", "Contrato en borrador", "")
	errNotFixedTerm       = apperror.New(http.StatusConflict, "not_fixed_term", "Contrato no es a término fijo", "")
	errContractTerminated = apperror.New(http.StatusConflict, "contract_terminated", "Contrato terminado", "")
	errExtensionRejected  = apperror.New(http.StatusUnprocessableEntity, "extension_rejected", "Prórroga no permitida", "")
	errMustBeIndefinite   = apperror.New(http.StatusUnprocessableEntity, "must_be_indefinite", "Debe ser indefinido", "")
	errInvalidAction      = apperror.New(http.StatusBadRequest, "invalid_action", "Acción inválida", "")
	errSelfDeactivation   = apperror.New(http.StatusConflict, "self_deactivation", "Acción no permitida", "")
	errUsePeriodExtension = apperror.New(http.StatusConflict, "use_period_extension", "Prórroga por periodos", "")
)

var domainErrors = []mapping{
	{contracts.ErrNotFound, apperror.ErrNotFound},
	{contracts.ErrContractApproved, errContractApproved},
	{contracts.ErrNotFixedTerm, errNotFixedTerm},
	{novedades.ErrTerminationExists, errTerminationExists},
	{novedades.ErrConfirmationRequired, errConfirmation},
	{novedades.ErrContractDraft, errContractDraft},
	{novedades.ErrUsePeriodExtension, errUsePeriodExtension},
	{periods.ErrNoPeriods, apperror.ErrNotFound},
	{periods.ErrBrokenSequence, apperror.ErrConflict},
	{periods.ErrEndNotAfterCurrent, errExtensionRejected},
	{periods.ErrExtensionTooShort, errExtensionRejected},
	{periods.ErrMustBeIndefinite, errMustBeIndefinite},
	{periods.ErrInvalidTipo, errExtensionRejected},
	{periods.ErrContractDraft, errContractDraft},
	{periods.ErrContractTerminated, errContractTerminated},
	{onboarding.ErrUnknownField, apperror.ErrInvalidInput},
	{onboarding.ErrDependencyNotMet, errDependencyNotMet},
	{onboarding.ErrDependentsMarked, errDependentsMarked},
	{onboarding.ErrConfirmationRequired, errConfirmation},
	{onboarding.ErrToggleInProgress, errToggleInProgress},
	{users.ErrNotFound, apperror.ErrNotFound},
	{users.ErrInvalidAction, errInvalidAction},
	{users.ErrSelfDeactivation, errSelfDeactivation},
}

// Classify turns any error returned by a service into the AppError sent to the client.
// Validation errors come back with their field list as details.
func Classify(err error) (*apperror.AppError, any) {
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		return apperror.ErrInvalidInput, map[string]any{"fields": verr.Fields}
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return apperror.Wrap(m.base, err.Error(), err), nil
		}
	}
	return apperror.ClassifyBackend(err), nil
}

// WriteError classifies err, logs server-side failures and writes the envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, details := Classify(err)
	logger := logging.FromContext(r.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", appErr.Code), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("code", appErr.Code), zap.Error(err))
	}
	api.FailError(w, appErr, details, requestctx.GetRequestID(r.Context()))
}
