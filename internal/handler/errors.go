package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lakeshorecc/classreg-backend/internal/response"
	"github.com/lakeshorecc/classreg-backend/internal/schedule"
	"github.com/lakeshorecc/classreg-backend/internal/service"
)

// failFromService translates a service sentinel into the wire error code
// and status. Unknown errors fall through to a 500.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrRegistrantNotFound),
		errors.Is(err, service.ErrRegistrationNotFound),
		errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrDependentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)

	case errors.Is(err, service.ErrRegistrantInactive):
		response.Fail(c, http.StatusForbidden, response.ErrRegistrantInactive)
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyRegistered)
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Fail(c, http.StatusConflict, response.ErrCapacityExceeded)
	case errors.Is(err, service.ErrScheduleConflict),
		errors.Is(err, service.ErrRoomConflict):
		response.Fail(c, http.StatusConflict, response.ErrScheduleConflict)

	case errors.Is(err, service.ErrNotFamilyOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotFamilyOwner)
	case errors.Is(err, service.ErrDependentTooOld):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrDependentTooOld)
	case errors.Is(err, service.ErrFamilyExists),
		errors.Is(err, service.ErrAlreadyInFamily),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrStatusUnchanged),
		errors.Is(err, service.ErrAlreadyClosed),
		errors.Is(err, service.ErrClassAlreadyOpen):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrOwnerRemoval),
		errors.Is(err, service.ErrKindHasNoStatus):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrActionForbidden)

	case errors.Is(err, service.ErrInvalidClassPayload),
		errors.Is(err, schedule.ErrNoWeekdays),
		errors.Is(err, schedule.ErrEndBeforeStart),
		errors.Is(err, schedule.ErrDateRangeInverted),
		errors.Is(err, schedule.ErrStartInPast),
		errors.Is(err, schedule.ErrStartTimePassed):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidRecurrence)

	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
