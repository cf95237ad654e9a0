package v1

import (
	"errors"
	"net/http"

	"anduber-forms-backend/internal/delivery/http/response"
	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/pkg/apperror"
	"anduber-forms-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const (
	invalidBodyMessage       = "Invalid request body"
	dispatchFailedMessage    = "We could not deliver your message right now. Please try again later."
	notConfiguredMessage     = "Form submissions are temporarily unavailable. Please try again later."
	allowedSubmissionMethods = http.MethodPost
)

var errUnknownOutcome = errors.New("unknown submission outcome")

func submissionMeta(c *gin.Context) domain.SubmissionMeta {
	return domain.SubmissionMeta{
		ClientID:  c.GetString("ClientID"),
		RequestID: c.GetString("RequestID"),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// respond maps a pipeline outcome onto the HTTP response. Dropped
// submissions answer exactly like delivered ones.
func respond(c *gin.Context, form, successMessage string, out domain.Outcome) {
	label := out.Kind.String()

	switch out.Kind {
	case domain.OutcomeDelivered, domain.OutcomeSilentlyDropped:
		response.Success(c, http.StatusOK, successMessage, nil)
	case domain.OutcomeRejected:
		response.ValidationFailed(c, out.Errors)
	case domain.OutcomeDispatchFailed:
		cause := errors.New(out.Dispatch.Error)
		if out.Dispatch.NotConfigured {
			label = "not_configured"
			c.Error(apperror.ServiceUnavailable(notConfiguredMessage, cause))
		} else {
			c.Error(apperror.BadGateway(dispatchFailedMessage, cause))
		}
	case domain.OutcomeFailed:
		c.Error(apperror.Internal(out.Err))
	default:
		c.Error(apperror.Internal(errUnknownOutcome))
	}

	metrics.IncrementFormSubmission(form, label)
}

// registerMethodNotAllowed answers every non-POST method on a form route.
func registerMethodNotAllowed(api *gin.RouterGroup, path string) {
	notAllowed := func(c *gin.Context) {
		response.MethodNotAllowed(c, allowedSubmissionMethods)
	}
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead} {
		api.Handle(method, path, notAllowed)
	}
}
