package v1

import (
	"encoding/json"
	"errors"

	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const contactSuccessMessage = "Thank you for your message. We will get back to you soon."

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, guards ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	api.POST("/contact", append(guards, handler.SubmitContact)...)
	registerMethodNotAllowed(api, "/contact")
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Send a message to the AnduBer team. Public endpoint, rate limited per client.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A wrong type on one field is a field error; the rest still decodes.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			c.Error(apperror.BadRequest(invalidBodyMessage, err))
			return
		}
		req.MistypedFields = []string{typeErr.Field}
	}

	out := h.contactUC.Submit(c.Request.Context(), &req, submissionMeta(c))
	respond(c, "contact", contactSuccessMessage, out)
}
