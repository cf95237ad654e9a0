package v1

import (
	"anduber-forms-backend/internal/domain"
	"anduber-forms-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const joinSuccessMessage = "Thank you for your application. We will get back to you soon."

type JoinHandler struct {
	joinUC domain.JoinUsecase
}

// NewJoinHandler registers the join application routes
func NewJoinHandler(api *gin.RouterGroup, joinUC domain.JoinUsecase, guards ...gin.HandlerFunc) {
	handler := &JoinHandler{
		joinUC: joinUC,
	}

	api.POST("/join", append(guards, handler.SubmitApplication)...)
	registerMethodNotAllowed(api, "/join")
}

// SubmitApplication godoc
// @Summary      Submit Join Application
// @Description  Apply to one of the "join the movement" categories. The payload carries category, categoryId, name, email and the category's own fields.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        application  body      object  true  "Application fields keyed by name"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      429          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Failure      502          {object}  response.Response
// @Failure      503          {object}  response.Response
// @Router       /join [post]
func (h *JoinHandler) SubmitApplication(c *gin.Context) {
	var req domain.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(invalidBodyMessage, err))
		return
	}

	out := h.joinUC.Submit(c.Request.Context(), req, submissionMeta(c))
	respond(c, "join", joinSuccessMessage, out)
}
