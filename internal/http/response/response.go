package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/platform/apierr"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Issues  []string `json:"issues,omitempty"`
	// AssignmentIDs lists the assignments blocking a conflicting request.
	AssignmentIDs []uint `json:"assignment_ids,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps a service error onto its status and error code.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.From(err)
	body := APIError{Message: ae.Error(), Code: ae.Code}
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		body.Issues = ve.Issues
	}
	body.AssignmentIDs = apperrors.BlockingIDs(err)
	c.Set(ctxutil.ErrorCodeKey, ae.Code)
	if ae.Status >= http.StatusInternalServerError {
		body.Message = "internal error"
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{Error: body})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
