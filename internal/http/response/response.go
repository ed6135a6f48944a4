package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = apperr.Message(err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError writes err with the status its apperr code maps to.
// Uncoded errors are reported as internal without leaking their text.
func RespondAppError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	if code == "" || code == apperr.CodeInternal {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: APIError{Message: "internal server error", Code: string(apperr.CodeInternal)},
		})
		return
	}
	RespondError(c, StatusFor(code), string(code), err)
}

func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation, apperr.CodeDuplicateReview, apperr.CodeEmptyCart:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeInvalidTransition, apperr.CodeOutOfStock, apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondMessage writes the {"message": ...} acknowledgement used by mutations.
func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
