package services

import (
	"io"
	"strings"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
)

// Upload is an optional file attached to a create or update call.
type Upload struct {
	Filename string
	Body     io.Reader
}

func (u *Upload) present() bool {
	return u != nil && u.Body != nil && strings.TrimSpace(u.Filename) != ""
}

// repoErr tags infrastructure failures with an apperr code.
func repoErr(op string, err error) error {
	return aggregates.MapError(op, err)
}

func notFound(op, what string) error {
	return apperr.NotFound(op, what+" not found")
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
