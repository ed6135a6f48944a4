package services

import (
	"context"
	"strings"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type StudentUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	Grade   *string
}

type StudentService interface {
	Get(ctx context.Context, id int64) (*types.Student, error)
	Update(ctx context.Context, id int64, in StudentUpdate) (*types.Student, error)
}

type studentService struct {
	log      *logger.Logger
	students repos.StudentRepo
}

func NewStudentService(log *logger.Logger, students repos.StudentRepo) StudentService {
	return &studentService{log: log.With("service", "StudentService"), students: students}
}

func (s *studentService) Get(ctx context.Context, id int64) (*types.Student, error) {
	const op = "student.get"
	st, err := s.students.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if st == nil {
		return nil, notFound(op, "student")
	}
	return st, nil
}

func (s *studentService) Update(ctx context.Context, id int64, in StudentUpdate) (*types.Student, error) {
	const op = "student.update"
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Name != nil {
		if st.Name = strings.TrimSpace(*in.Name); st.Name == "" {
			return nil, apperr.Validation(op, "name cannot be empty")
		}
		updates["name"] = st.Name
	}
	if in.Phone != nil {
		if st.Phone = strings.TrimSpace(*in.Phone); st.Phone == "" {
			return nil, apperr.Validation(op, "phone cannot be empty")
		}
		updates["phone"] = st.Phone
	}
	if in.Address != nil {
		st.Address = strings.TrimSpace(*in.Address)
		updates["address"] = st.Address
	}
	if in.Grade != nil {
		st.Grade = strings.TrimSpace(*in.Grade)
		updates["grade"] = st.Grade
	}
	if len(updates) == 0 {
		return st, nil
	}
	if _, err := s.students.Update(dbctx.Context{Ctx: ctx}, id, updates); err != nil {
		if aggregates.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeConflict, op, "Phone already registered")
		}
		return nil, repoErr(op, err)
	}
	return st, nil
}
