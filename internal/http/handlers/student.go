package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type StudentHandler struct {
	auth     services.AuthService
	students services.StudentService
}

func NewStudentHandler(auth services.AuthService, students services.StudentService) *StudentHandler {
	return &StudentHandler{auth: auth, students: students}
}

type studentRegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone" binding:"required,phone"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Grade    string `json:"grade"`
}

// POST /students/register
func (h *StudentHandler) Register(c *gin.Context) {
	var req studentRegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.auth.RegisterStudent(c.Request.Context(), services.StudentRegistration{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
		Grade:    req.Grade,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Registered", "student_id": st.ID})
}

// POST /students/login
func (h *StudentHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.auth.LoginStudent(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"student_id":      sess.Student.ID,
		"student_name":    sess.Student.Name,
		"student_phone":   sess.Student.Phone,
		"student_address": sess.Student.Address,
		"token":           sess.Token,
	})
}

// GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	st, err := h.students.Get(c.Request.Context(), actingID(c, ctxutil.RoleStudent, id))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, st)
}

type studentUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone" binding:"omitempty,phone"`
	Address *string `json:"address"`
	Grade   *string `json:"grade"`
}

// PUT /students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req studentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.students.Update(c.Request.Context(), actingID(c, ctxutil.RoleStudent, id), services.StudentUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Grade:   req.Grade,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, st)
}
