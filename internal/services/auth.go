package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

const invalidCredentials = "Invalid credentials"

type ShopRegistration struct {
	ShopName  string
	OwnerName string
	Phone     string
	Password  string
	Address   string
	City      string
	UPIID     string
}

type StudentRegistration struct {
	Name     string
	Phone    string
	Password string
	Address  string
	Grade    string
}

type ShopSession struct {
	Shop  *types.Shop
	Token string
}

type StudentSession struct {
	Student *types.Student
	Token   string
}

type AuthService interface {
	RegisterShop(ctx context.Context, in ShopRegistration) (*types.Shop, error)
	LoginShop(ctx context.Context, phone, password string) (*ShopSession, error)
	RegisterStudent(ctx context.Context, in StudentRegistration) (*types.Student, error)
	LoginStudent(ctx context.Context, phone, password string) (*StudentSession, error)
	LoginAdmin(ctx context.Context, username, password string) (string, error)
	// EnsureAdmin creates the admin account or resets its password.
	EnsureAdmin(ctx context.Context, username, password string) error
	ParseToken(raw string) (*ctxutil.Principal, error)
}

type authService struct {
	log      *logger.Logger
	shops    repos.ShopRepo
	students repos.StudentRepo
	admins   repos.AdminRepo
	tokens   TokenIssuer
	cost     int
}

func NewAuthService(log *logger.Logger, shops repos.ShopRepo, students repos.StudentRepo, admins repos.AdminRepo, tokens TokenIssuer) AuthService {
	return &authService{
		log:      log.With("service", "AuthService"),
		shops:    shops,
		students: students,
		admins:   admins,
		tokens:   tokens,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *authService) hash(op, password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, op, err)
	}
	return string(h), nil
}

func matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) RegisterShop(ctx context.Context, in ShopRegistration) (*types.Shop, error) {
	const op = "auth.register_shop"
	shop := &types.Shop{
		Name:      strings.TrimSpace(in.ShopName),
		OwnerName: strings.TrimSpace(in.OwnerName),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		City:      strings.TrimSpace(in.City),
		UPIID:     strings.TrimSpace(in.UPIID),
	}
	if shop.Name == "" || shop.OwnerName == "" || shop.Phone == "" || in.Password == "" || shop.Address == "" || shop.City == "" {
		return nil, apperr.Validation(op, "shop_name, owner_name, phone, password, address and city are required")
	}
	hash, err := s.hash(op, in.Password)
	if err != nil {
		return nil, err
	}
	shop.Password = hash
	if err := s.shops.Create(dbctx.Context{Ctx: ctx}, shop); err != nil {
		if aggregates.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeConflict, op, "Phone already registered")
		}
		return nil, repoErr(op, err)
	}
	s.log.Info("Shop registered", "shop_id", shop.ID, "phone", shop.Phone)
	return shop, nil
}

func (s *authService) LoginShop(ctx context.Context, phone, password string) (*ShopSession, error) {
	const op = "auth.login_shop"
	shop, err := s.shops.GetByPhone(dbctx.Context{Ctx: ctx}, strings.TrimSpace(phone))
	if err != nil {
		return nil, repoErr(op, err)
	}
	if shop == nil || !matches(shop.Password, password) {
		return nil, apperr.Unauthorized(op, invalidCredentials)
	}
	if !shop.Verified {
		return nil, apperr.Unauthorized(op, "Account not approved yet.")
	}
	token, err := s.tokens.Issue(ctxutil.RoleShop, shop.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, op, err)
	}
	return &ShopSession{Shop: shop, Token: token}, nil
}

func (s *authService) RegisterStudent(ctx context.Context, in StudentRegistration) (*types.Student, error) {
	const op = "auth.register_student"
	st := &types.Student{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Grade:   strings.TrimSpace(in.Grade),
	}
	if st.Name == "" || st.Phone == "" || in.Password == "" {
		return nil, apperr.Validation(op, "name, phone and password are required")
	}
	hash, err := s.hash(op, in.Password)
	if err != nil {
		return nil, err
	}
	st.Password = hash
	if err := s.students.Create(dbctx.Context{Ctx: ctx}, st); err != nil {
		if aggregates.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeConflict, op, "Phone already registered")
		}
		return nil, repoErr(op, err)
	}
	s.log.Info("Student registered", "student_id", st.ID, "phone", st.Phone)
	return st, nil
}

func (s *authService) LoginStudent(ctx context.Context, phone, password string) (*StudentSession, error) {
	const op = "auth.login_student"
	st, err := s.students.GetByPhone(dbctx.Context{Ctx: ctx}, strings.TrimSpace(phone))
	if err != nil {
		return nil, repoErr(op, err)
	}
	if st == nil || !matches(st.Password, password) {
		return nil, apperr.Unauthorized(op, invalidCredentials)
	}
	token, err := s.tokens.Issue(ctxutil.RoleStudent, st.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, op, err)
	}
	return &StudentSession{Student: st, Token: token}, nil
}

func (s *authService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	const op = "auth.login_admin"
	admin, err := s.admins.GetByUsername(dbctx.Context{Ctx: ctx}, strings.TrimSpace(username))
	if err != nil {
		return "", repoErr(op, err)
	}
	if admin == nil || !matches(admin.Password, password) {
		return "", apperr.Unauthorized(op, invalidCredentials)
	}
	token, err := s.tokens.Issue(ctxutil.RoleAdmin, admin.ID)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, op, err)
	}
	s.log.Info("Admin logged in", "username", admin.Username)
	return token, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	const op = "auth.ensure_admin"
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return apperr.Validation(op, "admin username and password are required")
	}
	hash, err := s.hash(op, password)
	if err != nil {
		return err
	}
	if err := s.admins.Upsert(dbctx.Context{Ctx: ctx}, &types.Admin{Username: username, Password: hash}); err != nil {
		return repoErr(op, err)
	}
	return nil
}

func (s *authService) ParseToken(raw string) (*ctxutil.Principal, error) {
	return s.tokens.Parse(strings.TrimSpace(raw))
}
