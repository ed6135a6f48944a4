package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	"github.com/yungbote/bookmart-backend/internal/http/response"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /grades
func (h *CatalogHandler) Grades(c *gin.Context) {
	out, err := h.catalog.Grades(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /subjects?grade=
func (h *CatalogHandler) Subjects(c *gin.Context) {
	out, err := h.catalog.Subjects(c.Request.Context(), c.Query("grade"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /books
func (h *CatalogHandler) SearchBooks(c *gin.Context) {
	f, err := searchFilter(c)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	rows, err := h.catalog.Search(c.Request.Context(), f)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if rows == nil {
		rows = []*types.Listing{}
	}
	response.RespondOK(c, rows)
}

func searchFilter(c *gin.Context) (types.SearchFilter, error) {
	const op = "catalog.search"
	f := types.SearchFilter{
		Query:   c.Query("query"),
		Grade:   c.Query("grade"),
		Subject: c.Query("subject"),
		City:    c.Query("city"),
		Sort:    types.SortOrder(strings.TrimSpace(c.Query("sort"))),
	}
	switch f.Sort {
	case catalog.SortNone, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortRating:
	default:
		return f, apperr.Validation(op, "sort must be price_asc, price_desc or rating")
	}
	shopID, err := optionalInt(c.Query("shop_id"))
	if err != nil {
		return f, apperr.Validation(op, "shop_id must be an integer")
	}
	f.ShopID = shopID
	if raw := strings.TrimSpace(c.Query("condition")); raw != "" {
		cond, ok := catalog.ParseCondition(raw)
		if !ok {
			return f, apperr.Validation(op, "condition must be new or used")
		}
		f.Condition = cond
	}
	for key, dst := range map[string]**float64{"price_min": &f.PriceMin, "price_max": &f.PriceMax} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, apperr.Validation(op, key+" must be a number")
		}
		*dst = &v
	}
	return f, nil
}

func viewerFrom(c *gin.Context) (services.Viewer, error) {
	studentID, err := optionalInt(c.Query("student_id"))
	if err != nil {
		return services.Viewer{}, apperr.Validation("viewer", "student_id must be an integer")
	}
	return services.Viewer{
		StudentID: actingID(c, ctxutil.RoleStudent, studentID),
		ShopID:    actingID(c, ctxutil.RoleShop, 0),
	}, nil
}

// GET /books/:id?student_id=
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewer, err := viewerFrom(c)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	row, err := h.catalog.GetBook(c.Request.Context(), id, viewer)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /books/:id/rating
func (h *CatalogHandler) BookRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.catalog.BookRating(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, r)
}

func (h *CatalogHandler) bookInput(c *gin.Context) (services.BookInput, func(), error) {
	in := services.BookInput{
		Name:      formString(c, "book_name"),
		Edition:   formString(c, "edition"),
		Subject:   formString(c, "subject"),
		Grade:     formString(c, "grade"),
		Condition: formString(c, "condition"),
	}
	noop := func() {}
	shopID, err := optionalInt(c.PostForm("shop_id"))
	if err != nil {
		return in, noop, apperr.Validation("form", "shop_id must be an integer")
	}
	in.ShopID = actingID(c, ctxutil.RoleShop, shopID)
	if in.Price, err = formFloat(c, "price"); err != nil {
		return in, noop, err
	}
	if in.Stock, err = formInt(c, "stock"); err != nil {
		return in, noop, err
	}
	cover, closer, err := formUpload(c, "cover")
	if err != nil {
		return in, noop, err
	}
	in.Cover = cover
	return in, closer, nil
}

// POST /books (multipart, optional "cover")
func (h *CatalogHandler) CreateBook(c *gin.Context) {
	in, closer, err := h.bookInput(c)
	defer closer()
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	book, err := h.catalog.CreateBook(c.Request.Context(), in)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"id": book.ID, "cover_url": book.CoverURL})
}

// PUT /books/:id (multipart, optional "cover")
func (h *CatalogHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, closer, err := h.bookInput(c)
	defer closer()
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	book, err := h.catalog.UpdateBook(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Updated", "book": book})
}

// DELETE /books/:id?shop_id=
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	shopID, err := optionalInt(c.Query("shop_id"))
	if err != nil {
		response.RespondAppError(c, apperr.Validation("params", "shop_id must be an integer"))
		return
	}
	if err := h.catalog.DeleteBook(c.Request.Context(), id, actingID(c, ctxutil.RoleShop, shopID)); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondMessage(c, "Deleted")
}
