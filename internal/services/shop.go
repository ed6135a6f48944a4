package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/bookmart-backend/internal/data/aggregates"
	"github.com/yungbote/bookmart-backend/internal/data/repos"
	types "github.com/yungbote/bookmart-backend/internal/domain"
	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/dbctx"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
)

// ShopProfile is the public face of a shop. Phone is nil unless the viewer
// may contact the shop.
type ShopProfile struct {
	ID        int64   `json:"id"`
	ShopName  string  `json:"shop_name"`
	OwnerName string  `json:"owner_name"`
	Phone     *string `json:"phone,omitempty"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	LogoURL   string  `json:"logo_url"`
	BannerURL string  `json:"banner_url"`
	UPIID     string  `json:"upi_id"`
	Verified  bool    `json:"verified"`
}

type ShopProfileInput struct {
	ShopName  *string
	OwnerName *string
	Phone     *string
	Address   *string
	City      *string
	Logo      *Upload
	Banner    *Upload
}

type ShopAnalytics struct {
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	TodayRevenue float64 `json:"today_revenue"`
	AvgRating    float64 `json:"avg_rating"`
}

type ShopService interface {
	Profile(ctx context.Context, id int64, viewer Viewer) (*ShopProfile, error)
	UpdateProfile(ctx context.Context, id int64, in ShopProfileInput) (*ShopProfile, error)
	UpdateUPI(ctx context.Context, id int64, upiID string) error
	Analytics(ctx context.Context, id int64) (*ShopAnalytics, error)
	Rating(ctx context.Context, id int64) (types.Rating, error)
}

type shopService struct {
	log     *logger.Logger
	shops   repos.ShopRepo
	orders  repos.OrderRepo
	reviews repos.ReviewRepo
	images  storage.ImageStore
	now     func() time.Time
}

func NewShopService(log *logger.Logger, shops repos.ShopRepo, orders repos.OrderRepo, reviews repos.ReviewRepo, images storage.ImageStore) ShopService {
	return &shopService{
		log:     log.With("service", "ShopService"),
		shops:   shops,
		orders:  orders,
		reviews: reviews,
		images:  images,
		now:     time.Now,
	}
}

func profileOf(s *types.Shop) *ShopProfile {
	return &ShopProfile{
		ID:        s.ID,
		ShopName:  s.Name,
		OwnerName: s.OwnerName,
		Address:   s.Address,
		City:      s.City,
		LogoURL:   s.LogoURL,
		BannerURL: s.BannerURL,
		UPIID:     s.UPIID,
		Verified:  s.Verified,
	}
}

func (s *shopService) load(dbc dbctx.Context, op string, id int64) (*types.Shop, error) {
	shop, err := s.shops.GetByID(dbc, id)
	if err != nil {
		return nil, repoErr(op, err)
	}
	if shop == nil {
		return nil, notFound(op, "shop")
	}
	return shop, nil
}

func (s *shopService) Profile(ctx context.Context, id int64, viewer Viewer) (*ShopProfile, error) {
	const op = "shop.profile"
	dbc := dbctx.Context{Ctx: ctx}
	shop, err := s.load(dbc, op, id)
	if err != nil {
		return nil, err
	}
	out := profileOf(shop)
	reveal := viewer.ShopID == shop.ID
	if !reveal && viewer.StudentID > 0 {
		reveal, err = s.orders.HasActiveOrderWithShop(dbc, viewer.StudentID, shop.ID)
		if err != nil {
			return nil, repoErr(op, err)
		}
	}
	if reveal {
		phone := shop.Phone
		out.Phone = &phone
	}
	return out, nil
}

func (s *shopService) UpdateProfile(ctx context.Context, id int64, in ShopProfileInput) (*ShopProfile, error) {
	const op = "shop.update_profile"
	dbc := dbctx.Context{Ctx: ctx}
	shop, err := s.load(dbc, op, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	set := func(col string, v *string, dst *string) error {
		if v == nil {
			return nil
		}
		val := strings.TrimSpace(*v)
		if val == "" {
			return apperr.Validation(op, col+" cannot be empty")
		}
		updates[col] = val
		*dst = val
		return nil
	}
	for _, f := range []struct {
		col string
		v   *string
		dst *string
	}{
		{"shop_name", in.ShopName, &shop.Name},
		{"owner_name", in.OwnerName, &shop.OwnerName},
		{"phone", in.Phone, &shop.Phone},
		{"address", in.Address, &shop.Address},
		{"city", in.City, &shop.City},
	} {
		if err := set(f.col, f.v, f.dst); err != nil {
			return nil, err
		}
	}

	var replaced, added []string
	if in.Logo.present() {
		url, err := saveImage(ctx, s.images, op, storage.CategoryLogo, in.Logo)
		if err != nil {
			return nil, err
		}
		replaced, added = append(replaced, shop.LogoURL), append(added, url)
		shop.LogoURL = url
		updates["logo_url"] = url
	}
	if in.Banner.present() {
		url, err := saveImage(ctx, s.images, op, storage.CategoryBanner, in.Banner)
		if err != nil {
			for _, u := range added {
				discardImage(ctx, s.images, s.log, u)
			}
			return nil, err
		}
		replaced, added = append(replaced, shop.BannerURL), append(added, url)
		shop.BannerURL = url
		updates["banner_url"] = url
	}

	if len(updates) > 0 {
		if _, err := s.shops.Update(dbc, id, updates); err != nil {
			for _, u := range added {
				discardImage(ctx, s.images, s.log, u)
			}
			if aggregates.IsUniqueViolation(err) {
				return nil, apperr.New(apperr.CodeConflict, op, "Phone already registered")
			}
			return nil, repoErr(op, err)
		}
	}
	for _, u := range replaced {
		discardImage(ctx, s.images, s.log, u)
	}
	out := profileOf(shop)
	phone := shop.Phone
	out.Phone = &phone
	return out, nil
}

func (s *shopService) UpdateUPI(ctx context.Context, id int64, upiID string) error {
	const op = "shop.update_upi"
	upiID = strings.TrimSpace(upiID)
	if upiID != "" && !strings.Contains(upiID, "@") {
		return apperr.Validation(op, "upi_id must look like name@bank")
	}
	ok, err := s.shops.Update(dbctx.Context{Ctx: ctx}, id, map[string]any{"upi_id": upiID})
	if err != nil {
		return repoErr(op, err)
	}
	if !ok {
		return notFound(op, "shop")
	}
	return nil
}

func (s *shopService) Analytics(ctx context.Context, id int64) (*ShopAnalytics, error) {
	const op = "shop.analytics"
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.load(dbc, op, id); err != nil {
		return nil, err
	}
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	totals, err := s.orders.Totals(dbc, id, dayStart)
	if err != nil {
		return nil, repoErr(op, err)
	}
	rating, err := s.reviews.Average(dbc, types.TargetShop, id)
	if err != nil {
		return nil, repoErr(op, err)
	}
	return &ShopAnalytics{
		TotalOrders:  totals.Orders,
		TotalRevenue: totals.Revenue,
		TodayRevenue: totals.Today,
		AvgRating:    rating.Average,
	}, nil
}

func (s *shopService) Rating(ctx context.Context, id int64) (types.Rating, error) {
	r, err := s.reviews.Average(dbctx.Context{Ctx: ctx}, types.TargetShop, id)
	if err != nil {
		return types.Rating{}, repoErr("shop.rating", err)
	}
	return r, nil
}
