package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/lifedash/lifedash/internal/app/api/middleware"
	couponsvc "github.com/lifedash/lifedash/internal/app/service/coupon"
	"github.com/lifedash/lifedash/pkg/response"
)

func couponErrorCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, couponsvc.ErrNotFound):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, couponsvc.ErrArchived),
		errors.Is(err, couponsvc.ErrExpired),
		errors.Is(err, couponsvc.ErrAtCap),
		errors.Is(err, couponsvc.ErrDuplicateCode):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

// @Summary      Create Coupon (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body couponsvc.CreateRequest true "Coupon definition"
// @Success      200  {object}  response.APIResponse[models.Coupon]
// @Router       /api/v1/admin/create_coupon [post]
func ApiCreateCoupon(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponsvc.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		created, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](couponErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// @Summary      List Active Coupons (Admin)
// @Description  Runs the lazy archival sweep, then returns coupons still active.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Coupon]
// @Router       /api/v1/admin/list_active_coupons [post]
func ApiListActiveCoupons(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(coupons))
	}
}

// @Summary      List Archived Coupons (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Coupon]
// @Router       /api/v1/admin/list_archived_coupons [post]
func ApiListArchivedCoupons(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.ListArchived(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(coupons))
	}
}

type UpdateCouponRequest struct {
	ID string `json:"id"`
	couponsvc.UpdateRequest
}

// @Summary      Update Coupon (Admin)
// @Description  Partial update; archived coupons are immutable.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateCouponRequest true "Fields to update"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/update_coupon [post]
func ApiUpdateCoupon(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		if err := svc.Update(c.Request.Context(), req.ID, &req.UpdateRequest); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](couponErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type RedeemCouponRequest struct {
	ID string `json:"id"`
}

// @Summary      Redeem Coupon (Admin usage simulation)
// @Description  Appends a usage record and consumes one slot; no-op at the cap.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RedeemCouponRequest true "Coupon id"
// @Success      200  {object}  response.APIResponse[models.Coupon]
// @Router       /api/v1/admin/redeem_coupon [post]
func ApiRedeemCoupon(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RedeemCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		u := mw.CurrentUser(c)
		redeemed, err := svc.Redeem(c.Request.Context(), req.ID, u.ID, u.Email)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](couponErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(redeemed))
	}
}

type ArchiveCouponRequest struct {
	ID string `json:"id"`
}

// @Summary      Archive Coupon (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ArchiveCouponRequest true "Coupon id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/archive_coupon [post]
func ApiArchiveCoupon(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ArchiveCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		if err := svc.ArchiveManually(c.Request.Context(), req.ID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](couponErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminCouponRoutes(r gin.IRouter, svc *couponsvc.Service) {
	r.POST("/create_coupon", ApiCreateCoupon(svc))
	r.POST("/list_active_coupons", ApiListActiveCoupons(svc))
	r.POST("/list_archived_coupons", ApiListArchivedCoupons(svc))
	r.POST("/update_coupon", ApiUpdateCoupon(svc))
	r.POST("/redeem_coupon", ApiRedeemCoupon(svc))
	r.POST("/archive_coupon", ApiArchiveCoupon(svc))
}
