package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	usersvc "github.com/lifedash/lifedash/internal/app/service/user"
	"github.com/lifedash/lifedash/internal/models"
	"github.com/lifedash/lifedash/pkg/response"
)

// UserItem is the admin-facing user shape; it mirrors the model minus
// nothing today but keeps the wire shape decoupled from the table.
type UserItem struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	IsPremium      bool    `json:"is_premium"`
	PlanName       string  `json:"plan_name"`
	PremiumStartAt *string `json:"premium_start_at"`
	PremiumEndAt   *string `json:"premium_end_at"`
	IsAdmin        bool    `json:"is_admin"`
}

func toUserItem(u *models.User) *UserItem {
	item := &UserItem{
		ID:        u.ID,
		Email:     u.Email,
		IsPremium: u.IsPremium,
		PlanName:  u.PlanName,
		IsAdmin:   u.IsAdmin,
	}
	if u.PremiumStartAt != nil {
		s := u.PremiumStartAt.Format("2006-01-02T15:04:05Z07:00")
		item.PremiumStartAt = &s
	}
	if u.PremiumEndAt != nil {
		s := u.PremiumEndAt.Format("2006-01-02T15:04:05Z07:00")
		item.PremiumEndAt = &s
	}
	return item
}

type ListUsersResponse struct {
	Items []*UserItem `json:"items"`
	Total int64       `json:"total"`
}

// @Summary      List Users (Admin)
// @Description  Paginated, filterable user listing.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body usersvc.ScanUsersRequest true "Filters, pagination and sorting"
// @Success      200  {object}  response.APIResponse[ListUsersResponse]
// @Router       /api/v1/admin/list_users [post]
func ApiListUsers(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.ScanUsersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanUsers(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(u *models.User, _ int) *UserItem { return toUserItem(u) })
		c.JSON(http.StatusOK, response.OKT(&ListUsersResponse{Items: items, Total: res.Total}))
	}
}

type UpdateUserRequest struct {
	ID string `json:"id"`
	usersvc.UpdateUserRequest
}

// @Summary      Update User (Admin)
// @Description  Partial update of premium state, plan and admin flag.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200  {object}  response.APIResponse[UserItem]
// @Router       /api/v1/admin/update_user [post]
func ApiUpdateUser(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		u, err := svc.UpdateUser(c.Request.Context(), req.ID, &req.UpdateUserRequest)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toUserItem(u)))
	}
}

func RegisterAdminUserRoutes(r gin.IRouter, svc *usersvc.Service) {
	r.POST("/list_users", ApiListUsers(svc))
	r.POST("/update_user", ApiUpdateUser(svc))
}
