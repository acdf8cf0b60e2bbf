package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "github.com/lifedash/lifedash/internal/app/service/product"
	"github.com/lifedash/lifedash/pkg/response"
)

// @Summary      List Products (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Product]
// @Router       /api/v1/admin/list_products [post]
func ApiListProducts(svc *productsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(products))
	}
}

// @Summary      Create Product (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body productsvc.CreateRequest true "Product definition"
// @Success      200  {object}  response.APIResponse[models.Product]
// @Router       /api/v1/admin/create_product [post]
func ApiCreateProduct(svc *productsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productsvc.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		p, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

type UpdateProductRequest struct {
	ID string `json:"id"`
	productsvc.UpdateRequest
}

// @Summary      Update Product (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateProductRequest true "Fields to update"
// @Success      200  {object}  response.APIResponse[models.Product]
// @Router       /api/v1/admin/update_product [post]
func ApiUpdateProduct(svc *productsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		p, err := svc.Update(c.Request.Context(), req.ID, &req.UpdateRequest)
		if err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, productsvc.ErrNotFound) {
				code = response.APIResponseCodeBadRequest
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

type DeleteProductRequest struct {
	ID string `json:"id"`
}

// @Summary      Delete Product (Admin)
// @Description  No cascade: coupons and users keep the dangling plan name.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body DeleteProductRequest true "Product id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/delete_product [post]
func ApiDeleteProduct(svc *productsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		if err := svc.Delete(c.Request.Context(), req.ID); err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, productsvc.ErrNotFound) {
				code = response.APIResponseCodeBadRequest
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminProductRoutes(r gin.IRouter, svc *productsvc.Service) {
	r.POST("/list_products", ApiListProducts(svc))
	r.POST("/create_product", ApiCreateProduct(svc))
	r.POST("/update_product", ApiUpdateProduct(svc))
	r.POST("/delete_product", ApiDeleteProduct(svc))
}
