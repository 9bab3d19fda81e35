package handler

import (
	"net/http"

	"posbackend/internal/middleware"
	"posbackend/internal/service"
	"posbackend/pkg/pagination"
	"posbackend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService      service.TaxService
	orderTaxService service.OrderTaxService
	secret          []byte
}

func NewTaxHandler(taxService service.TaxService, orderTaxService service.OrderTaxService, secret []byte) *TaxHandler {
	return &TaxHandler{taxService: taxService, orderTaxService: orderTaxService, secret: secret}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(h.secret, "admin", "manager", "staff")
	write := middleware.RequireRole(h.secret, "admin", "manager")

	rates := router.Group("/api/tax-rates")
	{
		rates.GET("", read, h.ListTaxRates)
		rates.POST("", write, h.CreateTaxRate)
		rates.PUT("/:id", write, h.UpdateTaxRate)
		rates.DELETE("/:id", write, h.DeleteTaxRate)
	}

	exemptions := router.Group("/api/tax-exemptions")
	{
		exemptions.GET("", read, h.ListTaxExemptions)
		exemptions.POST("", write, h.CreateTaxExemption)
		exemptions.PUT("/:id", write, h.UpdateTaxExemption)
		exemptions.DELETE("/:id", write, h.DeleteTaxExemption)
	}

	tax := router.Group("/api/tax")
	{
		tax.GET("/validation", write, h.ValidateConfiguration)
		tax.GET("/effective-rate", read, h.GetEffectiveRate)
		tax.POST("/calculate", read, h.CalculateTax)
	}

	router.GET("/api/orders/:id/taxes", read, h.GetOrderTaxes)
}

// ListTaxRates returns every rate of the business with the current warnings
// @Summary      List tax rates
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TaxRateListResponse}
// @Router       /api/tax-rates [get]
func (h *TaxHandler) ListTaxRates(c *gin.Context) {
	rates, err := h.taxService.ListTaxRates(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rates))
}

// CreateTaxRate creates a rate; the response carries configuration warnings
// @Summary      Create tax rate
// @Tags         tax
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TaxRateRequest  true  "Tax rate"
// @Success      201      {object}  response.Response{data=service.TaxRateResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/tax-rates [post]
func (h *TaxHandler) CreateTaxRate(c *gin.Context) {
	var req service.TaxRateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.taxService.CreateTaxRate(c.Request.Context(), middleware.BusinessID(c), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessWithWarnings(http.StatusCreated, resp.TaxRate, resp.Warnings))
}

// UpdateTaxRate replaces a rate's settings
// @Summary      Update tax rate
// @Tags         tax
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Tax rate ID"
// @Param        payload  body      service.TaxRateRequest  true  "Tax rate"
// @Success      200      {object}  response.Response{data=service.TaxRateResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/tax-rates/{id} [put]
func (h *TaxHandler) UpdateTaxRate(c *gin.Context) {
	var req service.TaxRateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.taxService.UpdateTaxRate(c.Request.Context(), middleware.BusinessID(c), c.Param("id"), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithWarnings(http.StatusOK, resp.TaxRate, resp.Warnings))
}

// DeleteTaxRate removes a rate and the exemptions that name it
// @Summary      Delete tax rate
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tax rate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/tax-rates/{id} [delete]
func (h *TaxHandler) DeleteTaxRate(c *gin.Context) {
	if err := h.taxService.DeleteTaxRate(c.Request.Context(), middleware.BusinessID(c), c.Param("id"), middleware.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tax rate deleted"}))
}

// ListTaxExemptions supports ?exemption_type=, ?entity_id=, ?page= and ?limit=
// @Summary      List tax exemptions
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Param        exemption_type  query     string  false  "customer, product or category"
// @Param        entity_id       query     string  false  "Exempted entity"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Number of items per page (default 20)"
// @Success      200             {object}  response.Response{data=response.Page}
// @Router       /api/tax-exemptions [get]
func (h *TaxHandler) ListTaxExemptions(c *gin.Context) {
	params := pagination.Parse(c)

	exemptions, total, err := h.taxService.ListTaxExemptions(c.Request.Context(), middleware.BusinessID(c), service.TaxExemptionFilter{
		ExemptionType: c.Query("exemption_type"),
		EntityID:      c.Query("entity_id"),
		Page:          params.Page,
		Limit:         params.Limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, params.Envelope(exemptions, total)))
}

// CreateTaxExemption exempts a customer, product or category from one rate or all of them
// @Summary      Create tax exemption
// @Tags         tax
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TaxExemptionRequest  true  "Tax exemption"
// @Success      201      {object}  response.Response{data=service.TaxExemptionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/tax-exemptions [post]
func (h *TaxHandler) CreateTaxExemption(c *gin.Context) {
	var req service.TaxExemptionRequest
	if !bindJSON(c, &req) {
		return
	}

	exemption, err := h.taxService.CreateTaxExemption(c.Request.Context(), middleware.BusinessID(c), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, exemption))
}

// @Summary      Update tax exemption
// @Tags         tax
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Tax exemption ID"
// @Param        payload  body      service.TaxExemptionRequest  true  "Tax exemption"
// @Success      200      {object}  response.Response{data=service.TaxExemptionResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/tax-exemptions/{id} [put]
func (h *TaxHandler) UpdateTaxExemption(c *gin.Context) {
	var req service.TaxExemptionRequest
	if !bindJSON(c, &req) {
		return
	}

	exemption, err := h.taxService.UpdateTaxExemption(c.Request.Context(), middleware.BusinessID(c), c.Param("id"), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, exemption))
}

// @Summary      Delete tax exemption
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Tax exemption ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/tax-exemptions/{id} [delete]
func (h *TaxHandler) DeleteTaxExemption(c *gin.Context) {
	if err := h.taxService.DeleteTaxExemption(c.Request.Context(), middleware.BusinessID(c), c.Param("id"), middleware.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tax exemption deleted"}))
}

// ValidateConfiguration reports problems with the active rates
// @Summary      Validate tax configuration
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/tax/validation [get]
func (h *TaxHandler) ValidateConfiguration(c *gin.Context) {
	warnings, err := h.taxService.ValidateConfiguration(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"valid":    len(warnings) == 0,
		"warnings": warnings,
	}))
}

// @Summary      Get effective tax rate
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.EffectiveRateResponse}
// @Router       /api/tax/effective-rate [get]
func (h *TaxHandler) GetEffectiveRate(c *gin.Context) {
	rate, err := h.taxService.GetEffectiveRate(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rate))
}

// CalculateTax prices tax for a cart or order
// @Summary      Calculate tax
// @Description  Applies the active simple and compound rates minus matching exemptions. When order_id is set the tax lines are recorded against the order.
// @Tags         tax
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CalculateTaxRequest  true  "Cart"
// @Success      200      {object}  response.Response{data=service.CalculateTaxResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/tax/calculate [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	var req service.CalculateTaxRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.orderTaxService.Calculate(c.Request.Context(), middleware.BusinessID(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetOrderTaxes returns the tax lines recorded for an order
// @Summary      Get order taxes
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=[]service.OrderTaxResponse}
// @Router       /api/orders/{id}/taxes [get]
func (h *TaxHandler) GetOrderTaxes(c *gin.Context) {
	lines, err := h.orderTaxService.GetOrderTaxes(c.Request.Context(), middleware.BusinessID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, lines))
}
