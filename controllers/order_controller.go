package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gee-graphics/gee-graphics-api/middleware"
	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/gee-graphics/gee-graphics-api/services"
	"github.com/gin-gonic/gin"
)

// CreateOrderRequest represents the request body for creating an order.
// Only the team name is mandatory; everything else can be filled in later
// from the dashboard.
type CreateOrderRequest struct {
	TeamName string           `json:"team_name" binding:"required"`
	Deadline string           `json:"deadline"`
	Style    string           `json:"style"`
	Fabric   string           `json:"fabric"`
	Sizes    models.SizeChart `json:"sizes"`
	Quantity int              `json:"quantity"`
}

// UpdateOrderRequest represents the request body for editing order details.
// Pointer fields distinguish "not provided" from explicit zero values.
type UpdateOrderRequest struct {
	TeamName *string           `json:"team_name"`
	Deadline *string           `json:"deadline"`
	Style    *string           `json:"style"`
	Fabric   *string           `json:"fabric"`
	Sizes    *models.SizeChart `json:"sizes"`
	Quantity *int              `json:"quantity"`
}

// TransitionRequest represents the request body for a workflow transition
type TransitionRequest struct {
	Action string `json:"action" binding:"required"`
}

// UpdateSizingRequest represents the request body for saving sizing notes
type UpdateSizingRequest struct {
	SizingNotes string `json:"sizing_notes"`
	Advance     bool   `json:"advance"`
}

// UpdateDeliveryRequest represents the request body for setting delivery status
type UpdateDeliveryRequest struct {
	DeliveryStatus string `json:"delivery_status" binding:"required"`
}

// respondStoreError maps persistence errors onto the response envelope
func respondStoreError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "STORAGE_ERROR",
			"message": "The storage backend failed; please retry",
		},
	})
}

// requireUserID extracts the authenticated user id or writes a 401
func requireUserID(c *gin.Context) (uint, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return 0, false
	}
	return userID, true
}

// CreateOrder handles POST /api/v1/orders - creates a new order
func CreateOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order := models.NewDraftOrder(userID)
	order.TeamName = req.TeamName
	order.Deadline = req.Deadline
	order.Style = req.Style
	order.Fabric = req.Fabric
	if req.Sizes != nil {
		order.Sizes = req.Sizes
	}
	order.Quantity = req.Quantity
	order.Normalize()

	if err := order.ValidateForCreate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if _, err := services.GetOrderStore().CreateOrder(&order); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists the user's orders,
// optionally filtered to a dashboard tab
func ListOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := services.GetOrderStore().ListOrders(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if tab := c.Query("tab"); tab != "" {
		orders = models.FilterByTab(orders, tab)
	}

	// Pagination
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	total := len(orders)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders[start:end],
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - gets a single order
func GetOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	order, err := services.GetOrderStore().GetOrder(userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	attachMockupURL(&order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - edits order details.
// Workflow state is not editable here; use the transitions endpoint.
func UpdateOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	store := services.GetOrderStore()
	order, err := store.GetOrder(userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if req.TeamName != nil {
		if *req.TeamName == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Team name cannot be empty",
				},
			})
			return
		}
		order.TeamName = *req.TeamName
	}
	if req.Deadline != nil {
		order.Deadline = *req.Deadline
	}
	if req.Style != nil {
		order.Style = *req.Style
	}
	if req.Fabric != nil {
		order.Fabric = *req.Fabric
	}
	if req.Sizes != nil {
		order.Sizes = *req.Sizes
	}
	if req.Quantity != nil {
		// Quantity stands on its own; it is never recomputed from sizes
		order.Quantity = *req.Quantity
	}
	order.Normalize()

	if err := store.UpdateOrder(&order); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// Transition handles POST /api/v1/orders/:id/transitions - applies a
// workflow action to the order
func Transition(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	store := services.GetOrderStore()
	order, err := store.GetOrder(userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	next, err := models.ApplyTransition(order, models.TransitionAction(req.Action))
	if err != nil {
		var invalid *models.InvalidTransitionError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": invalid.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if err := store.UpdateOrder(&next); err != nil {
		respondStoreError(c, err)
		return
	}

	middleware.RecordTransition(req.Action)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    next,
	})
}

// UpdateSizing handles PUT /api/v1/orders/:id/sizing - saves sizing notes
// and optionally advances the order to printing
func UpdateSizing(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateSizingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	store := services.GetOrderStore()
	order, err := store.GetOrder(userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	order.SizingNotes = req.SizingNotes

	if req.Advance {
		next, err := models.ApplyTransition(order, models.ActionNextStep)
		if err != nil {
			var invalid *models.InvalidTransitionError
			if errors.As(err, &invalid) {
				c.JSON(http.StatusConflict, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_TRANSITION",
						"message": invalid.Error(),
					},
				})
				return
			}
			respondStoreError(c, err)
			return
		}
		order = next
		middleware.RecordTransition(string(models.ActionNextStep))
	}

	if err := store.UpdateOrder(&order); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateDelivery handles PUT /api/v1/orders/:id/delivery - sets the
// delivery status of an order awaiting delivery
func UpdateDelivery(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	status := models.DeliveryStatus(req.DeliveryStatus)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid delivery status",
			},
		})
		return
	}

	store := services.GetOrderStore()
	order, err := store.GetOrder(userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	order.DeliveryStatus = status

	if err := store.UpdateOrder(&order); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes an order.
// Deleting an order that is already gone still succeeds.
func DeleteOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := services.GetOrderStore().DeleteOrder(userID, c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Order deleted",
		},
	})
}

// attachMockupURL fills the computed image URL for orders whose mockup
// has finished processing. URL generation failures are non-fatal; the
// order is still returned without the link.
func attachMockupURL(order *models.Order) {
	if order.ImageState != models.ImageReady || order.ImageKey == "" {
		return
	}
	url, err := services.GetMockupService().GetMockupURL(order.ImageKey)
	if err != nil {
		return
	}
	order.ImageURL = url
}
