package controllers

import (
	"net/http"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/gee-graphics/gee-graphics-api/services"
	"github.com/gin-gonic/gin"
)

// GetPrices handles GET /api/v1/prices - returns the user's price table.
// Users who have never saved prices get the stock defaults.
func GetPrices(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	table, err := services.GetOrderStore().LoadPriceTable(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// UpdatePrices handles PUT /api/v1/prices - overwrites the price table.
// The body is a flat label-to-amount object; non-numeric amounts are
// coerced to zero rather than rejected.
func UpdatePrices(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req map[string]interface{}
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

	// Full overwrite: labels absent from the body are dropped
	table := models.PriceTable{UserID: userID}
	for label, amount := range req {
		table.SetPrice(label, amount)
	}
	if table.Prices == nil {
		table.Prices = models.PriceMap{}
	}

	if err := services.GetOrderStore().SavePriceTable(&table); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}
