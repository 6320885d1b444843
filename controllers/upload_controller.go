package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/gee-graphics/gee-graphics-api/services"
	"github.com/gee-graphics/gee-graphics-api/utils"
	"github.com/gin-gonic/gin"
)

// UploadMockup handles POST /api/v1/orders/:id/image - attaches a mockup
// image to an order. The order is marked pending while the image is
// compressed and stored, then ready once the storage key is known. If
// processing fails the order reverts to its previous image fields.
func UploadMockup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
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

	prevState := order.ImageState
	prevKey := order.ImageKey

	// Mark the attachment in flight before the slow work starts so other
	// dashboard sessions see it
	order.ImageState = models.ImagePending
	order.ImageKey = ""
	if err := store.UpdateOrder(&order); err != nil {
		respondStoreError(c, err)
		return
	}

	key, err := services.GetMockupService().ProcessAndStore(fileHeader)
	if err != nil {
		// Revert to the previous attachment, keeping the order usable
		order.ImageState = prevState
		order.ImageKey = prevKey
		if revertErr := store.UpdateOrder(&order); revertErr != nil {
			log.Printf("Failed to revert image state for order %s: %v", order.ID, revertErr)
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to process mockup image",
			},
		})
		return
	}

	// Replacing a mockup orphans the old object; clean it up best-effort
	if prevKey != "" && prevKey != key {
		if delErr := services.GetMockupService().DeleteMockup(prevKey); delErr != nil {
			log.Printf("Failed to delete replaced mockup %s: %v", prevKey, delErr)
		}
	}

	order.ImageState = models.ImageReady
	order.ImageKey = key
	if err := store.UpdateOrder(&order); err != nil {
		respondStoreError(c, err)
		return
	}

	attachMockupURL(&order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetMockup handles GET /api/v1/orders/:id/image - returns a short-lived
// download URL for the order's mockup
func GetMockup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	order, err := services.GetOrderStore().GetOrder(userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if order.ImageState != models.ImageReady || order.ImageKey == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Order has no mockup image",
			},
		})
		return
	}

	url, err := services.GetMockupService().GetMockupURL(order.ImageKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to generate download URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"url": url,
		},
	})
}
