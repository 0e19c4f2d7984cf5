package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/models"
)

// AssetGroup is the assets of one type, in the order the desk reviews them
type AssetGroup struct {
	Type  models.AssetType   `json:"type"`
	Label string             `json:"label"`
	Count int                `json:"count"`
	Items []models.AssetView `json:"items"`
}

func groupAssets(assets []models.Asset) []AssetGroup {
	groups := make([]AssetGroup, 0, len(models.AssetTypes))
	for _, t := range models.AssetTypes {
		g := AssetGroup{Type: t, Label: t.Label(), Items: []models.AssetView{}}
		for _, a := range assets {
			if a.AssetType == t {
				g.Items = append(g.Items, a.View())
			}
		}
		g.Count = len(g.Items)
		groups = append(groups, g)
	}
	return groups
}

// ListAssets returns every asset with labels, also grouped by type
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.API.ListAssets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assets": models.AssetViews(assets),
		"groups": groupAssets(assets),
	})
}

// CreateAsset starts tracking a work item. New assets are Active unless a
// status is given.
func (h *Handler) CreateAsset(c *gin.Context) {
	var req models.CreateAsset
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.AssetType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown asset_type " + string(req.AssetType)})
		return
	}
	if req.Status == "" {
		req.Status = models.AssetActive
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + string(req.Status)})
		return
	}

	asset, err := h.API.CreateAsset(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset.View()})
}

// DeleteAsset stops tracking a work item
func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.API.DeleteAsset(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}
