package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/server/http/dto"
)

// CatalogHandler serves products and delivery points.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Products handles GET /api/catalog/products.
func (h *CatalogHandler) Products(c *gin.Context) {
	h.listProducts(c, true)
}

// AllProducts handles GET /api/admin/products.
func (h *CatalogHandler) AllProducts(c *gin.Context) {
	h.listProducts(c, false)
}

func (h *CatalogHandler) listProducts(c *gin.Context, availableOnly bool) {
	products, err := h.facade.Products(c.Request.Context(), availableOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Repositories handles GET /api/catalog/repositories.
func (h *CatalogHandler) Repositories(c *gin.Context) {
	h.listRepositories(c, true)
}

// AllRepositories handles GET /api/admin/repositories.
func (h *CatalogHandler) AllRepositories(c *gin.Context) {
	h.listRepositories(c, false)
}

func (h *CatalogHandler) listRepositories(c *gin.Context, openedOnly bool) {
	repos, err := h.facade.Repositories(c.Request.Context(), openedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.RepositoryResponse, 0, len(repos))
	for _, r := range repos {
		resp = append(resp, toRepositoryResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateProduct handles POST /api/admin/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), toProduct(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// UpdateProduct handles PUT /api/admin/products/:id. The body replaces
// every field.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p := toProduct(req)
	p.ID = id
	product, err := h.facade.UpdateProduct(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// CreateRepository handles POST /api/admin/repositories.
func (h *CatalogHandler) CreateRepository(c *gin.Context) {
	var req dto.RepositoryRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := toRepository(req)
	if err != nil {
		respondError(c, err)
		return
	}

	repo, err := h.facade.CreateRepository(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRepositoryResponse(*repo))
}

// UpdateRepository handles PUT /api/admin/repositories/:id. The body
// replaces every field.
func (h *CatalogHandler) UpdateRepository(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RepositoryRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := toRepository(req)
	if err != nil {
		respondError(c, err)
		return
	}

	r.ID = id
	repo, err := h.facade.UpdateRepository(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRepositoryResponse(*repo))
}

// toProduct treats a missing availability as available.
func toProduct(req dto.ProductRequest) model.Product {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Load:        req.Load,
		Available:   available,
	}
}

// toRepository treats a missing opened flag as opened.
func toRepository(req dto.RepositoryRequest) (model.Repository, error) {
	days, err := parseDays(req.Days)
	if err != nil {
		return model.Repository{}, err
	}
	opened := true
	if req.Opened != nil {
		opened = *req.Opened
	}
	return model.Repository{
		Name:      req.Name,
		Opened:    opened,
		Days:      days,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, nil
}

// parseDays accepts English weekday names, their three-letter prefix or
// numbers from 0 (Sunday) to 6.
func parseDays(raw []string) ([7]bool, error) {
	var mask [7]bool
	for _, d := range raw {
		d = strings.ToLower(strings.TrimSpace(d))
		if n, err := strconv.Atoi(d); err == nil {
			if n < 0 || n > 6 {
				return mask, domainErrors.ErrInvalidDate
			}
			mask[n] = true
			continue
		}
		found := false
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			name := strings.ToLower(wd.String())
			if d == name || (len(d) == 3 && strings.HasPrefix(name, d)) {
				mask[wd] = true
				found = true
				break
			}
		}
		if !found {
			return mask, domainErrors.ErrInvalidDate
		}
	}
	return mask, nil
}

func formatDays(mask [7]bool) []string {
	days := make([]string, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if mask[wd] {
			days = append(days, strings.ToLower(wd.String()))
		}
	}
	return days
}
