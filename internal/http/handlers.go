package httpapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vitrine/internal/cart"
	"vitrine/internal/config"
	"vitrine/internal/domain"
	"vitrine/internal/repository"
	"vitrine/internal/service"
)

// maxUploadSize caps product image uploads at 3 MiB.
const maxUploadSize = 3 << 20

type Server struct {
	engine  *gin.Engine
	catalog *service.CatalogService
	orders  *service.OrderService
	cfg     config.Config
}

func NewServer(cfg config.Config, catalog *service.CatalogService, orders *service.OrderService) *Server {
	r := gin.New()
	r.Use(RequestID(), Logger(), gin.Recovery())
	s := &Server{engine: r, catalog: catalog, orders: orders, cfg: cfg}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// uploaded images and the admin panel are plain static trees
	s.engine.Static("/uploads", s.cfg.UploadsDir)
	s.engine.Static("/admin", s.cfg.AdminDir)

	api := s.engine.Group("/api")
	api.POST("/login", s.login)
	api.GET("/products", s.listProducts)
	api.GET("/config", s.businessInfo)
	api.POST("/orders", s.composeOrder)

	secured := api.Group("")
	secured.Use(requireToken(s.cfg.AdminToken))
	secured.POST("/products", s.createProduct)
	secured.PUT("/products/:id", s.updateProduct)
	secured.DELETE("/products/:id", s.deleteProduct)
	secured.PATCH("/products/reorder", s.reorderProducts)
}

type loginReq struct {
	Password string `json:"password"`
}

// @Summary Authenticate as administrator
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AdminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.cfg.AdminToken})
}

// @Summary List products in display order
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	list, err := s.catalog.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create product
// @Tags products
// @Accept mpfd
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string true "Description"
// @Param price formData string true "Price"
// @Param available formData string false "Available"
// @Param imageUrl formData string false "External image URL"
// @Param image formData file false "Image file"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security AdminToken
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	imagePath, err := s.saveUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := s.catalog.Create(c, service.CreateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Available:   c.PostForm("available"),
		ImagePath:   imagePath,
		ImageURL:    c.PostForm("imageUrl"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product (partial, absent fields untouched)
// @Tags products
// @Accept mpfd
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security AdminToken
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	imagePath, err := s.saveUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := s.catalog.Update(c, c.Param("id"), service.UpdateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Available:   c.PostForm("available"),
		ImagePath:   imagePath,
		ImageURL:    c.PostForm("imageUrl"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security AdminToken
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type reorderReq struct {
	OrderedIDs []string `json:"orderedIds"`
}

// @Summary Reorder products
// @Tags products
// @Accept json
// @Produce json
// @Param input body reorderReq true "IDs in the desired display order"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security AdminToken
// @Router /products/reorder [patch]
func (s *Server) reorderProducts(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds must be an array of ids"})
		return
	}
	if err := s.catalog.Reorder(c, req.OrderedIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type composeOrderReq struct {
	Items   []domain.CartLine `json:"items"`
	Name    string            `json:"name"`
	Address string            `json:"address"`
	Note    string            `json:"note"`
}

// @Summary Compose a WhatsApp order from cart lines
// @Tags orders
// @Accept json
// @Produce json
// @Param input body composeOrderReq true "Cart and delivery details"
// @Success 200 {object} service.OrderSummary
// @Failure 400 {object} map[string]string
// @Router /orders [post]
func (s *Server) composeOrder(c *gin.Context) {
	var req composeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	// rebuilding through the cart merges duplicate lines and drops
	// zero-quantity ones before composing
	lines := cart.FromLines(req.Items).Lines()
	summary, err := s.orders.Compose(lines, req.Name, req.Address, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Business identity and contact info
// @Tags config
// @Produce json
// @Success 200 {object} config.Business
// @Router /config [get]
func (s *Server) businessInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Business)
}

// saveUpload stores an optional multipart image and returns its public path,
// or "" when the request carries no file.
func (s *Server) saveUpload(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil // no file supplied
	}
	if err := validateUpload(fh); err != nil {
		return "", err
	}
	name := fmt.Sprintf("img-%d-%s%s",
		time.Now().UnixMilli(), uuid.NewString()[:8], filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, filepath.Join(s.cfg.UploadsDir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func validateUpload(fh *multipart.FileHeader) error {
	if fh.Size > maxUploadSize {
		return fmt.Errorf("%w: image exceeds 3 MiB", service.ErrInvalidInput)
	}
	if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: only images are allowed", service.ErrInvalidInput)
	}
	return nil
}

// respondError translates service and repository errors into JSON responses.
// Unexpected failures never leak their message to the client.
func respondError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
