package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"blogcms/models"
	"blogcms/services"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryController serves /Category. Unlike posts these routes carry no
// authentication.
type CategoryController struct {
	categoryService *services.CategoryService
}

func NewCategoryController(db *gorm.DB, clock utils.Clock) *CategoryController {
	return &CategoryController{
		categoryService: services.NewCategoryService(db, clock),
	}
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} models.Category
// @Router /Category [get]
func (cc *CategoryController) GetCategories(c *gin.Context) {
	categories, err := cc.categoryService.List(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string
// @Router /Category/{id} [get]
func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := cc.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		cc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param body body models.CategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Router /Category [post]
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := cc.categoryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		internalError(c, err, "Failed to create category")
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), category.ID))
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body models.CategoryRequest true "Category"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string
// @Router /Category/{id} [put]
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := cc.categoryService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		cc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category and, through the cascade, its posts
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /Category/{id} [delete]
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := cc.categoryService.Delete(c.Request.Context(), id); err != nil {
		cc.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (cc *CategoryController) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	internalError(c, err, "Category request failed")
}
