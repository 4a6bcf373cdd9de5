package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"blogcms/middleware"
	"blogcms/models"
	"blogcms/services"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostController struct {
	postService *services.PostService
}

func NewPostController(db *gorm.DB, clock utils.Clock) *PostController {
	return &PostController{
		postService: services.NewPostService(db, clock),
	}
}

// principal aborts with 401 when the token carried no usable identity.
func (pc *PostController) principal(c *gin.Context) (utils.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return utils.Principal{}, false
	}
	return principal, true
}

// GetPosts godoc
// @Summary List posts with their category and author
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Router /Post [get]
func (pc *PostController) GetPosts(c *gin.Context) {
	posts, err := pc.postService.List(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string
// @Router /Post/{id} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, err := pc.postService.Get(c.Request.Context(), id)
	if err != nil {
		pc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post owned by the caller
// @Description userId in the body is ignored; the owner comes from the token.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 401 {object} map[string]string
// @Router /Post [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	principal, ok := pc.principal(c)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.postService.Create(c.Request.Context(), services.PostInput{
		Title:            req.Title,
		Content:          req.Content,
		FeaturedImageURL: req.FeaturedImageURL,
		Status:           req.Status,
		CategoryID:       req.CategoryID,
	}, principal)
	if err != nil {
		internalError(c, err, "Failed to create post")
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), post.ID))
	c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a post owned by the caller
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param body body models.UpdatePostRequest true "Post"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string "missing, or owned by someone else"
// @Router /Post/{id} [put]
func (pc *PostController) UpdatePost(c *gin.Context) {
	principal, ok := pc.principal(c)
	if !ok {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := pc.postService.Update(c.Request.Context(), id, services.PostInput{
		Title:            req.Title,
		Content:          req.Content,
		FeaturedImageURL: req.FeaturedImageURL,
		Status:           req.Status,
		CategoryID:       req.CategoryID,
	}, principal)
	if err != nil {
		pc.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post owned by the caller
// @Description The userId query parameter is accepted and ignored.
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param userId query int false "Ignored"
// @Success 204
// @Failure 404 {object} map[string]string "missing, or owned by someone else"
// @Router /Post/{id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	principal, ok := pc.principal(c)
	if !ok {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := pc.postService.Delete(c.Request.Context(), id, principal); err != nil {
		pc.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (pc *PostController) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	internalError(c, err, "Post request failed")
}
