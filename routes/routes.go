package routes

import (
	"blogcms/config"
	"blogcms/controllers"
	_ "blogcms/docs"
	"blogcms/middleware"
	"blogcms/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// NewRouter wires middleware, controllers and routes onto a fresh engine.
func NewRouter(cfg *config.Config, db *gorm.DB, tokens *utils.TokenService, clock utils.Clock) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	SetupRoutes(r,
		controllers.NewAuthController(db, tokens),
		controllers.NewCategoryController(db, clock),
		controllers.NewPostController(db, clock),
		controllers.NewHealthController(db),
		middleware.AuthRequired(tokens),
	)

	return r
}

func SetupRoutes(
	r *gin.Engine,
	authController *controllers.AuthController,
	categoryController *controllers.CategoryController,
	postController *controllers.PostController,
	healthController *controllers.HealthController,
	authRequired gin.HandlerFunc,
) {
	r.GET("/health", healthController.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.GET("/me", authRequired, authController.Me)
		}

		// categories carry no authentication, unlike posts
		categories := api.Group("/Category")
		{
			categories.GET("", categoryController.GetCategories)
			categories.GET("/:id", categoryController.GetCategory)
			categories.POST("", categoryController.CreateCategory)
			categories.PUT("/:id", categoryController.UpdateCategory)
			categories.DELETE("/:id", categoryController.DeleteCategory)
		}

		posts := api.Group("/Post")
		posts.Use(authRequired)
		{
			posts.GET("", postController.GetPosts)
			posts.GET("/:id", postController.GetPost)
			posts.POST("", postController.CreatePost)
			posts.PUT("/:id", postController.UpdatePost)
			posts.DELETE("/:id", postController.DeletePost)
		}
	}
}
