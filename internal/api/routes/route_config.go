package routes

import (
	"foodgram/domain"
	"foodgram/internal/api/handlers"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	if c.Metrics != nil {
		c.App.Use(c.Metrics.Middleware())
		c.App.Get("/metrics", metrics.Handler(c.Gatherer))
	}
	c.GuestRoute()
	c.User()
	c.Catalog()
	c.Recipe()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	c.App.Post("/api/auth/token/login", c.UserHandler.Login)

	user := c.App.Group("/api/users")
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", optional, c.UserHandler.ListUsers)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Put("/me/avatar", auth, c.UserHandler.UpdateAvatar)
		user.Delete("/me/avatar", auth, c.UserHandler.DeleteAvatar)
		user.Post("/set_password", auth, c.UserHandler.SetPassword)
		user.Get("/subscriptions", auth, c.UserHandler.ListSubscriptions)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", auth, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("/", c.CatalogHandler.ListTags)
	tags.Get("/:id", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("/", c.CatalogHandler.ListIngredients)
	ingredients.Post("/import",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.OnlyAllow(domain.RoleAdmin),
		c.CatalogHandler.ImportIngredients,
	)
	ingredients.Get("/:id", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipe() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	c.App.Get("/api/shopping_cart", auth, c.RecipeHandler.ListCart)

	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("/", optional, c.RecipeHandler.ListRecipes)
		recipes.Post("/", auth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingList)
		recipes.Get("/:id", optional, c.RecipeHandler.GetRecipe)
		recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
		recipes.Post("/:id/favorite", auth, c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", auth, c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", auth, c.RecipeHandler.AddToCart)
		recipes.Delete("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromCart)
	}
}
