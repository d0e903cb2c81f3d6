package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"

	"realtime_chat_service/internal/api/handlers"
	chatapp "realtime_chat_service/internal/chat/app"
	"realtime_chat_service/pkg/middlewares"
)

// RegisterRoutes wire the full HTTP and websocket surface onto the app
func RegisterRoutes(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	wsHandler *chatapp.ChatWebsocketHandler,
) {
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("chat service is running")
	})

	auth := app.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Use(middlewares.JWTMiddleware())
	auth.Post("/logout", authHandler.Logout)

	app.Get("/messages/:room?", chatHandler.Messages)
	app.Get("/rooms", chatHandler.Rooms)
	app.Get("/users", chatHandler.Users)
	app.Post("/upload", chatHandler.Upload)

	ws := app.Group("/ws", middlewares.JWTMiddleware())
	ws.Get("/", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))
}
