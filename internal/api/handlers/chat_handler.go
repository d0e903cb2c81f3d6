package handlers

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	chatapp "realtime_chat_service/internal/chat/app"
	"realtime_chat_service/internal/chat/repository"
	"realtime_chat_service/pkg/logger"
)

// ChatHandler REST surface over the hub and the file store
type ChatHandler struct {
	hub   *chatapp.Hub
	files repository.FileStore
}

// NewChatHandler create ChatHandler
func NewChatHandler(hub *chatapp.Hub, files repository.FileStore) *ChatHandler {
	return &ChatHandler{hub: hub, files: files}
}

// Messages godoc
// @Summary     Paginated room history, newest first
// @Tags        chat
// @Produce     json
// @Param       room  path  string false "room name"
// @Param       page  query int    false "page number, 1-based"
// @Param       limit query int    false "messages per page"
// @Success     200 {object} map[string]interface{}
// @Router      /messages/{room} [get]
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	room := c.Params("room")
	if room == "" {
		room = chatapp.DefaultRoom
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	messages, hasMore := h.hub.History().Paginate(room, page, limit)
	return c.JSON(fiber.Map{
		"messages": messages,
		"hasMore":  hasMore,
	})
}

// Rooms godoc
// @Summary     Room summaries in creation order
// @Tags        chat
// @Produce     json
// @Success     200 {array} domain.RoomInfo
// @Router      /rooms [get]
func (h *ChatHandler) Rooms(c *fiber.Ctx) error {
	return c.JSON(h.hub.Rooms())
}

// Users godoc
// @Summary     Connected users in arrival order
// @Tags        chat
// @Produce     json
// @Success     200 {array} domain.Connection
// @Router      /users [get]
func (h *ChatHandler) Users(c *fiber.Ctx) error {
	return c.JSON(h.hub.Users())
}

// Upload godoc
// @Summary     Store a file attachment and return its URL
// @Tags        chat
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "attachment"
// @Success     200 {object} map[string]string
// @Failure     400 {object} map[string]string
// @Router      /upload [post]
func (h *ChatHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}

	src, err := fh.Open()
	if err != nil {
		logger.Log.Errorf("open upload error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(fh.Filename))
	contentType := fh.Header.Get("Content-Type")

	url, err := h.files.Save(c.Context(), name, src, fh.Size, contentType)
	if err != nil {
		logger.Log.Errorf("save upload error:", err, zap.String("filename", name))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload failed"})
	}

	return c.JSON(fiber.Map{
		"filename":     name,
		"originalName": fh.Filename,
		"url":          url,
	})
}
