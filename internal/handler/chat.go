package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/middleware"
	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/repository"
	"github.com/fixthevideo/studio-api/internal/service"
)

// ChatHandler serves both sides of the support chat.  Customers see
// only their own thread; the admin desk sees every thread, including
// an empty placeholder for customers who have never chatted.
type ChatHandler struct {
	Chat      *repository.ChatRepo
	Customers *repository.CustomerRepo
	Relay     *service.Relay
}

func NewChatHandler(chat *repository.ChatRepo, customers *repository.CustomerRepo, relay *service.Relay) *ChatHandler {
	if chat == nil || customers == nil || relay == nil {
		panic("chat handler: nil dependency")
	}
	return &ChatHandler{Chat: chat, Customers: customers, Relay: relay}
}

type sendReq struct {
	Text string `json:"text"`
}

// MyThread returns the authenticated customer's thread.  Customers who
// have never chatted get an empty thread rather than a 404.
func (h *ChatHandler) MyThread(c echo.Context) error {
	email := middleware.Subject(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	thread, err := h.Chat.GetThread(ctx, email)
	if err == repository.ErrNotFound {
		name := email
		if cust, cerr := h.Customers.GetByEmail(ctx, email); cerr == nil {
			name = cust.Name
		}
		return c.JSON(http.StatusOK, model.ChatThread{
			CustomerEmail: email,
			CustomerName:  name,
			Messages:      []model.ChatMessage{},
		})
	}
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// MySend appends a customer message to their own thread.
func (h *ChatHandler) MySend(c echo.Context) error {
	var req sendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Relay.Notify(ctx, middleware.Subject(c), model.SenderUser, req.Text)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// MyMarkRead clears the customer's unread counter on their thread.
func (h *ChatHandler) MyMarkRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Chat.MarkRead(ctx, middleware.Subject(c), model.SenderUser); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "read"})
}

// ListThreads returns every thread for the admin desk, synthesizing an
// empty thread for each registered customer without one so the desk
// can start conversations.
func (h *ChatHandler) ListThreads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	threads, err := h.Chat.ListThreads(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	seen := make(map[string]bool, len(threads))
	for _, t := range threads {
		seen[t.CustomerEmail] = true
	}
	customers, err := h.Customers.List(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	for _, cust := range customers {
		if !seen[cust.Email] {
			threads = append(threads, model.ChatThread{
				CustomerEmail: cust.Email,
				CustomerName:  cust.Name,
				Messages:      []model.ChatMessage{},
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"threads": threads})
}

// GetThread returns one customer's thread for the admin desk.
func (h *ChatHandler) GetThread(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	thread, err := h.Chat.GetThread(ctx, c.Param("email"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// Send appends an admin message to a customer's thread, creating the
// thread if needed.
func (h *ChatHandler) Send(c echo.Context) error {
	var req sendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Relay.Notify(ctx, c.Param("email"), model.SenderAdmin, req.Text)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// MarkRead clears the admin desk's unread counter on a thread.
func (h *ChatHandler) MarkRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Chat.MarkRead(ctx, c.Param("email"), model.SenderAdmin); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "read"})
}
