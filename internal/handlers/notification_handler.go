package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tradevault/backend/internal/models"
	"github.com/tradevault/backend/internal/repositories"
)

// NotificationHandler serves the notification inbox produced by the
// fan-out.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// EnrichedNotification includes executor info when the executor is a
// registered user.
type EnrichedNotification struct {
	models.Notification
	Executor *models.UserCompact `json:"executor,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[string]*models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.ExecutorID == "" {
			continue
		}
		if executor, ok := userCache[n.ExecutorID]; ok {
			enriched[i].Executor = executor
		} else if user, err := h.userRepository.GetByAccount(n.ExecutorID); err == nil {
			compact := user.ToCompact()
			userCache[n.ExecutorID] = &compact
			enriched[i].Executor = &compact
		}
	}
	return enriched
}

// GetNotifications returns a recipient's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := h.recipientID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	notifications, err := h.notificationRepository.GetByUser(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": h.enrichNotifications(notifications),
		},
	})
}

// GetUnreadCount returns the unread notification count for a recipient.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := h.recipientID(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	count, err := h.notificationRepository.GetUnreadCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// MarkAsRead marks a notification as read. One-way: there is no unread.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkAsRead(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteNotification hard-deletes a notification.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	if err := h.notificationRepository.Delete(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// recipientID resolves the recipient from the query or, failing that, the
// authenticated wallet address claim.
func (h *NotificationHandler) recipientID(c echo.Context) string {
	if userID := c.QueryParam("userId"); userID != "" {
		return models.NormalizeAddress(userID)
	}
	if account, ok := c.Get("account").(string); ok {
		return models.NormalizeAddress(account)
	}
	return ""
}
