package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/domain/reminder"
	"github.com/mediguard/mediguard/internal/service"
)

type ReminderHandler struct {
	svc *service.ReminderService
}

func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

func (h *ReminderHandler) List(c *gin.Context) {
	paged, err := h.svc.ListReminders(c.Request.Context(), &reminder.ListRemindersQuery{
		UserID:   callerID(c),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 15),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, PagedResponse[ReminderResponse]{
		Items:      toReminderResponses(paged.Reminders),
		TotalCount: paged.TotalCount,
		Page:       paged.Page,
		PageSize:   paged.PageSize,
		TotalPages: paged.TotalPages,
	})
}

func (h *ReminderHandler) Upcoming(c *gin.Context) {
	hours := parseQueryInt(c, "hours", 24)
	reminders, err := h.svc.Upcoming(c.Request.Context(), callerID(c), time.Duration(hours)*time.Hour)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toReminderResponses(reminders))
}

func (h *ReminderHandler) MarkTaken(c *gin.Context) {
	h.resolve(c, h.svc.MarkTaken)
}

func (h *ReminderHandler) Skip(c *gin.Context) {
	h.resolve(c, h.svc.Skip)
}

type resolveFn func(ctx context.Context, id, callerID uuid.UUID, ip string) (*reminder.Reminder, error)

func (h *ReminderHandler) resolve(c *gin.Context, fn resolveFn) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := fn(c.Request.Context(), id, callerID(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toReminderResponse(r))
}
