package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/mediguard/mediguard/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type dashboardResponse struct {
	UpcomingReminders   []ReminderResponse     `json:"upcoming_reminders"`
	RecentPrescriptions []PrescriptionResponse `json:"recent_prescriptions"`
	TotalMedicines      int                    `json:"total_medicines"`
	VerifiedCount       int                    `json:"verified_count"`
	FakeCount           int                    `json:"fake_count"`
	SuspiciousCount     int                    `json:"suspicious_count"`
	VerifiedPercentage  float64                `json:"verified_percentage"`
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), callerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	recent := make([]PrescriptionResponse, 0, len(summary.RecentPrescriptions))
	for _, p := range summary.RecentPrescriptions {
		recent = append(recent, toPrescriptionResponse(p))
	}

	respondOK(c, dashboardResponse{
		UpcomingReminders:   toReminderResponses(summary.UpcomingReminders),
		RecentPrescriptions: recent,
		TotalMedicines:      summary.TotalMedicines,
		VerifiedCount:       summary.VerifiedCount,
		FakeCount:           summary.FakeCount,
		SuspiciousCount:     summary.SuspiciousCount,
		VerifiedPercentage:  summary.VerifiedPercentage,
	})
}
