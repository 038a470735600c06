package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediguard/mediguard/internal/domain/medicine"
	"github.com/mediguard/mediguard/internal/service"
)

type MedicineHandler struct {
	svc *service.MedicineService
}

func NewMedicineHandler(svc *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{svc: svc}
}

type groupedMedicinesResponse struct {
	Verified   []MedicineResponse `json:"verified"`
	Fake       []MedicineResponse `json:"fake"`
	Suspicious []MedicineResponse `json:"suspicious"`
	Unverified []MedicineResponse `json:"unverified"`
}

func (h *MedicineHandler) List(c *gin.Context) {
	grouped, err := h.svc.ListMedicines(c.Request.Context(), callerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, groupedMedicinesResponse{
		Verified:   toMedicineResponses(grouped.Verified),
		Fake:       toMedicineResponses(grouped.Fake),
		Suspicious: toMedicineResponses(grouped.Suspicious),
		Unverified: toMedicineResponses(grouped.Unverified),
	})
}

type updateMedicineRequest struct {
	Name     *string `json:"name"`
	Dosage   *string `json:"dosage"`
	Timing   *string `json:"timing"`
	Duration *int    `json:"duration"`
}

func (h *MedicineHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.UpdateMedicine(c.Request.Context(), id, callerID(c), &medicine.UpdateMedicineCommand{
		Name:     req.Name,
		Dosage:   req.Dosage,
		Timing:   req.Timing,
		Duration: req.Duration,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toMedicineResponse(m))
}

func (h *MedicineHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteMedicine(c.Request.Context(), id, callerID(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
