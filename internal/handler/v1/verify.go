package v1

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/config"
	"github.com/mediguard/mediguard/internal/service"
)

type VerifyHandler struct {
	svc     *service.VerificationService
	uploads config.UploadConfig
}

func NewVerifyHandler(svc *service.VerificationService, uploads config.UploadConfig) *VerifyHandler {
	return &VerifyHandler{svc: svc, uploads: uploads}
}

// Verify accepts a medicine scan image, runs authenticity checks, and
// returns the judgment. An optional medicine_id form field links the result
// to one of the caller's medicines.
func (h *VerifyHandler) Verify(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing scan image: "+err.Error())
		return
	}
	if file.Size > h.uploads.MaxSizeBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds upload size limit")
		return
	}
	if !h.uploads.ExtensionAllowed(file.Filename) {
		respondServiceError(c, service.ErrFileTypeNotAllowed)
		return
	}

	var medicineID *uuid.UUID
	if raw := c.PostForm("medicine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid medicine_id: must be a valid UUID")
			return
		}
		medicineID = &id
	}

	stored := uuid.New().String() + filepath.Ext(file.Filename)
	dest := filepath.Join(h.uploads.Dir, stored)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		respondError(c, http.StatusInternalServerError, "could not store upload")
		return
	}

	result, err := h.svc.VerifyScan(c.Request.Context(), callerID(c), dest, medicineID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"log_id":       result.LogID,
		"status":       result.Outcome.Status,
		"confidence":   result.Outcome.Confidence,
		"details":      result.Outcome.Details,
		"batch":        result.Scan.Batch,
		"expiry":       result.Scan.Expiry,
		"manufacturer": result.Scan.Manufacturer,
	})
}

func (h *VerifyHandler) History(c *gin.Context) {
	logs, err := h.svc.History(c.Request.Context(), callerID(c), parseQueryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]VerificationLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, toVerificationLogResponse(l))
	}
	respondOK(c, items)
}
