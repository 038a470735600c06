package v1

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediguard/mediguard/internal/config"
	"github.com/mediguard/mediguard/internal/domain/prescription"
	"github.com/mediguard/mediguard/internal/service"
)

type PrescriptionHandler struct {
	svc     *service.PrescriptionService
	uploads config.UploadConfig
}

func NewPrescriptionHandler(svc *service.PrescriptionService, uploads config.UploadConfig) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc, uploads: uploads}
}

// Extract accepts a prescription image, stores it, and returns the OCR text
// with the parsed medicine candidates for the user to review before saving.
func (h *PrescriptionHandler) Extract(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing prescription image: "+err.Error())
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

	// Stored under a fresh name so uploads can never collide or escape the
	// upload directory.
	stored := uuid.New().String() + filepath.Ext(file.Filename)
	dest := filepath.Join(h.uploads.Dir, stored)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		respondError(c, http.StatusInternalServerError, "could not store upload")
		return
	}

	result := h.svc.Extract(dest)

	respondOK(c, gin.H{
		"filename":     file.Filename,
		"stored_image": stored,
		"raw_text":     result.RawText,
		"medicines":    result.Medicines,
	})
}

type medicineInputRequest struct {
	Name     string `json:"name" binding:"required"`
	Dosage   string `json:"dosage"`
	Timing   string `json:"timing"`
	Duration int    `json:"duration"`
}

type savePrescriptionRequest struct {
	Filename    string                 `json:"filename" binding:"required"`
	StoredImage string                 `json:"stored_image" binding:"required"`
	RawText     string                 `json:"raw_text"`
	Medicines   []medicineInputRequest `json:"medicines" binding:"required"`
}

// Save persists the reviewed prescription and kicks off reminder generation.
func (h *PrescriptionHandler) Save(c *gin.Context) {
	var req savePrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &prescription.SavePrescriptionCommand{
		UserID:    callerID(c),
		Filename:  req.Filename,
		ImagePath: filepath.Join(h.uploads.Dir, filepath.Base(req.StoredImage)),
		RawText:   req.RawText,
	}
	for _, in := range req.Medicines {
		cmd.Medicines = append(cmd.Medicines, prescription.MedicineInput{
			Name:     in.Name,
			Dosage:   in.Dosage,
			Timing:   in.Timing,
			Duration: in.Duration,
		})
	}

	p, err := h.svc.SavePrescription(c.Request.Context(), cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPrescription(c.Request.Context(), id, callerID(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPrescriptionResponse(p))
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	paged, err := h.svc.ListPrescriptions(c.Request.Context(), &prescription.ListPrescriptionsQuery{
		UserID:   callerID(c),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 10),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]PrescriptionResponse, 0, len(paged.Prescriptions))
	for _, p := range paged.Prescriptions {
		items = append(items, toPrescriptionResponse(p))
	}
	respondOK(c, PagedResponse[PrescriptionResponse]{
		Items:      items,
		TotalCount: paged.TotalCount,
		Page:       paged.Page,
		PageSize:   paged.PageSize,
		TotalPages: paged.TotalPages,
	})
}

func (h *PrescriptionHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePrescription(c.Request.Context(), id, callerID(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
