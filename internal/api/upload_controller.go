package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcosfaria19/clarohub-sub000/internal/service"
)

// maxUploadBytes caps accepted spreadsheet size.
const maxUploadBytes = 20 << 20 // 20 MiB

// UploadController exposes spreadsheet ingestion.
type UploadController struct {
	ingestService service.IngestService
}

// NewUploadController creates the upload controller.
func NewUploadController(ingestService service.IngestService) *UploadController {
	return &UploadController{ingestService: ingestService}
}

// Upload handles POST /projects/:id/assignments/:assignmentId/upload. The
// multipart field is named "file"; the first worksheet is ingested.
func (c *UploadController) Upload(ctx *gin.Context) {
	user, ok := CurrentUser(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "missing identity", "")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		Error(ctx, http.StatusBadRequest, "missing file", err.Error())
		return
	}
	if fileHeader.Size > maxUploadBytes {
		Error(ctx, http.StatusRequestEntityTooLarge, "file too large", "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Error(ctx, http.StatusBadRequest, "unreadable file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		Error(ctx, http.StatusBadRequest, "unreadable file", err.Error())
		return
	}

	summary, err := c.ingestService.Ingest(
		ctx.Request.Context(), data, ctx.Param("id"), ctx.Param("assignmentId"), user)
	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	GetLogger().WithFields(map[string]interface{}{
		"project":    ctx.Param("id"),
		"assignment": ctx.Param("assignmentId"),
		"total":      summary.Total,
		"inserted":   summary.Inserted,
		"duplicates": summary.Duplicates,
		"invalid":    summary.Invalid,
	}).Info("spreadsheet ingested")

	Success(ctx, summary)
}
