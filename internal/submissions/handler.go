package submissions

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// maxRequestBytes bounds the whole multipart request, documents and photo
// included.
const maxRequestBytes = 16 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submissions", h.create)
	rg.GET("/submissions", h.list)
	rg.GET("/submissions/:id", h.get)
	rg.GET("/resumes/:fileId/download", h.download)
}

func (h *Handler) create(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
	if err := c.Request.ParseMultipartForm(maxRequestBytes); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart request", nil)
		return
	}

	in := CreateInput{
		UserID:         middleware.UserIDFromContext(c),
		RequestID:      middleware.RequestIDFromContext(c),
		IsGuest:        middleware.IsGuest(c),
		JobDescription: c.PostForm("job-post"),
		CandidateText:  c.PostForm("user-data"),
	}

	if data, header, ok := readFormFile(c, "user-pdf"); ok {
		in.Upload = data
		in.UploadMime = header.Header.Get("Content-Type")
		in.UploadName = header.Filename
	}
	if data, _, ok := readFormFile(c, "profile-pic"); ok {
		in.Photo = data
	}

	result, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	respond.Created(c, gin.H{
		"submissionId": result.Submission.ID,
		"fileId":       result.Submission.FileID,
		"downloadUrl":  result.DownloadURL,
	})
}

// writeCreateError maps pipeline sentinels to generic responses. Failure
// detail never reaches the caller; it is already in the operational log.
func (h *Handler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "job description and candidate data are required", nil)
	case errors.Is(err, ErrGeneration):
		respond.Error(c, http.StatusBadGateway, "generation_error", "resume generation failed", nil)
	case errors.Is(err, ErrRender):
		respond.Error(c, http.StatusInternalServerError, "render_error", "resume rendering failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process submission", nil)
	}
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	sub, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load submission", nil)
		return
	}
	respond.JSON(c, http.StatusOK, sub)
}

func (h *Handler) list(c *gin.Context) {
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	subs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list submissions", nil)
		return
	}
	if subs == nil {
		subs = []Submission{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": subs})
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	fileID := c.Param("fileId")

	body, sub, err := h.Svc.OpenResume(c.Request.Context(), userID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open resume", nil)
		}
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+sub.FileID+`"`)
	if sub.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(sub.SizeBytes, 10))
	}
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func readFormFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		return nil, nil, false
	}
	if strings.TrimSpace(header.Filename) == "" {
		header.Filename = field
	}
	return data, header, true
}
