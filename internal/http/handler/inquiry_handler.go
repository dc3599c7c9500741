package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/service"
)

// InquiryHandler handles HTTP requests for inquiries
type InquiryHandler struct {
	inquiryService    *service.InquiryService
	attachmentService *service.AttachmentService
	logger            *zap.Logger
}

// NewInquiryHandler creates a new InquiryHandler. The attachment service
// may be nil when file storage is disabled.
func NewInquiryHandler(inquiryService *service.InquiryService, attachmentService *service.AttachmentService, logger *zap.Logger) *InquiryHandler {
	return &InquiryHandler{
		inquiryService:    inquiryService,
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Create godoc
// @Summary Submit inquiry
// @Description Creates a new inquiry from the public contact form. Accepts JSON, or multipart/form-data with an optional attachment file.
// @Tags Inquiries
// @Accept json
// @Accept mpfd
// @Produce json
// @Param request body domain.CreateInquiryRequest true "Inquiry data"
// @Success 201 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /inquiries [post]
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInquiryRequest
	attachmentURL := ""

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		url, ok := h.decodeMultipartCreate(w, r, &req)
		if !ok {
			return
		}
		attachmentURL = url
	} else if !decodeBody(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Create(r.Context(), &req, attachmentURL)
	if err != nil {
		if attachmentURL != "" && h.attachmentService != nil {
			if delErr := h.attachmentService.Remove(r.Context(), attachmentURL); delErr != nil {
				h.logger.Warn("failed to remove orphaned attachment", zap.Error(delErr))
			}
		}
		h.logger.Error("failed to create inquiry", zap.Error(err))
		h.handleInquiryError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/inquiries/"+inquiry.ID.String())
	respondSuccess(w, http.StatusCreated, inquiry, "Inquiry submitted")
}

// decodeMultipartCreate reads the public form's fields plus the optional
// attachment file, stores the file and returns its path. It writes the
// error response itself and reports whether the caller should continue.
func (h *InquiryHandler) decodeMultipartCreate(w http.ResponseWriter, r *http.Request, req *domain.CreateInquiryRequest) (string, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return "", false
	}

	req.CompanyName = r.FormValue("companyName")
	req.CompanyCity = r.FormValue("companyCity")
	req.CompanyWebsite = r.FormValue("companyWebsite")
	req.ContactName = r.FormValue("contactName")
	req.ContactEmail = r.FormValue("contactEmail")
	req.ContactPhone = r.FormValue("contactPhone")
	req.ProductTitle = r.FormValue("productTitle")
	req.ProductDescription = r.FormValue("productDescription")
	req.DevelopmentStage = domain.DevelopmentStage(r.FormValue("developmentStage"))
	req.ProductTypes = r.Form["productTypes"]
	req.PartnerDescription = r.FormValue("partnerDescription")
	req.AdditionalNotes = r.FormValue("additionalNotes")

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return "", false
	}

	file, header, err := r.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return "", true
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment")
		return "", false
	}
	defer file.Close()

	if h.attachmentService == nil {
		respondWithError(w, http.StatusNotImplemented, "File storage is disabled")
		return "", false
	}

	path, err := h.attachmentService.Store(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttachmentTooLarge):
			respondWithError(w, http.StatusRequestEntityTooLarge, "Attachment is too large")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Unsupported attachment type")
		default:
			h.logger.Error("failed to store attachment", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to store attachment")
		}
		return "", false
	}
	return path, true
}

// List godoc
// @Summary List inquiries
// @Description Returns a paginated list of inquiries, newest first
// @Tags Inquiries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param status query string false "Filter by status (ulest, i arbeid, ferdig)"
// @Param assignedTo query string false "Filter by assigned admin ID"
// @Param tag query string false "Filter by tag"
// @Param includeArchived query bool false "Include archived inquiries"
// @Param search query string false "Match company name, contact name or case number"
// @Success 200 {object} domain.APIResponse{data=domain.PaginatedResponse}
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries [get]
func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	filters := &domain.InquiryFilters{
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.InquiryStatus(v)
		filters.Status = &status
	}
	if v := r.URL.Query().Get("assignedTo"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid assignedTo")
			return
		}
		filters.AssignedToID = &id
	}
	if v := r.URL.Query().Get("includeArchived"); v != "" {
		filters.IncludeArchived, _ = strconv.ParseBool(v)
	}

	result, err := h.inquiryService.List(r.Context(), page, limit, filters)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		h.logger.Error("failed to list inquiries", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list inquiries")
		return
	}

	respondSuccess(w, http.StatusOK, result, "")
}

// GetByID godoc
// @Summary Get inquiry
// @Description Returns a specific inquiry with comments and recommendations
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id} [get]
func (h *InquiryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	inquiry, err := h.inquiryService.GetByID(r.Context(), id)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "")
}

// Update godoc
// @Summary Update inquiry
// @Description Partially updates inquiry fields
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.UpdateInquiryRequest true "Fields to update"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id} [patch]
func (h *InquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateInquiryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Inquiry updated")
}

// Delete godoc
// @Summary Delete inquiry
// @Description Permanently deletes an inquiry with its comments and recommendations
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} domain.APIResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id} [delete]
func (h *InquiryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.inquiryService.Delete(r.Context(), id); err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Inquiry deleted")
}

// Archive godoc
// @Summary Archive inquiry
// @Description Archives an inquiry. Archiving an already archived inquiry succeeds.
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/archive [post]
func (h *InquiryHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	inquiry, err := h.inquiryService.Archive(r.Context(), id)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Inquiry archived")
}

// Restore godoc
// @Summary Restore inquiry
// @Description Restores an archived inquiry. Fails when the inquiry is not archived.
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError "Inquiry is not archived"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/restore [post]
func (h *InquiryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	inquiry, err := h.inquiryService.Restore(r.Context(), id)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Inquiry restored")
}

// Assign godoc
// @Summary Assign inquiry
// @Description Assigns the inquiry to an admin user
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.AssignInquiryRequest true "Admin to assign"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError "Target user is not an admin"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/assign [post]
func (h *InquiryHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.AssignInquiryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	inquiry, err := h.inquiryService.Assign(r.Context(), id, req.AdminID, userCtx.UserID)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Inquiry assigned")
}

// UpdateStatus godoc
// @Summary Update inquiry status
// @Description Sets the inquiry workflow status
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.UpdateInquiryStatusRequest true "New status"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError "Unknown status"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/status [patch]
func (h *InquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateInquiryStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Status updated")
}

// AddComment godoc
// @Summary Add comment
// @Description Adds a comment to the inquiry, authored by the authenticated user
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.CreateCommentRequest true "Comment text"
// @Success 201 {object} domain.APIResponse{data=domain.CommentDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/comments [post]
func (h *InquiryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	comment, err := h.inquiryService.AddComment(r.Context(), id, userCtx.UserID, &req)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, comment, "Comment added")
}

// EditComment godoc
// @Summary Edit comment
// @Description Edits a comment. Only the author may edit.
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param commentId path string true "Comment ID"
// @Param request body domain.UpdateCommentRequest true "New comment text"
// @Success 200 {object} domain.APIResponse{data=domain.CommentDTO}
// @Failure 403 {object} domain.APIError "Not the comment author"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/comments/{commentId} [patch]
func (h *InquiryHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(w, r, "commentId")
	if !ok {
		return
	}

	var req domain.UpdateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	comment, err := h.inquiryService.EditComment(r.Context(), id, commentID, userCtx.UserID, &req)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, comment, "Comment updated")
}

// DeleteComment godoc
// @Summary Delete comment
// @Description Deletes a comment. Only the author may delete.
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} domain.APIResponse
// @Failure 403 {object} domain.APIError "Not the comment author"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/comments/{commentId} [delete]
func (h *InquiryHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(w, r, "commentId")
	if !ok {
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	if err := h.inquiryService.DeleteComment(r.Context(), id, commentID, userCtx.UserID); err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Comment deleted")
}

// AddTag godoc
// @Summary Add tag
// @Description Adds a tag to the inquiry. Tags are trimmed and lowercased; adding an existing tag is a no-op.
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.TagRequest true "Tag to add"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/tags [post]
func (h *InquiryHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.TagRequest
	if !decodeBody(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.AddTag(r.Context(), id, req.Tag)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Tag added")
}

// AddTags godoc
// @Summary Add tags
// @Description Adds several tags at once. Blanks and duplicates are dropped.
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.BulkTagsRequest true "Tags to add"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/tags/bulk [post]
func (h *InquiryHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.BulkTagsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.AddTags(r.Context(), id, req.Tags)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Tags added")
}

// RemoveTag godoc
// @Summary Remove tag
// @Description Removes a single tag. Fails when the inquiry does not carry the tag.
// @Tags Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param tag path string true "Tag to remove"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 404 {object} domain.APIError "Inquiry or tag not found"
// @Security BearerAuth
// @Router /inquiries/{id}/tags/{tag} [delete]
func (h *InquiryHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	tag := chi.URLParamFromCtx(r.Context(), "tag")
	if strings.TrimSpace(tag) == "" {
		respondWithError(w, http.StatusBadRequest, "Tag is required")
		return
	}

	inquiry, err := h.inquiryService.RemoveTag(r.Context(), id, tag)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Tag removed")
}

// RemoveTags godoc
// @Summary Remove tags
// @Description Removes several tags at once. Tags the inquiry does not carry are ignored.
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body domain.BulkTagsRequest true "Tags to remove"
// @Success 200 {object} domain.APIResponse{data=domain.InquiryDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/tags [delete]
func (h *InquiryHandler) RemoveTags(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.BulkTagsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	inquiry, err := h.inquiryService.RemoveTags(r.Context(), id, req.Tags)
	if err != nil {
		h.handleInquiryError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, inquiry, "Tags removed")
}

// UploadAttachment godoc
// @Summary Upload attachment
// @Description Stores an attachment on the inquiry, replacing any previous one
// @Tags Inquiries
// @Accept mpfd
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param file formData file true "Attachment (pdf, png or jpeg)"
// @Success 200 {object} domain.APIResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/attachment [post]
func (h *InquiryHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachmentService == nil {
		respondWithError(w, http.StatusNotImplemented, "File storage is disabled")
		return
	}

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	err = h.attachmentService.Upload(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttachmentTooLarge):
			respondWithError(w, http.StatusRequestEntityTooLarge, "Attachment is too large")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Unsupported attachment type")
		default:
			h.handleInquiryError(w, err)
		}
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Attachment stored")
}

// DownloadAttachment godoc
// @Summary Download attachment
// @Description Streams the inquiry's attachment
// @Tags Inquiries
// @Produce octet-stream
// @Param id path string true "Inquiry ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /inquiries/{id}/attachment [get]
func (h *InquiryHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	if h.attachmentService == nil {
		respondWithError(w, http.StatusNotImplemented, "File storage is disabled")
		return
	}

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	reader, err := h.attachmentService.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoAttachment) {
			respondWithError(w, http.StatusNotFound, "Inquiry has no attachment")
			return
		}
		h.handleInquiryError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("attachment stream interrupted", zap.Error(err))
	}
}

// handleInquiryError maps service errors to HTTP responses
func (h *InquiryHandler) handleInquiryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Inquiry not found")
	case errors.Is(err, service.ErrTagNotFound):
		respondWithError(w, http.StatusNotFound, "Tag not found on inquiry")
	case errors.Is(err, service.ErrNotArchived):
		respondWithError(w, http.StatusBadRequest, "Inquiry is not archived")
	case errors.Is(err, service.ErrInvalidStatus):
		respondWithError(w, http.StatusBadRequest, "Unknown status")
	case errors.Is(err, service.ErrNotAdmin):
		respondWithError(w, http.StatusBadRequest, "Assigned user must be an admin")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrNotCommentAuthor):
		respondWithError(w, http.StatusForbidden, "Only the comment author may modify it")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("inquiry operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
