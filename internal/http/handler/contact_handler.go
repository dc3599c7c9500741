package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
	"github.com/fremdrift-as/inquiry-api/internal/service"
)

// ContactHandler handles HTTP requests for the contact directory
type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Create contact
// @Description Adds a contact to the directory. Email addresses are unique, case-insensitively.
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 201 {object} domain.APIResponse{data=domain.ContactDTO}
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already in use"
// @Security BearerAuth
// @Router /contacts [post]
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	contact, err := h.contactService.Create(r.Context(), &req, &userCtx.UserID)
	if err != nil {
		h.handleContactError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/contacts/"+contact.ID.String())
	respondSuccess(w, http.StatusCreated, contact, "Contact created")
}

// List godoc
// @Summary List contacts
// @Description Returns a paginated list of directory contacts
// @Tags Contacts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sort query string false "Sort order (name_asc, name_desc)"
// @Success 200 {object} domain.APIResponse{data=domain.PaginatedResponse}
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	sortBy := repository.ContactSortOption(r.URL.Query().Get("sort"))

	result, err := h.contactService.List(r.Context(), page, limit, sortBy)
	if err != nil {
		h.logger.Error("failed to list contacts", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list contacts")
		return
	}

	respondSuccess(w, http.StatusOK, result, "")
}

// Search godoc
// @Summary Search contacts
// @Description Searches the directory by partial name, email, phone or business name. Criteria are AND-composed.
// @Tags Contacts
// @Produce json
// @Param name query string false "Partial name"
// @Param email query string false "Partial email"
// @Param phone query string false "Partial phone"
// @Param businessName query string false "Partial business name"
// @Success 200 {object} domain.APIResponse{data=[]domain.ContactDTO}
// @Failure 400 {object} domain.APIError "No criteria supplied"
// @Failure 404 {object} domain.APIError "No contacts matched"
// @Security BearerAuth
// @Router /contacts/search [get]
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := &domain.ContactSearchParams{
		Name:         r.URL.Query().Get("name"),
		Email:        r.URL.Query().Get("email"),
		Phone:        r.URL.Query().Get("phone"),
		BusinessName: r.URL.Query().Get("businessName"),
	}

	contacts, err := h.contactService.Search(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "At least one search criterion is required")
		case errors.Is(err, service.ErrNoContacts):
			respondWithError(w, http.StatusNotFound, "No contacts matched the search")
		default:
			h.logger.Error("contact search failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondSuccess(w, http.StatusOK, contacts, "")
}

// GetByID godoc
// @Summary Get contact
// @Description Returns a specific contact by ID
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} domain.APIResponse{data=domain.ContactDTO}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		h.handleContactError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, contact, "")
}

// Update godoc
// @Summary Update contact
// @Description Partially updates contact fields
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body domain.UpdateContactRequest true "Fields to update"
// @Success 200 {object} domain.APIResponse{data=domain.ContactDTO}
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already in use"
// @Security BearerAuth
// @Router /contacts/{id} [patch]
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleContactError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, contact, "Contact updated")
}

// Delete godoc
// @Summary Delete contact
// @Description Removes a contact from the directory
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} domain.APIResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		h.handleContactError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "Contact deleted")
}

// handleContactError maps service errors to HTTP responses
func (h *ContactHandler) handleContactError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Contact not found")
	case errors.Is(err, service.ErrDuplicateEmail):
		respondWithError(w, http.StatusConflict, "A contact with this email already exists")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("contact operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
