package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type InquiryDTO struct {
	ID                 uuid.UUID           `json:"id"`
	CaseNumber         string              `json:"caseNumber"`
	CompanyName        string              `json:"companyName,omitempty"`
	CompanyCity        string              `json:"companyCity,omitempty"`
	CompanyWebsite     string              `json:"companyWebsite,omitempty"`
	ContactName        string              `json:"contactName,omitempty"`
	ContactEmail       string              `json:"contactEmail,omitempty"`
	ContactPhone       string              `json:"contactPhone,omitempty"`
	ProductTitle       string              `json:"productTitle"`
	ProductDescription string              `json:"productDescription"`
	DevelopmentStage   DevelopmentStage    `json:"developmentStage,omitempty"`
	ProductTypes       []string            `json:"productTypes,omitempty"`
	PartnerDescription string              `json:"partnerDescription,omitempty"`
	AdditionalNotes    string              `json:"additionalNotes,omitempty"`
	AttachmentURL      string              `json:"attachmentUrl,omitempty"`
	Status             InquiryStatus       `json:"status"`
	Archived           bool                `json:"archived"`
	Tags               []string            `json:"tags"`
	AssignedToID       *uuid.UUID          `json:"assignedToId,omitempty"`
	AssignedToName     string              `json:"assignedToName,omitempty"`
	AssignedByID       *uuid.UUID          `json:"assignedById,omitempty"`
	AssignedAt         *string             `json:"assignedAt,omitempty"`
	Comments           []CommentDTO        `json:"comments,omitempty"`
	Recommendations    []RecommendationDTO `json:"recommendations,omitempty"`
	CreatedAt          string              `json:"createdAt"` // ISO 8601
	UpdatedAt          string              `json:"updatedAt"` // ISO 8601
}

type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	InquiryID  uuid.UUID `json:"inquiryId"`
	Text       string    `json:"text"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type RecommendationDTO struct {
	ContactID      *uuid.UUID `json:"contactId,omitempty"`
	Name           string     `json:"name"`
	BusinessName   string     `json:"businessName,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	OfficeLocation string     `json:"officeLocation,omitempty"`
	Responsibility string     `json:"responsibility,omitempty"`
}

// RecommendationSource indicates whether recommendations came from the
// stored cache or a fresh generation round.
type RecommendationSource string

const (
	RecommendationSourceCache     RecommendationSource = "cache"
	RecommendationSourceGenerated RecommendationSource = "generated"
)

type RecommendationResultDTO struct {
	Source          RecommendationSource `json:"source"`
	Recommendations []RecommendationDTO  `json:"recommendations"`
}

type ContactDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	OfficeLocation string    `json:"officeLocation,omitempty"`
	BusinessName   string    `json:"businessName,omitempty"`
	Responsibility string    `json:"responsibility,omitempty"`
	CreatedAt      string    `json:"createdAt"`
	UpdatedAt      string    `json:"updatedAt"`
}

type UserDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               UserRole  `json:"role"`
	IsVerified         bool      `json:"isVerified"`
	ProfileImage       string    `json:"profileImage,omitempty"`
	EmailNotifications bool      `json:"emailNotifications"`
	CreatedAt          string    `json:"createdAt"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type CalendarEventDTO struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	Location        string      `json:"location,omitempty"`
	Status          EventStatus `json:"status"`
	LinkedInquiryID *uuid.UUID  `json:"linkedInquiryId,omitempty"`
	AssignedToID    *uuid.UUID  `json:"assignedToId,omitempty"`
	CreatedByID     uuid.UUID   `json:"createdById"`
	OutlookEventID  string      `json:"outlookEventId,omitempty"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

// Pagination helper for list responses
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// APIResponse is the success envelope wrapping every 2xx payload
type APIResponse struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Inquiry requests

type CreateInquiryRequest struct {
	CompanyName        string           `json:"companyName,omitempty" validate:"max=200"`
	CompanyCity        string           `json:"companyCity,omitempty" validate:"max=100"`
	CompanyWebsite     string           `json:"companyWebsite,omitempty" validate:"omitempty,max=500"`
	ContactName        string           `json:"contactName,omitempty" validate:"max=200"`
	ContactEmail       string           `json:"contactEmail,omitempty" validate:"omitempty,email,max=255"`
	ContactPhone       string           `json:"contactPhone,omitempty" validate:"max=50"`
	ProductTitle       string           `json:"productTitle" validate:"required,max=200"`
	ProductDescription string           `json:"productDescription" validate:"required,max=4000"`
	DevelopmentStage   DevelopmentStage `json:"developmentStage,omitempty"`
	ProductTypes       []string         `json:"productTypes,omitempty" validate:"max=20,dive,max=100"`
	PartnerDescription string           `json:"partnerDescription,omitempty" validate:"max=4000"`
	AdditionalNotes    string           `json:"additionalNotes,omitempty" validate:"max=4000"`
}

type UpdateInquiryRequest struct {
	CompanyName        *string           `json:"companyName,omitempty" validate:"omitempty,max=200"`
	CompanyCity        *string           `json:"companyCity,omitempty" validate:"omitempty,max=100"`
	CompanyWebsite     *string           `json:"companyWebsite,omitempty" validate:"omitempty,max=500"`
	ContactName        *string           `json:"contactName,omitempty" validate:"omitempty,max=200"`
	ContactEmail       *string           `json:"contactEmail,omitempty" validate:"omitempty,email,max=255"`
	ContactPhone       *string           `json:"contactPhone,omitempty" validate:"omitempty,max=50"`
	ProductTitle       *string           `json:"productTitle,omitempty" validate:"omitempty,min=1,max=200"`
	ProductDescription *string           `json:"productDescription,omitempty" validate:"omitempty,min=1,max=4000"`
	DevelopmentStage   *DevelopmentStage `json:"developmentStage,omitempty"`
	ProductTypes       []string          `json:"productTypes,omitempty" validate:"omitempty,max=20,dive,max=100"`
	PartnerDescription *string           `json:"partnerDescription,omitempty" validate:"omitempty,max=4000"`
	AdditionalNotes    *string           `json:"additionalNotes,omitempty" validate:"omitempty,max=4000"`
}

type AssignInquiryRequest struct {
	AdminID uuid.UUID `json:"adminId" validate:"required"`
}

type UpdateInquiryStatusRequest struct {
	Status InquiryStatus `json:"status" validate:"required"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type TagRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

type BulkTagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,max=50,dive,max=100"`
}

// InquiryFilters narrows inquiry list queries. Filters are AND-composed;
// Search alone matches company name, contact name or case number.
type InquiryFilters struct {
	Status          *InquiryStatus `json:"status,omitempty"`
	AssignedToID    *uuid.UUID     `json:"assignedToId,omitempty"`
	Tag             string         `json:"tag,omitempty"`
	IncludeArchived bool           `json:"includeArchived,omitempty"`
	Search          string         `json:"search,omitempty"`
}

// Contact requests

type CreateContactRequest struct {
	Name           string `json:"name" validate:"required,max=50"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"phone,omitempty" validate:"max=50"`
	OfficeLocation string `json:"officeLocation,omitempty" validate:"max=100"`
	BusinessName   string `json:"businessName,omitempty" validate:"max=100"`
	Responsibility string `json:"responsibility,omitempty" validate:"max=100"`
}

type UpdateContactRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	OfficeLocation *string `json:"officeLocation,omitempty" validate:"omitempty,max=100"`
	BusinessName   *string `json:"businessName,omitempty" validate:"omitempty,max=100"`
	Responsibility *string `json:"responsibility,omitempty" validate:"omitempty,max=100"`
}

// ContactSearchParams holds partial-match criteria for directory search.
// Supplied fields are AND-composed, each matched case-insensitively.
type ContactSearchParams struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
}

// User requests

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type UpdateProfileRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Password           *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	EmailNotifications *bool   `json:"emailNotifications,omitempty"`
}

// Calendar requests

type CreateEventRequest struct {
	Title           string      `json:"title" validate:"required,max=100"`
	Description     string      `json:"description,omitempty" validate:"max=2000"`
	StartTime       time.Time   `json:"startTime" validate:"required"`
	EndTime         time.Time   `json:"endTime" validate:"required"`
	Location        string      `json:"location,omitempty" validate:"max=200"`
	Status          EventStatus `json:"status,omitempty"`
	LinkedInquiryID *uuid.UUID  `json:"linkedInquiryId,omitempty"`
	AssignedToID    *uuid.UUID  `json:"assignedToId,omitempty"`
}

type UpdateEventRequest struct {
	Title           *string      `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description     *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartTime       *time.Time   `json:"startTime,omitempty"`
	EndTime         *time.Time   `json:"endTime,omitempty"`
	Location        *string      `json:"location,omitempty" validate:"omitempty,max=200"`
	Status          *EventStatus `json:"status,omitempty"`
	LinkedInquiryID *uuid.UUID   `json:"linkedInquiryId,omitempty"`
	AssignedToID    *uuid.UUID   `json:"assignedToId,omitempty"`
}
