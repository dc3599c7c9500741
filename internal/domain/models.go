package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// InquiryStatus represents the workflow status of an inquiry
type InquiryStatus string

const (
	InquiryStatusUnread     InquiryStatus = "ulest"
	InquiryStatusInProgress InquiryStatus = "i arbeid"
	InquiryStatusDone       InquiryStatus = "ferdig"
)

// IsValid checks if the InquiryStatus is a valid enum value
func (s InquiryStatus) IsValid() bool {
	switch s {
	case InquiryStatusUnread, InquiryStatusInProgress, InquiryStatusDone:
		return true
	}
	return false
}

// DevelopmentStage represents how far a submitted product idea has come
type DevelopmentStage string

const (
	DevelopmentStageIdea      DevelopmentStage = "idea"
	DevelopmentStagePrototype DevelopmentStage = "prototype"
	DevelopmentStageTested    DevelopmentStage = "tested"
	DevelopmentStageMarket    DevelopmentStage = "market"
)

// IsValid checks if the DevelopmentStage is a valid enum value
func (ds DevelopmentStage) IsValid() bool {
	switch ds {
	case DevelopmentStageIdea, DevelopmentStagePrototype, DevelopmentStageTested, DevelopmentStageMarket:
		return true
	}
	return false
}

// Inquiry represents a business inquiry submitted through the public form
type Inquiry struct {
	BaseModel
	CaseNumber         string           `gorm:"type:varchar(50);not null;uniqueIndex;column:case_number"`
	CompanyName        string           `gorm:"type:varchar(200);index;column:company_name"`
	CompanyCity        string           `gorm:"type:varchar(100);column:company_city"`
	CompanyWebsite     string           `gorm:"type:varchar(500);column:company_website"`
	ContactName        string           `gorm:"type:varchar(200);index;column:contact_name"`
	ContactEmail       string           `gorm:"type:varchar(255);column:contact_email"`
	ContactPhone       string           `gorm:"type:varchar(50);column:contact_phone"`
	ProductTitle       string           `gorm:"type:varchar(200);not null;column:product_title"`
	ProductDescription string           `gorm:"type:text;not null;column:product_description"`
	DevelopmentStage   DevelopmentStage `gorm:"type:varchar(50);column:development_stage"`
	ProductTypes       pq.StringArray   `gorm:"type:text[];column:product_types"`
	PartnerDescription string           `gorm:"type:text;column:partner_description"`
	AdditionalNotes    string           `gorm:"type:text;column:additional_notes"`
	AttachmentURL      string           `gorm:"type:varchar(500);column:attachment_url"`
	Status             InquiryStatus    `gorm:"type:varchar(50);not null;default:'ulest';index"`
	Archived           bool             `gorm:"not null;default:false;index"`
	Tags               pq.StringArray   `gorm:"type:text[];not null;default:'{}'"`
	AssignedToID       *uuid.UUID       `gorm:"type:uuid;index;column:assigned_to_id"`
	AssignedTo         *User            `gorm:"foreignKey:AssignedToID"`
	AssignedByID       *uuid.UUID       `gorm:"type:uuid;column:assigned_by_id"`
	AssignedBy         *User            `gorm:"foreignKey:AssignedByID"`
	AssignedAt         *time.Time       `gorm:"column:assigned_at"`
	Comments           []InquiryComment `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE"`
	Recommendations    []Recommendation `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE"`
}

// HasTag reports whether the inquiry carries the given normalized tag
func (i *Inquiry) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InquiryComment represents an internal note attached to an inquiry.
// Only the author may edit or delete a comment.
type InquiryComment struct {
	BaseModel
	InquiryID uuid.UUID `gorm:"type:uuid;not null;index;column:inquiry_id"`
	Inquiry   *Inquiry  `gorm:"foreignKey:InquiryID"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;column:author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
}

// Recommendation represents a cached AI contact suggestion for an inquiry.
// At most two rows exist per inquiry; once written they are never recomputed.
type Recommendation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InquiryID      uuid.UUID  `gorm:"type:uuid;not null;index;column:inquiry_id"`
	Inquiry        *Inquiry   `gorm:"foreignKey:InquiryID"`
	ContactID      *uuid.UUID `gorm:"type:uuid;column:contact_id"`
	Name           string     `gorm:"type:varchar(200);not null"`
	BusinessName   string     `gorm:"type:varchar(200);column:business_name"`
	Email          string     `gorm:"type:varchar(255)"`
	Phone          string     `gorm:"type:varchar(50)"`
	OfficeLocation string     `gorm:"type:varchar(200);column:office_location"`
	Responsibility string     `gorm:"type:varchar(200)"`
	Position       int        `gorm:"not null;default:0"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Contact represents a person in the advisor/partner directory
type Contact struct {
	BaseModel
	Name           string     `gorm:"type:varchar(100);not null;index"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone          string     `gorm:"type:varchar(50)"`
	OfficeLocation string     `gorm:"type:varchar(100);column:office_location"`
	BusinessName   string     `gorm:"type:varchar(100);index;column:business_name"`
	Responsibility string     `gorm:"type:varchar(100)"`
	CreatedByID    *uuid.UUID `gorm:"type:uuid;column:created_by_id"`
	CreatedBy      *User      `gorm:"foreignKey:CreatedByID"`
}

// UserRole represents the access level of a user account
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleGuest UserRole = "guest"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleGuest:
		return true
	}
	return false
}

// User represents an account in the system
type User struct {
	BaseModel
	Name               string     `gorm:"type:varchar(100);not null"`
	Email              string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash       string     `gorm:"type:varchar(100);not null;column:password_hash" json:"-"`
	Role               UserRole   `gorm:"type:varchar(50);not null;default:'admin'"`
	IsVerified         bool       `gorm:"not null;default:false;column:is_verified"`
	ProfileImage       string     `gorm:"type:varchar(500);column:profile_image"`
	EmailNotifications bool       `gorm:"not null;default:true;column:email_notifications"`
	PasswordChangedAt  *time.Time `gorm:"column:password_changed_at"`
}

// TokenIssuedBeforePasswordChange reports whether a token issued at the given
// time predates the user's last password change and must be rejected.
func (u *User) TokenIssuedBeforePasswordChange(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}

// EventStatus represents the status of a calendar event
type EventStatus string

const (
	EventStatusPlanned   EventStatus = "planlagt"
	EventStatusCompleted EventStatus = "fullført"
	EventStatusCancelled EventStatus = "avlyst"
)

// IsValid checks if the EventStatus is a valid enum value
func (es EventStatus) IsValid() bool {
	switch es {
	case EventStatusPlanned, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// CalendarEvent represents a scheduled meeting or follow-up
type CalendarEvent struct {
	BaseModel
	Title           string      `gorm:"type:varchar(100);not null"`
	Description     string      `gorm:"type:varchar(2000)"`
	StartTime       time.Time   `gorm:"not null;index;column:start_time"`
	EndTime         time.Time   `gorm:"not null;column:end_time"`
	Location        string      `gorm:"type:varchar(200)"`
	Status          EventStatus `gorm:"type:varchar(50);not null;default:'planlagt'"`
	LinkedInquiryID *uuid.UUID  `gorm:"type:uuid;index;column:linked_inquiry_id"`
	LinkedInquiry   *Inquiry    `gorm:"foreignKey:LinkedInquiryID"`
	AssignedToID    *uuid.UUID  `gorm:"type:uuid;column:assigned_to_id"`
	AssignedTo      *User       `gorm:"foreignKey:AssignedToID"`
	CreatedByID     uuid.UUID   `gorm:"type:uuid;not null;column:created_by_id"`
	CreatedBy       *User       `gorm:"foreignKey:CreatedByID"`
	OutlookEventID  string      `gorm:"type:varchar(200);column:outlook_event_id"`
}

// MicrosoftToken holds the Outlook OAuth token pair for a user.
// Rows are written by the external login flow and refreshed in place.
type MicrosoftToken struct {
	BaseModel
	UserEmail    string `gorm:"type:varchar(255);not null;uniqueIndex;column:user_email"`
	AccessToken  string `gorm:"type:text;not null;column:access_token" json:"-"`
	RefreshToken string `gorm:"type:text;not null;column:refresh_token" json:"-"`
	Name         string `gorm:"type:varchar(200)"`
	MicrosoftID  string `gorm:"type:varchar(100);column:microsoft_id"`
}
