package mapper

import (
	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ToInquiryDTO converts Inquiry to InquiryDTO
func ToInquiryDTO(inquiry *domain.Inquiry) domain.InquiryDTO {
	tags := []string(inquiry.Tags)
	if tags == nil {
		tags = []string{}
	}

	dto := domain.InquiryDTO{
		ID:                 inquiry.ID,
		CaseNumber:         inquiry.CaseNumber,
		CompanyName:        inquiry.CompanyName,
		CompanyCity:        inquiry.CompanyCity,
		CompanyWebsite:     inquiry.CompanyWebsite,
		ContactName:        inquiry.ContactName,
		ContactEmail:       inquiry.ContactEmail,
		ContactPhone:       inquiry.ContactPhone,
		ProductTitle:       inquiry.ProductTitle,
		ProductDescription: inquiry.ProductDescription,
		DevelopmentStage:   inquiry.DevelopmentStage,
		ProductTypes:       inquiry.ProductTypes,
		PartnerDescription: inquiry.PartnerDescription,
		AdditionalNotes:    inquiry.AdditionalNotes,
		AttachmentURL:      inquiry.AttachmentURL,
		Status:             inquiry.Status,
		Archived:           inquiry.Archived,
		Tags:               tags,
		AssignedToID:       inquiry.AssignedToID,
		AssignedByID:       inquiry.AssignedByID,
		CreatedAt:          inquiry.CreatedAt.Format(timeFormat),
		UpdatedAt:          inquiry.UpdatedAt.Format(timeFormat),
	}

	if inquiry.AssignedTo != nil {
		dto.AssignedToName = inquiry.AssignedTo.Name
	}
	if inquiry.AssignedAt != nil {
		assignedAt := inquiry.AssignedAt.Format(timeFormat)
		dto.AssignedAt = &assignedAt
	}
	if len(inquiry.Comments) > 0 {
		dto.Comments = make([]domain.CommentDTO, len(inquiry.Comments))
		for i, c := range inquiry.Comments {
			dto.Comments[i] = ToCommentDTO(&c)
		}
	}
	if len(inquiry.Recommendations) > 0 {
		dto.Recommendations = make([]domain.RecommendationDTO, len(inquiry.Recommendations))
		for i, r := range inquiry.Recommendations {
			dto.Recommendations[i] = ToRecommendationDTO(&r)
		}
	}

	return dto
}

// ToCommentDTO converts InquiryComment to CommentDTO
func ToCommentDTO(comment *domain.InquiryComment) domain.CommentDTO {
	dto := domain.CommentDTO{
		ID:        comment.ID,
		InquiryID: comment.InquiryID,
		Text:      comment.Text,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt.Format(timeFormat),
		UpdatedAt: comment.UpdatedAt.Format(timeFormat),
	}
	if comment.Author != nil {
		dto.AuthorName = comment.Author.Name
	}
	return dto
}

// ToRecommendationDTO converts Recommendation to RecommendationDTO
func ToRecommendationDTO(rec *domain.Recommendation) domain.RecommendationDTO {
	return domain.RecommendationDTO{
		ContactID:      rec.ContactID,
		Name:           rec.Name,
		BusinessName:   rec.BusinessName,
		Email:          rec.Email,
		Phone:          rec.Phone,
		OfficeLocation: rec.OfficeLocation,
		Responsibility: rec.Responsibility,
	}
}

// RecommendationFromContact builds a cached recommendation row from a
// directory contact.
func RecommendationFromContact(contact *domain.Contact, position int) domain.Recommendation {
	contactID := contact.ID
	return domain.Recommendation{
		ContactID:      &contactID,
		Name:           contact.Name,
		BusinessName:   contact.BusinessName,
		Email:          contact.Email,
		Phone:          contact.Phone,
		OfficeLocation: contact.OfficeLocation,
		Responsibility: contact.Responsibility,
		Position:       position,
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:             contact.ID,
		Name:           contact.Name,
		Email:          contact.Email,
		Phone:          contact.Phone,
		OfficeLocation: contact.OfficeLocation,
		BusinessName:   contact.BusinessName,
		Responsibility: contact.Responsibility,
		CreatedAt:      contact.CreatedAt.Format(timeFormat),
		UpdatedAt:      contact.UpdatedAt.Format(timeFormat),
	}
}

// ToUserDTO converts User to UserDTO. The password hash never leaves the
// domain layer.
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		IsVerified:         user.IsVerified,
		ProfileImage:       user.ProfileImage,
		EmailNotifications: user.EmailNotifications,
		CreatedAt:          user.CreatedAt.Format(timeFormat),
	}
}

// ToCalendarEventDTO converts CalendarEvent to CalendarEventDTO
func ToCalendarEventDTO(event *domain.CalendarEvent) domain.CalendarEventDTO {
	return domain.CalendarEventDTO{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		StartTime:       event.StartTime,
		EndTime:         event.EndTime,
		Location:        event.Location,
		Status:          event.Status,
		LinkedInquiryID: event.LinkedInquiryID,
		AssignedToID:    event.AssignedToID,
		CreatedByID:     event.CreatedByID,
		OutlookEventID:  event.OutlookEventID,
		CreatedAt:       event.CreatedAt.Format(timeFormat),
		UpdatedAt:       event.UpdatedAt.Format(timeFormat),
	}
}
