package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/mapper"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

// maxRecommendations caps how many contacts a single inquiry gets suggested
const maxRecommendations = 2

// TextGenerator produces a free-text completion for a prompt. The
// production implementation talks to OpenAI; tests substitute a mock.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RecommendationService suggests directory contacts for an inquiry using a
// text-generation collaborator. Results are cached permanently on the
// inquiry: the collaborator is consulted at most once per inquiry.
type RecommendationService struct {
	inquiryRepo *repository.InquiryRepository
	contactRepo *repository.ContactRepository
	generator   TextGenerator
	logger      *zap.Logger
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(
	inquiryRepo *repository.InquiryRepository,
	contactRepo *repository.ContactRepository,
	generator TextGenerator,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		inquiryRepo: inquiryRepo,
		contactRepo: contactRepo,
		generator:   generator,
		logger:      logger,
	}
}

// aiSuggestion is the shape each element of the AI reply must parse into
type aiSuggestion struct {
	Name         string `json:"name"`
	BusinessName string `json:"businessName"`
}

// Recommend returns up to two suggested contacts for the inquiry. Cached
// suggestions are served without touching the collaborator.
func (s *RecommendationService) Recommend(ctx context.Context, inquiryID uuid.UUID) (*domain.RecommendationResultDTO, error) {
	inquiry, err := s.inquiryRepo.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}

	if len(inquiry.Recommendations) > 0 {
		dtos := make([]domain.RecommendationDTO, len(inquiry.Recommendations))
		for i, rec := range inquiry.Recommendations {
			dtos[i] = mapper.ToRecommendationDTO(&rec)
		}
		return &domain.RecommendationResultDTO{
			Source:          domain.RecommendationSourceCache,
			Recommendations: dtos,
		}, nil
	}

	if s.generator == nil {
		return nil, fmt.Errorf("%w: no text generator configured", ErrExternal)
	}

	contacts, err := s.contactRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrNoContacts
	}

	reply, err := s.generator.Complete(ctx, buildRecommendationPrompt(inquiry, contacts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternal, err)
	}

	suggestions, err := parseSuggestions(reply)
	if err != nil {
		s.logger.Warn("unparseable AI recommendation reply",
			zap.String("inquiryID", inquiryID.String()),
			zap.Error(err))
		return nil, ErrAIResponseInvalid
	}

	matched := matchContacts(suggestions, contacts)
	if len(matched) == 0 {
		s.logger.Warn("AI reply named no known contacts",
			zap.String("inquiryID", inquiryID.String()))
		return nil, ErrAIResponseInvalid
	}

	recs := make([]domain.Recommendation, len(matched))
	for i, contact := range matched {
		recs[i] = mapper.RecommendationFromContact(contact, i)
	}
	if err := s.inquiryRepo.SaveRecommendations(ctx, inquiryID, recs); err != nil {
		return nil, fmt.Errorf("failed to cache recommendations: %w", err)
	}

	dtos := make([]domain.RecommendationDTO, len(recs))
	for i := range recs {
		dtos[i] = mapper.ToRecommendationDTO(&recs[i])
	}

	s.logger.Info("recommendations generated",
		zap.String("inquiryID", inquiryID.String()),
		zap.Int("count", len(dtos)))

	return &domain.RecommendationResultDTO{
		Source:          domain.RecommendationSourceGenerated,
		Recommendations: dtos,
	}, nil
}

// buildRecommendationPrompt enumerates the directory and asks for the best
// matches as a JSON array.
func buildRecommendationPrompt(inquiry *domain.Inquiry, contacts []domain.Contact) string {
	var b strings.Builder
	b.WriteString("You match business inquiries with advisors. Given the inquiry below, ")
	b.WriteString(fmt.Sprintf("pick the %d most relevant contacts from the directory.\n\n", maxRecommendations))
	b.WriteString("Inquiry:\n")
	b.WriteString("Title: " + inquiry.ProductTitle + "\n")
	b.WriteString("Description: " + inquiry.ProductDescription + "\n\n")
	b.WriteString("Directory:\n")
	for _, c := range contacts {
		b.WriteString(fmt.Sprintf("- name: %s, businessName: %s, responsibility: %s, officeLocation: %s\n",
			c.Name, c.BusinessName, c.Responsibility, c.OfficeLocation))
	}
	b.WriteString("\nAnswer with ONLY a JSON array of objects with fields \"name\" and \"businessName\", nothing else.")
	return b.String()
}

// parseSuggestions extracts the JSON array from the reply. Models often
// wrap the array in prose or code fences, so we parse the outermost
// bracketed segment.
func parseSuggestions(reply string) ([]aiSuggestion, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in reply")
	}

	var suggestions []aiSuggestion
	if err := json.Unmarshal([]byte(reply[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("empty suggestion list")
	}
	return suggestions, nil
}

// matchContacts resolves suggestions to directory rows by case-insensitive
// name and business name match, keeping suggestion order, capped at
// maxRecommendations.
func matchContacts(suggestions []aiSuggestion, contacts []domain.Contact) []*domain.Contact {
	var matched []*domain.Contact
	seen := make(map[uuid.UUID]struct{})

	for _, suggestion := range suggestions {
		if len(matched) == maxRecommendations {
			break
		}
		for i := range contacts {
			contact := &contacts[i]
			if !strings.EqualFold(contact.Name, suggestion.Name) {
				continue
			}
			if suggestion.BusinessName != "" && !strings.EqualFold(contact.BusinessName, suggestion.BusinessName) {
				continue
			}
			if _, ok := seen[contact.ID]; ok {
				break
			}
			seen[contact.ID] = struct{}{}
			matched = append(matched, contact)
			break
		}
	}

	return matched
}
