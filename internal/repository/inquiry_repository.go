package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

// likeEscaper neutralizes ILIKE wildcards in user-supplied search text
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type InquiryRepository struct {
	db *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("inquiry_comments.created_at ASC")
		}).
		Preload("Comments.Author").
		Preload("Recommendations", func(db *gorm.DB) *gorm.DB {
			return db.Order("recommendations.position ASC")
		}).
		First(&inquiry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// ListWithFilters returns inquiries matching the filters, newest first.
// Archived rows are excluded unless IncludeArchived is set.
func (r *InquiryRepository) ListWithFilters(ctx context.Context, page, pageSize int, filters *domain.InquiryFilters) ([]domain.Inquiry, int64, error) {
	var inquiries []domain.Inquiry
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Inquiry{})

	if filters != nil {
		if !filters.IncludeArchived {
			query = query.Where("archived = ?", false)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.AssignedToID != nil {
			query = query.Where("assigned_to_id = ?", *filters.AssignedToID)
		}
		if filters.Tag != "" {
			query = query.Where("? = ANY(tags)", filters.Tag)
		}
		if filters.Search != "" {
			searchPattern := "%" + escapeLike(filters.Search) + "%"
			query = query.Where(
				"company_name ILIKE ? OR contact_name ILIKE ? OR case_number ILIKE ?",
				searchPattern, searchPattern, searchPattern,
			)
		}
	} else {
		query = query.Where("archived = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&inquiries).Error

	return inquiries, total, err
}

func (r *InquiryRepository) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	return r.db.WithContext(ctx).Save(inquiry).Error
}

func (r *InquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Inquiry{}, "id = ?", id).Error
}

// SetArchived flips the archived flag in a single statement and reports
// whether the inquiry existed.
func (r *InquiryRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"archived": archived, "updated_at": time.Now()})
	return result.RowsAffected > 0, result.Error
}

// Assign records the assignment triple on the inquiry
func (r *InquiryRepository) Assign(ctx context.Context, id uuid.UUID, assignedTo, assignedBy uuid.UUID, assignedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to_id": assignedTo,
			"assigned_by_id": assignedBy,
			"assigned_at":    assignedAt,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	return result.RowsAffected > 0, result.Error
}

// AddTag appends a tag atomically. The guard keeps the operation idempotent:
// appending a tag already present affects no rows and is not an error.
func (r *InquiryRepository) AddTag(ctx context.Context, id uuid.UUID, tag string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE inquiries
		 SET tags = array_append(tags, ?), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND NOT (? = ANY(tags))`,
		tag, id, tag,
	).Error
}

// RemoveTag removes a tag atomically and reports whether the inquiry
// actually carried it.
func (r *InquiryRepository) RemoveTag(ctx context.Context, id uuid.UUID, tag string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE inquiries
		 SET tags = array_remove(tags, ?), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND ? = ANY(tags)`,
		tag, id, tag,
	)
	return result.RowsAffected > 0, result.Error
}

// RemoveTags drops every listed tag in one statement, preserving the order
// of the remaining tags. Tags the inquiry does not carry are ignored.
func (r *InquiryRepository) RemoveTags(ctx context.Context, id uuid.UUID, tags []string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE inquiries
		 SET tags = (
			SELECT COALESCE(array_agg(t ORDER BY ord), '{}')
			FROM unnest(tags) WITH ORDINALITY AS u(t, ord)
			WHERE t != ALL(?::text[])
		 ), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		pq.Array(tags), id,
	).Error
}

// Comment methods

func (r *InquiryRepository) AddComment(ctx context.Context, comment *domain.InquiryComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *InquiryRepository) GetCommentByID(ctx context.Context, inquiryID, commentID uuid.UUID) (*domain.InquiryComment, error) {
	var comment domain.InquiryComment
	err := r.db.WithContext(ctx).
		First(&comment, "id = ? AND inquiry_id = ?", commentID, inquiryID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *InquiryRepository) UpdateComment(ctx context.Context, comment *domain.InquiryComment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *InquiryRepository) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.InquiryComment{}, "id = ?", commentID).Error
}

// Recommendation methods

func (r *InquiryRepository) GetRecommendations(ctx context.Context, inquiryID uuid.UUID) ([]domain.Recommendation, error) {
	var recs []domain.Recommendation
	err := r.db.WithContext(ctx).
		Where("inquiry_id = ?", inquiryID).
		Order("position ASC").
		Find(&recs).Error
	return recs, err
}

// SaveRecommendations persists the generated suggestions for an inquiry.
// The rows are the permanent cache; they are written once per inquiry.
func (r *InquiryRepository) SaveRecommendations(ctx context.Context, inquiryID uuid.UUID, recs []domain.Recommendation) error {
	for i := range recs {
		recs[i].InquiryID = inquiryID
		recs[i].Position = i
	}
	return r.db.WithContext(ctx).Create(&recs).Error
}

// CountByCaseNumber reports how many inquiries carry the given case number
func (r *InquiryRepository) CountByCaseNumber(ctx context.Context, caseNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Inquiry{}).
		Where("case_number = ?", caseNumber).
		Count(&count).Error
	return count, err
}
