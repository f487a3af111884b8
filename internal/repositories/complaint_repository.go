package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"complaint-desk.com/complaint-desk/internal/constants"
	apperrors "complaint-desk.com/complaint-desk/internal/errors"
	model "complaint-desk.com/complaint-desk/internal/models"
)

type ComplaintRepository struct {
	db *gorm.DB
}

// ComplaintFilter narrows a listing. Empty fields are ignored; the fields
// that are set are ANDed together.
type ComplaintFilter struct {
	Status         constants.ComplaintStatus
	Category       constants.Category
	Priority       constants.Priority
	Assignee       string
	Search         string
	IncludeDeleted bool
}

type ListOptions struct {
	Offset int
	Limit  int
	Sort   SortOrder
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(complaint).Error; err != nil {
			return err
		}
		return writeTerms(tx, complaint)
	})
}

// FindByID loads one complaint. Soft-deleted complaints are reported as
// not found unless includeDeleted is set.
func (r *ComplaintRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*model.Complaint, error) {
	var complaint model.Complaint

	q := r.db.WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}

	if err := q.First(&complaint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrComplaintNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) List(ctx context.Context, filter ComplaintFilter, opts ListOptions) ([]model.Complaint, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]model.Complaint, 0)
	if total == 0 {
		return items, 0, nil
	}

	q := r.filtered(ctx, filter)
	for _, clause := range opts.Sort.clauses() {
		q = q.Order(clause)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ComplaintRepository) filtered(ctx context.Context, f ComplaintFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Complaint{})

	if !f.IncludeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Assignee != "" {
		q = q.Where("assignee = ?", f.Assignee)
	}
	if strings.TrimSpace(f.Search) != "" {
		terms := Tokenize(f.Search)
		if len(terms) == 0 {
			return q.Where("1 = 0")
		}
		matching := r.db.Model(&model.ComplaintTerm{}).
			Select("complaint_id").
			Where("term IN ?", terms)
		q = q.Where("id IN (?)", matching)
	}

	return q
}

// Update writes the mutable fields of an active complaint. Concurrent
// writers to the same complaint resolve as last write wins.
func (r *ComplaintRepository) Update(ctx context.Context, complaint *model.Complaint) error {
	now := time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Complaint{}).
			Where("id = ? AND deleted_at IS NULL", complaint.ID).
			Updates(map[string]interface{}{
				"title":          complaint.Title,
				"description":    complaint.Description,
				"category":       complaint.Category,
				"priority":       complaint.Priority,
				"customer_name":  complaint.CustomerName,
				"customer_email": complaint.CustomerEmail,
				"assignee":       complaint.Assignee,
				"status":         complaint.Status,
				"resolution":     complaint.Resolution,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrComplaintNotFound
		}

		complaint.UpdatedAt = now
		return writeTerms(tx, complaint)
	})
}

// SoftDelete stamps deletedAt on an active complaint.
func (r *ComplaintRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrComplaintNotFound
	}
	return nil
}

// Restore clears deletedAt. It addresses the complaint by id regardless of
// its deleted state, otherwise a deleted complaint could never come back.
// Restoring an active complaint leaves it untouched.
func (r *ComplaintRepository) Restore(ctx context.Context, id string) (*model.Complaint, error) {
	complaint, err := r.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !complaint.IsDeleted() {
		return complaint, nil
	}

	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrComplaintNotFound
	}

	complaint.DeletedAt = nil
	complaint.UpdatedAt = now
	return complaint, nil
}

// Reindex rebuilds the text index for every stored complaint, deleted ones
// included, and returns how many complaints were indexed.
func (r *ComplaintRepository) Reindex(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch size must be positive")
	}

	indexed := 0
	var batch []model.Complaint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ComplaintTerm{}).Error; err != nil {
			return err
		}

		return tx.Model(&model.Complaint{}).FindInBatches(&batch, batchSize, func(b *gorm.DB, _ int) error {
			for i := range batch {
				if err := writeTerms(tx, &batch[i]); err != nil {
					return err
				}
			}
			indexed += len(batch)
			return nil
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return indexed, nil
}

func writeTerms(tx *gorm.DB, complaint *model.Complaint) error {
	if err := tx.Where("complaint_id = ?", complaint.ID).Delete(&model.ComplaintTerm{}).Error; err != nil {
		return err
	}

	terms := complaintTerms(complaint)
	if len(terms) == 0 {
		return nil
	}
	return tx.CreateInBatches(terms, 200).Error
}
