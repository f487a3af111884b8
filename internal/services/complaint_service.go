package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"complaint-desk.com/complaint-desk/internal/constants"
	dto "complaint-desk.com/complaint-desk/internal/data_models"
	apperrors "complaint-desk.com/complaint-desk/internal/errors"
	"complaint-desk.com/complaint-desk/internal/metrics"
	model "complaint-desk.com/complaint-desk/internal/models"
	repository "complaint-desk.com/complaint-desk/internal/repositories"
	"complaint-desk.com/complaint-desk/internal/validators"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type ComplaintService struct {
	repo         *repository.ComplaintRepository
	defaultLimit int
	maxLimit     int
}

func NewComplaintService(repo *repository.ComplaintRepository, defaultLimit, maxLimit int) *ComplaintService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}

	return &ComplaintService{
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// CreateComplaint stores a new complaint in status New. requesterID becomes
// createdBy; an empty requesterID leaves createdBy unset.
func (s *ComplaintService) CreateComplaint(ctx context.Context, req *dto.CreateComplaintRequest, requesterID string) (c *model.Complaint, err error) {
	defer func() { metrics.ObserveOperation("create", err) }()

	if err := validators.ValidateCreateComplaintRequest(req); err != nil {
		return nil, err
	}

	complaint := &model.Complaint{
		Title:         req.Title,
		Description:   req.Description,
		Category:      constants.Category(req.Category),
		Priority:      constants.Priority(req.Priority),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Assignee:      normalizeRef(req.Assignee),
		Status:        constants.StatusNew,
		CreatedBy:     normalizeRef(&requesterID),
	}

	if err := validators.ValidateComplaint(complaint); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) ListComplaints(ctx context.Context, q dto.ListComplaintsQuery) (page *dto.ComplaintPage, err error) {
	defer func() { metrics.ObserveOperation("list", err) }()

	filter, opts, err := s.buildListQuery(q)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return &dto.ComplaintPage{
		Items: items,
		Page:  opts.Offset/opts.Limit + 1,
		Limit: opts.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(opts.Limit))),
	}, nil
}

func (s *ComplaintService) buildListQuery(q dto.ListComplaintsQuery) (repository.ComplaintFilter, repository.ListOptions, error) {
	var fields []apperrors.FieldError

	if q.Page < 0 {
		fields = append(fields, apperrors.FieldError{Field: "page", Message: "page must be a positive integer"})
	}
	if q.Limit < 0 {
		fields = append(fields, apperrors.FieldError{Field: "limit", Message: "limit must be a positive integer"})
	}
	if q.Status != "" && !constants.ComplaintStatus(q.Status).Valid() {
		fields = append(fields, apperrors.FieldError{Field: "status", Message: fmt.Sprintf("status must be one of %v", constants.Statuses)})
	}
	if q.Category != "" && !constants.Category(q.Category).Valid() {
		fields = append(fields, apperrors.FieldError{Field: "category", Message: fmt.Sprintf("category must be one of %v", constants.Categories)})
	}
	if q.Priority != "" && !constants.Priority(q.Priority).Valid() {
		fields = append(fields, apperrors.FieldError{Field: "priority", Message: fmt.Sprintf("priority must be one of %v", constants.Priorities)})
	}

	sort, err := repository.ParseSort(q.Sort)
	if err != nil {
		return repository.ComplaintFilter{}, repository.ListOptions{}, err
	}

	if len(fields) > 0 {
		return repository.ComplaintFilter{}, repository.ListOptions{}, apperrors.InvalidQuery(fields...)
	}

	page := q.Page
	if page == 0 {
		page = 1
	}
	limit := q.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	if page-1 > math.MaxInt/limit {
		return repository.ComplaintFilter{}, repository.ListOptions{}, apperrors.InvalidQuery(apperrors.FieldError{
			Field:   "page",
			Message: "page is out of range",
		})
	}

	filter := repository.ComplaintFilter{
		Status:         constants.ComplaintStatus(q.Status),
		Category:       constants.Category(q.Category),
		Priority:       constants.Priority(q.Priority),
		Assignee:       q.Assignee,
		Search:         q.Search,
		IncludeDeleted: q.IncludeDeleted,
	}
	opts := repository.ListOptions{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Sort:   sort,
	}

	return filter, opts, nil
}

func (s *ComplaintService) GetComplaint(ctx context.Context, id string, includeDeleted bool) (c *model.Complaint, err error) {
	defer func() { metrics.ObserveOperation("get", err) }()

	if id == "" {
		return nil, apperrors.ErrComplaintIDRequired
	}
	return s.repo.FindByID(ctx, id, includeDeleted)
}

// UpdateComplaint applies a partial update. Only the fields present in
// dto.UpdateComplaintRequest can change; the merged record is validated
// again before it is written.
func (s *ComplaintService) UpdateComplaint(ctx context.Context, id string, req *dto.UpdateComplaintRequest) (c *model.Complaint, err error) {
	defer func() { metrics.ObserveOperation("update", err) }()

	if id == "" {
		return nil, apperrors.ErrComplaintIDRequired
	}

	complaint, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	previous := complaint.Status
	applyUpdate(complaint, req)

	if err := validators.ValidateComplaint(complaint); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, complaint); err != nil {
		return nil, err
	}

	if complaint.Status != previous {
		metrics.ObserveTransition(string(previous), string(complaint.Status))
	}
	return complaint, nil
}

func applyUpdate(c *model.Complaint, req *dto.UpdateComplaintRequest) {
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Category != nil {
		c.Category = constants.Category(*req.Category)
	}
	if req.Priority != nil {
		c.Priority = constants.Priority(*req.Priority)
	}
	if req.CustomerName != nil {
		c.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		c.CustomerEmail = *req.CustomerEmail
	}
	if req.Assignee != nil {
		c.Assignee = normalizeRef(req.Assignee)
	}
	if req.Status != nil {
		c.Status = constants.ComplaintStatus(*req.Status)
	}
	if req.Resolution != nil {
		c.Resolution = *req.Resolution
	}
}

func (s *ComplaintService) DeleteComplaint(ctx context.Context, id string) (resp *dto.DeleteComplaintResponse, err error) {
	defer func() { metrics.ObserveOperation("delete", err) }()

	if id == "" {
		return nil, apperrors.ErrComplaintIDRequired
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	return &dto.DeleteComplaintResponse{OK: true, ID: id}, nil
}

// RestoreComplaint brings back a soft-deleted complaint. It is the one
// operation that looks complaints up without the deleted filter.
func (s *ComplaintService) RestoreComplaint(ctx context.Context, id string) (c *model.Complaint, err error) {
	defer func() { metrics.ObserveOperation("restore", err) }()

	if id == "" {
		return nil, apperrors.ErrComplaintIDRequired
	}
	return s.repo.Restore(ctx, id)
}

// UpdateStatus moves a complaint to any of the defined statuses. Entering
// Resolved or Closed needs resolution text, either supplied now or already
// stored on the complaint.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id, status string, resolution *string) (c *model.Complaint, err error) {
	defer func() { metrics.ObserveOperation("update_status", err) }()

	next := constants.ComplaintStatus(status)
	if !next.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	if id == "" {
		return nil, apperrors.ErrComplaintIDRequired
	}

	complaint, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	supplied := resolution != nil && strings.TrimSpace(*resolution) != ""
	if next.RequiresResolution() && !supplied && strings.TrimSpace(complaint.Resolution) == "" {
		return nil, apperrors.ErrResolutionRequired
	}

	previous := complaint.Status
	complaint.Status = next
	if supplied {
		complaint.Resolution = *resolution
	}

	if err := s.repo.Update(ctx, complaint); err != nil {
		return nil, err
	}

	metrics.ObserveTransition(string(previous), string(next))
	return complaint, nil
}

func normalizeRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := strings.TrimSpace(*ref)
	if v == "" {
		return nil
	}
	return &v
}
