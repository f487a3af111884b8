package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"complaint-desk.com/complaint-desk/internal/constants"
	dto "complaint-desk.com/complaint-desk/internal/data_models"
	apperrors "complaint-desk.com/complaint-desk/internal/errors"
	model "complaint-desk.com/complaint-desk/internal/models"
	repository "complaint-desk.com/complaint-desk/internal/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Complaint{}, &model.ComplaintTerm{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func setupService(t *testing.T) *ComplaintService {
	t.Helper()
	return NewComplaintService(repository.NewComplaintRepository(setupTestDB(t)), 10, 50)
}

func createRequest() *dto.CreateComplaintRequest {
	return &dto.CreateComplaintRequest{
		Title:         "Late delivery issue",
		Description:   "My order arrived a full week late.",
		Category:      string(constants.CategoryDelivery),
		Priority:      string(constants.PriorityHigh),
		CustomerName:  "Ari Novak",
		CustomerEmail: "ari@example.com",
	}
}

func strPtr(s string) *string { return &s }

func TestComplaintService_CreateComplaint(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "user-42")
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, constants.StatusNew, c.Status)
	assert.Nil(t, c.DeletedAt)
	require.NotNil(t, c.CreatedBy)
	assert.Equal(t, "user-42", *c.CreatedBy)

	anon, err := service.CreateComplaint(ctx, createRequest(), "")
	require.NoError(t, err)
	assert.Nil(t, anon.CreatedBy)
}

func TestComplaintService_CreateComplaint_Validation(t *testing.T) {
	service := setupService(t)

	req := createRequest()
	req.Category = "Shipping"
	req.Description = "short"

	_, err := service.CreateComplaint(context.Background(), req, "")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	ex := err.(*apperrors.Exception)
	assert.Len(t, ex.Fields, 2)
}

func TestComplaintService_Scenario_CloseNeedsResolution(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusNew, c.Status)

	_, err = service.UpdateStatus(ctx, c.ID, "Closed", nil)
	assert.ErrorIs(t, err, apperrors.ErrResolutionRequired)

	_, err = service.UpdateStatus(ctx, c.ID, "Closed", strPtr("   "))
	assert.ErrorIs(t, err, apperrors.ErrResolutionRequired)

	closed, err := service.UpdateStatus(ctx, c.ID, "Closed", strPtr("Refunded"))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusClosed, closed.Status)
	assert.Equal(t, "Refunded", closed.Resolution)

	stored, err := service.GetComplaint(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusClosed, stored.Status)
	assert.Equal(t, "Refunded", stored.Resolution)
}

func TestComplaintService_UpdateStatus(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "")
	require.NoError(t, err)

	_, err = service.UpdateStatus(ctx, c.ID, "Escalated", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	_, err = service.UpdateStatus(ctx, "missing", "On Hold", nil)
	assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)

	resolved, err := service.UpdateStatus(ctx, c.ID, "Resolved", strPtr("Replacement shipped"))
	require.NoError(t, err)
	assert.Equal(t, "Replacement shipped", resolved.Resolution)

	// no transition graph: any status is reachable from any other
	reopened, err := service.UpdateStatus(ctx, c.ID, "Reopened", nil)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusReopened, reopened.Status)

	// the stored resolution satisfies the requirement
	closed, err := service.UpdateStatus(ctx, c.ID, "Closed", nil)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusClosed, closed.Status)
	assert.Equal(t, "Replacement shipped", closed.Resolution)

	require.NoError(t, deleteOK(service, c.ID))
	_, err = service.UpdateStatus(ctx, c.ID, "New", nil)
	assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)
}

func deleteOK(service *ComplaintService, id string) error {
	_, err := service.DeleteComplaint(context.Background(), id)
	return err
}

func TestComplaintService_UpdateComplaint(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "user-1")
	require.NoError(t, err)

	updated, err := service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{
		Priority: strPtr("Critical"),
		Assignee: strPtr("agent-9"),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PriorityCritical, updated.Priority)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, "agent-9", *updated.Assignee)
	assert.Equal(t, c.Title, updated.Title)
	assert.Equal(t, c.CreatedBy, updated.CreatedBy)

	cleared, err := service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{Assignee: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Assignee)

	_, err = service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{Title: strPtr("Bad")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.UpdateComplaint(ctx, "missing", &dto.UpdateComplaintRequest{})
	assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)

	stored, err := service.GetComplaint(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, c.Title, stored.Title)
}

func TestComplaintService_UpdateComplaint_KeepsResolutionInvariant(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "")
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, c.ID, "Resolved", strPtr("Refunded"))
	require.NoError(t, err)

	_, err = service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{Resolution: strPtr("")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComplaintService_SoftDeleteAndRestore(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "user-1")
	require.NoError(t, err)
	before, err := service.GetComplaint(ctx, c.ID, false)
	require.NoError(t, err)

	resp, err := service.DeleteComplaint(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.DeleteComplaintResponse{OK: true, ID: c.ID}, resp)

	_, err = service.GetComplaint(ctx, c.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)

	page, err := service.ListComplaints(ctx, dto.ListComplaintsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)

	page, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{IncludeDeleted: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = service.DeleteComplaint(ctx, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)

	after, err := service.RestoreComplaint(ctx, c.ID)
	require.NoError(t, err)

	before.UpdatedAt = time.Time{}
	after.UpdatedAt = time.Time{}
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.CreatedBy, after.CreatedBy)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.Nil(t, after.DeletedAt)

	_, err = service.RestoreComplaint(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrComplaintNotFound)
}

func TestComplaintService_UpdateNeverTouchesDeletedAt(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "")
	require.NoError(t, err)

	// deletedAt has no place in the update payload, so a client cannot
	// smuggle it in; only the allow-listed fields are applied.
	_, err = service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{Title: strPtr("Still late delivery")})
	require.NoError(t, err)

	stored, err := service.GetComplaint(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Nil(t, stored.DeletedAt)
}

func TestComplaintService_ListComplaints_Pagination(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		req := createRequest()
		req.Title = fmt.Sprintf("Delivery problem %02d", i)
		_, err := service.CreateComplaint(ctx, req, "")
		require.NoError(t, err)
	}

	page, err := service.ListComplaints(ctx, dto.ListComplaintsQuery{Page: 2, Limit: 10, Sort: "title"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.EqualValues(t, 23, page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Items, 10)
	assert.Equal(t, "Delivery problem 10", page.Items[0].Title)
	assert.Equal(t, "Delivery problem 19", page.Items[9].Title)

	page, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)

	page, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
	assert.Len(t, page.Items, 23)
	assert.Equal(t, 1, page.Pages)

	page, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestComplaintService_ListComplaints_FiltersAndSearch(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	billing := createRequest()
	billing.Title = "Double charge on invoice"
	billing.Category = string(constants.CategoryBilling)
	billing.Description = "The invoice for March was charged to my card twice."
	_, err := service.CreateComplaint(ctx, billing, "")
	require.NoError(t, err)

	_, err = service.CreateComplaint(ctx, createRequest(), "")
	require.NoError(t, err)

	page, err := service.ListComplaints(ctx, dto.ListComplaintsQuery{Category: "Billing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Search: "invoice"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Double charge on invoice", page.Items[0].Title)

	page, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Search: "invoice", Category: "Delivery"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
	assert.Equal(t, 0, page.Pages)
	assert.NotNil(t, page.Items)
}

func TestComplaintService_ListComplaints_InvalidQuery(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	_, err := service.ListComplaints(ctx, dto.ListComplaintsQuery{Status: "Escalated"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)

	_, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Sort: "-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)

	_, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Page: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)

	_, err = service.ListComplaints(ctx, dto.ListComplaintsQuery{Page: math.MaxInt, Limit: 10})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)
}

func TestComplaintService_UpdateComplaint_Status(t *testing.T) {
	service := setupService(t)
	ctx := context.Background()

	c, err := service.CreateComplaint(ctx, createRequest(), "")
	require.NoError(t, err)

	onHold, err := service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{Status: strPtr("On Hold")})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusOnHold, onHold.Status)

	_, err = service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{Status: strPtr("Closed")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	stored, err := service.GetComplaint(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusOnHold, stored.Status)

	closed, err := service.UpdateComplaint(ctx, c.ID, &dto.UpdateComplaintRequest{
		Status:     strPtr("Closed"),
		Resolution: strPtr("Refunded"),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusClosed, closed.Status)
	assert.Equal(t, "Refunded", closed.Resolution)
}
