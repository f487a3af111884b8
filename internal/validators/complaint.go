package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"complaint-desk.com/complaint-desk/internal/constants"
	dto "complaint-desk.com/complaint-desk/internal/data_models"
	apperrors "complaint-desk.com/complaint-desk/internal/errors"
	model "complaint-desk.com/complaint-desk/internal/models"
)

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return constants.Category(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return constants.Priority(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("complaint_status", func(fl validator.FieldLevel) bool {
		return constants.ComplaintStatus(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
}

// complaintRecord mirrors the stored schema constraints of a complaint.
type complaintRecord struct {
	Title         string `json:"title" validate:"required,min=5,max=100"`
	Description   string `json:"description" validate:"required,min=20"`
	Category      string `json:"category" validate:"required,category"`
	Priority      string `json:"priority" validate:"required,priority"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,basic_email"`
	Assignee      string `json:"assignee" validate:"omitempty,max=64"`
	Status        string `json:"status" validate:"required,complaint_status"`
	Resolution    string `json:"resolution"`
}

func ValidateCreateComplaintRequest(r *dto.CreateComplaintRequest) error {
	return translate(validate.Struct(r))
}

// ValidateComplaint checks a complete record against the schema, including
// the rule that resolved and closed complaints carry a resolution.
func ValidateComplaint(c *model.Complaint) error {
	rec := complaintRecord{
		Title:         c.Title,
		Description:   c.Description,
		Category:      string(c.Category),
		Priority:      string(c.Priority),
		CustomerName:  strings.TrimSpace(c.CustomerName),
		CustomerEmail: c.CustomerEmail,
		Status:        string(c.Status),
		Resolution:    c.Resolution,
	}
	if c.Assignee != nil {
		rec.Assignee = *c.Assignee
	}

	var fields []apperrors.FieldError
	if err := translate(validate.Struct(rec)); err != nil {
		var ex *apperrors.Exception
		if !errors.As(err, &ex) {
			return err
		}
		fields = append(fields, ex.Fields...)
	}

	if c.Status.RequiresResolution() && strings.TrimSpace(c.Resolution) == "" {
		fields = append(fields, apperrors.FieldError{
			Field:   "resolution",
			Message: apperrors.ErrResolutionRequired.Message,
		})
	}

	if len(fields) > 0 {
		return apperrors.Validation(fields...)
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return apperrors.Validation(fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "category":
		return fmt.Sprintf("%s must be one of %v", fe.Field(), constants.Categories)
	case "priority":
		return fmt.Sprintf("%s must be one of %v", fe.Field(), constants.Priorities)
	case "complaint_status":
		return fmt.Sprintf("%s must be one of %v", fe.Field(), constants.Statuses)
	case "basic_email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
