package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
	"github.com/vemac/institute/internal/pkg/apperrors"
	"github.com/vemac/institute/internal/pkg/logger"
	"github.com/vemac/institute/internal/pkg/metrics"
	"github.com/vemac/institute/internal/pkg/validation"
)

// Fee save outcomes as shown to the user
const (
	MsgFeeAdded   = "Fee added successfully."
	MsgFeeUpdated = "Fee updated successfully."
)

// maxFeeAmount is the largest value NUMERIC(12,2) can hold
var maxFeeAmount = decimal.RequireFromString("9999999999.99")

// createdAtLayouts are accepted for an explicit fee creation time
var createdAtLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", validation.DateLayout}

// FeeService defines the fee operations
type FeeService interface {
	SaveFee(ctx context.Context, input models.FeeInput) (*models.SaveFeeResult, error)
	MarkFeePaid(ctx context.Context, feeID string) (*models.Fee, error)
	GetFee(ctx context.Context, feeID string) (*models.Fee, error)
	ListFees(ctx context.Context, filter models.FeeFilter) ([]*models.Fee, int64, error)
	StudentFees(ctx context.Context, studentName string, offset uint64, limit int) ([]*models.Fee, int64, error)
}

// feeServiceImpl implements the FeeService interface
type feeServiceImpl struct {
	fees  FeeStore
	retry db.RetryPolicy
	now   func() time.Time
}

// NewFeeService creates a new fee service instance
func NewFeeService(fees FeeStore, retry db.RetryPolicy) FeeService {
	return &feeServiceImpl{
		fees:  fees,
		retry: retry,
		now:   time.Now,
	}
}

// parseFee validates the raw input and converts it. All problems are reported together.
func (s *feeServiceImpl) parseFee(input models.FeeInput) (*models.Fee, error) {
	input.FeeID = strings.TrimSpace(input.FeeID)
	input.InstituteName = strings.TrimSpace(input.InstituteName)
	input.StudentName = strings.TrimSpace(input.StudentName)
	input.Amount = models.AmountText(strings.TrimSpace(string(input.Amount)))
	input.PaymentDate = strings.TrimSpace(input.PaymentDate)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	input.Status = strings.TrimSpace(input.Status)
	input.Remark = strings.TrimSpace(input.Remark)
	input.CreatedAt = strings.TrimSpace(input.CreatedAt)

	var extra []*apperrors.FieldError

	var amount decimal.Decimal
	if input.Amount != "" {
		d, err := decimal.NewFromString(string(input.Amount))
		switch {
		case err != nil:
			extra = append(extra, &apperrors.FieldError{Field: "amount", Message: "Amount must be a number."})
		case d.IsNegative():
			extra = append(extra, &apperrors.FieldError{Field: "amount", Message: "Amount cannot be negative."})
		case d.Exponent() < -2 && !d.Equal(d.Round(2)):
			extra = append(extra, &apperrors.FieldError{Field: "amount", Message: "Amount can have at most 2 decimal places."})
		case d.GreaterThan(maxFeeAmount):
			extra = append(extra, &apperrors.FieldError{Field: "amount", Message: "Amount is too large."})
		default:
			amount = d.Round(2)
		}
	}

	createdAt := s.now()
	if input.CreatedAt != "" {
		parsed, ok := parseCreatedAt(input.CreatedAt)
		if !ok {
			extra = append(extra, &apperrors.FieldError{Field: "created_at", Message: "Created at must be a valid date and time."})
		} else {
			createdAt = parsed
		}
	}

	if err := validation.Merge(validation.Struct(input), extra...); err != nil {
		return nil, err
	}

	status := models.FeeStatus(input.Status)
	if status == "" {
		status = models.FeePending
	}
	paymentDate, _ := time.Parse(validation.DateLayout, input.PaymentDate)

	return &models.Fee{
		FeeID:         input.FeeID,
		InstituteName: input.InstituteName,
		StudentName:   input.StudentName,
		Amount:        amount,
		PaymentDate:   paymentDate,
		PaymentMethod: models.PaymentMethod(input.PaymentMethod),
		Status:        status,
		Remark:        nullable(input.Remark),
		CreatedAt:     createdAt,
	}, nil
}

func parseCreatedAt(v string) (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SaveFee inserts the fee or replaces the one with the same fee_id in a single statement
func (s *feeServiceImpl) SaveFee(ctx context.Context, input models.FeeInput) (*models.SaveFeeResult, error) {
	fee, err := s.parseFee(input)
	if err != nil {
		return nil, err
	}

	var inserted bool
	err = db.RetryOnConflict(ctx, s.retry, "save fee", func(ctx context.Context) error {
		var err error
		inserted, err = s.fees.Upsert(ctx, fee)
		return err
	})
	if err != nil {
		metrics.FeeSaves.WithLabelValues("error").Inc()
		return nil, err
	}

	result := &models.SaveFeeResult{Outcome: models.FeeUpdated, Message: MsgFeeUpdated, Fee: fee}
	if inserted {
		result.Outcome = models.FeeInserted
		result.Message = MsgFeeAdded
	}
	metrics.FeeSaves.WithLabelValues(string(result.Outcome)).Inc()
	logger.Ctx(ctx).Info().Str("feeID", fee.FeeID).Str("outcome", string(result.Outcome)).Msg("Fee saved")
	return result, nil
}

// MarkFeePaid moves a fee to Paid. Marking a paid fee again returns it unchanged.
func (s *feeServiceImpl) MarkFeePaid(ctx context.Context, feeID string) (*models.Fee, error) {
	feeID = strings.TrimSpace(feeID)
	if feeID == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "fee_id", Message: validation.RequiredMessage("fee_id")})
	}

	fee, changed, err := s.fees.MarkPaid(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if changed {
		logger.Ctx(ctx).Info().Str("feeID", feeID).Msg("Fee marked as paid")
	}
	return fee, nil
}

// GetFee retrieves a fee by its ID
func (s *feeServiceImpl) GetFee(ctx context.Context, feeID string) (*models.Fee, error) {
	return s.fees.GetByID(ctx, strings.TrimSpace(feeID))
}

// ListFees lists fees matching filter
func (s *feeServiceImpl) ListFees(ctx context.Context, filter models.FeeFilter) ([]*models.Fee, int64, error) {
	if filter.Status != "" && filter.Status != models.FeePaid && filter.Status != models.FeePending {
		return nil, 0, apperrors.NewValidationError(apperrors.FieldError{Field: "status", Message: "Status must be one of: Paid, Pending."})
	}
	return s.fees.List(ctx, filter)
}

// StudentFees lists the fees recorded under a student's name
func (s *feeServiceImpl) StudentFees(ctx context.Context, studentName string, offset uint64, limit int) ([]*models.Fee, int64, error) {
	studentName = strings.TrimSpace(studentName)
	if studentName == "" {
		return nil, 0, errors.Join(apperrors.ErrBadRequest, errors.New("student name is unknown"))
	}
	return s.fees.List(ctx, models.FeeFilter{StudentName: studentName, Offset: offset, Limit: limit})
}
