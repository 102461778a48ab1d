package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
)

// NoticeService is the pull surface over the cancellation ledger.
type NoticeService struct {
	cancels *repository.CancellationRepository
	logger  zerolog.Logger
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(cancels *repository.CancellationRepository, logger zerolog.Logger) *NoticeService {
	return &NoticeService{
		cancels: cancels,
		logger:  logger.With().Str("component", "notice_service").Logger(),
	}
}

// List retrieves the registrant's notices, newest first, with the count of
// ones not yet delivered.
func (s *NoticeService) List(ctx context.Context, ref model.RegistrantRef) ([]model.CancellationNotice, int, error) {
	notices, err := s.cancels.ListByRegistrant(ctx, ref)
	if err != nil {
		return nil, 0, err
	}
	if notices == nil {
		notices = []model.CancellationNotice{}
	}
	undelivered := 0
	for _, n := range notices {
		if !n.Delivered {
			undelivered++
		}
	}
	return notices, undelivered, nil
}

// ListUndelivered retrieves only the registrant's unread notices. Shown on
// login so involuntary cancellations reach the person on their next session.
func (s *NoticeService) ListUndelivered(ctx context.Context, ref model.RegistrantRef) ([]model.CancellationNotice, error) {
	notices, err := s.cancels.ListUndeliveredByRegistrant(ctx, ref)
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = []model.CancellationNotice{}
	}
	return notices, nil
}

// MarkDelivered flags every undelivered notice of the registrant as read.
func (s *NoticeService) MarkDelivered(ctx context.Context, ref model.RegistrantRef) (int64, error) {
	marked, err := s.cancels.MarkDelivered(ctx, ref)
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		s.logger.Debug().
			Str("kind", string(ref.Kind)).
			Int("registrant_id", ref.ID).
			Int64("marked", marked).
			Msg("notices delivered")
	}
	return marked, nil
}
