package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
)

// voidClassRegistrations destroys every registration for a class and writes
// one cancellation notice per displaced registrant. The class row itself is
// the caller's to update; its seat counter is reset there, not decremented
// here.
func voidClassRegistrations(ctx context.Context, tx pgx.Tx,
	regs *repository.RegistrationRepository, cancels *repository.CancellationRepository,
	classID int, className string, cancelledOn time.Time) (int64, error) {

	refs, err := regs.ListRegistrantsByClassTx(ctx, tx, classID)
	if err != nil {
		return 0, err
	}
	notices := make([]model.CancellationNotice, 0, len(refs))
	for _, ref := range refs {
		notices = append(notices, model.CancellationNotice{
			ClassID:     classID,
			ClassName:   className,
			Registrant:  ref,
			CancelledOn: cancelledOn,
		})
	}
	if err := cancels.InsertManyTx(ctx, tx, notices); err != nil {
		return 0, err
	}
	return regs.DeleteByClassTx(ctx, tx, classID)
}

// voidRegistrantRegistrations destroys every registration a registrant
// holds and releases one seat per voided class. Notices are written only
// for involuntary cascades; owner-initiated removals skip them.
func voidRegistrantRegistrations(ctx context.Context, tx pgx.Tx,
	classes *repository.ClassRepository, regs *repository.RegistrationRepository,
	cancels *repository.CancellationRepository,
	ref model.RegistrantRef, withNotices bool, cancelledOn time.Time) (int64, error) {

	held, err := regs.ListHeldClassesTx(ctx, tx, ref)
	if err != nil {
		return 0, err
	}
	for _, cs := range held {
		if err := classes.ReleaseSeatTx(ctx, tx, cs.ClassID); err != nil {
			return 0, err
		}
	}
	if withNotices {
		notices := make([]model.CancellationNotice, 0, len(held))
		for _, cs := range held {
			notices = append(notices, model.CancellationNotice{
				ClassID:     cs.ClassID,
				ClassName:   cs.ClassName,
				Registrant:  ref,
				CancelledOn: cancelledOn,
			})
		}
		if err := cancels.InsertManyTx(ctx, tx, notices); err != nil {
			return 0, err
		}
	}
	return regs.DeleteByRegistrantTx(ctx, tx, ref)
}
