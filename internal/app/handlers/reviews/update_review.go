package reviews

import (
	"context"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/uow"
)

const updateReviewKey = "reviews.update"

type UpdateReviewCommand struct {
	ReviewID string
	AuthorID string
	Text     string
}

func (c UpdateReviewCommand) Key() string { return updateReviewKey }

type UpdateReviewResult struct {
	ReviewID string `json:"review_id"`
}

// UpdateReviewHandler lets the author edit the review text. Ratings are final.
type UpdateReviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdateReviewHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) (*UpdateReviewResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	review, err := unit.Reviews().ByID(ctx, cmd.ReviewID)
	if err != nil {
		return nil, err
	}
	if err := review.UpdateText(cmd.AuthorID, cmd.Text, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &UpdateReviewResult{ReviewID: review.ID}, nil
}

var _ commands.Handler[UpdateReviewCommand, *UpdateReviewResult] = (*UpdateReviewHandler)(nil)
