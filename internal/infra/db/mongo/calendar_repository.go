package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "shiftstay/internal/domain/availability"
	"shiftstay/internal/domain/listings"
)

type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_calendar")}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id listings.ListingID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavailability.ErrCalendarNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, cal *domainavailability.Calendar) error {
	doc := newCalendarDocument(cal)
	filter := bson.M{"_id": doc.ID, "version": cal.Version}
	doc.Version = cal.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	cal.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID                      string          `bson:"_id"`
	Blocks                  []blockDocument `bson:"blocks"`
	DefaultMonthlyRateCents int64           `bson:"default_monthly_rate_cents"`
	DefaultMinStayNights    int             `bson:"default_min_stay_nights"`
	Version                 int64           `bson:"version"`
}

type blockDocument struct {
	ID               string `bson:"id"`
	StartDate        int64  `bson:"start_date"`
	EndDate          int64  `bson:"end_date"`
	Status           string `bson:"status"`
	BookingID        string `bson:"booking_id,omitempty"`
	MinStayNights    int    `bson:"min_stay_nights,omitempty"`
	MonthlyRateCents int64  `bson:"monthly_rate_cents,omitempty"`
	Reason           string `bson:"reason,omitempty"`
	Notes            string `bson:"notes,omitempty"`
	CreatedAt        int64  `bson:"created_at"`
}

func newCalendarDocument(cal *domainavailability.Calendar) calendarDocument {
	blocks := make([]blockDocument, 0, len(cal.Blocks))
	for _, b := range cal.Blocks {
		blocks = append(blocks, blockDocument{
			ID:               b.ID,
			StartDate:        b.StartDate.UnixMilli(),
			EndDate:          b.EndDate.UnixMilli(),
			Status:           string(b.Status),
			BookingID:        b.BookingID,
			MinStayNights:    b.MinStayNights,
			MonthlyRateCents: b.MonthlyRateCents,
			Reason:           string(b.Reason),
			Notes:            b.Notes,
			CreatedAt:        b.CreatedAt.UnixMilli(),
		})
	}
	return calendarDocument{
		ID:                      string(cal.ListingID),
		Blocks:                  blocks,
		DefaultMonthlyRateCents: cal.DefaultMonthlyRateCents,
		DefaultMinStayNights:    cal.DefaultMinStayNights,
		Version:                 cal.Version,
	}
}

func (d calendarDocument) toAggregate() *domainavailability.Calendar {
	blocks := make([]domainavailability.Block, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		blocks = append(blocks, domainavailability.Block{
			ID:               b.ID,
			StartDate:        timestampToTime(b.StartDate),
			EndDate:          timestampToTime(b.EndDate),
			Status:           domainavailability.BlockStatus(b.Status),
			BookingID:        b.BookingID,
			MinStayNights:    b.MinStayNights,
			MonthlyRateCents: b.MonthlyRateCents,
			Reason:           domainavailability.BlockReason(b.Reason),
			Notes:            b.Notes,
			CreatedAt:        timestampToTime(b.CreatedAt),
		})
	}
	return &domainavailability.Calendar{
		ListingID:               listings.ListingID(d.ID),
		Blocks:                  blocks,
		DefaultMonthlyRateCents: d.DefaultMonthlyRateCents,
		DefaultMinStayNights:    d.DefaultMinStayNights,
		Version:                 d.Version,
	}
}
