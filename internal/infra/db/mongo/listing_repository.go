package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "shiftstay/internal/domain/listings"
	domainrange "shiftstay/internal/domain/shared/daterange"
)

var ErrListingNotFound = errors.New("mongo: listing not found")

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	col := db.Collection("agg_listing")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "host", Value: 1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "monthly_rate_cents", Value: 1}}})
	return &ListingRepository{col: col}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlistings.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
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
	l.Version = doc.Version
	return nil
}

// Search pushes the cheap predicates into the Mongo filter and applies the
// stay-window check after decoding, since availability windows live inside the
// document and the half-open overlap test does not map onto a bson query.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	params = params.Normalized()
	filter := searchFilter(params)

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(searchSort(params.Sort)))
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	var matched []*domainlistings.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainlistings.SearchResult{}, err
		}
		listing := doc.toAggregate()
		if !params.CheckIn.IsZero() && !params.CheckOut.IsZero() && !listing.AvailableForRange(params.CheckIn, params.CheckOut) {
			continue
		}
		matched = append(matched, listing)
	}
	if err := cursor.Err(); err != nil {
		return domainlistings.SearchResult{}, err
	}

	total := len(matched)
	start := params.Offset
	if start > total {
		start = total
	}
	end := total
	if params.Limit > 0 && start+params.Limit < end {
		end = start + params.Limit
	}
	return domainlistings.SearchResult{Items: matched[start:end], Total: total}, nil
}

func searchFilter(params domainlistings.SearchParams) bson.M {
	filter := bson.M{}
	if params.Host != "" {
		filter["host"] = string(params.Host)
	}
	if params.OnlyActive {
		filter["status"] = string(domainlistings.ListingActive)
	} else if len(params.States) > 0 {
		states := make([]string, 0, len(params.States))
		for _, s := range params.States {
			states = append(states, string(s))
		}
		filter["status"] = bson.M{"$in": states}
	}
	if params.RoomType != "" {
		filter["room_type"] = string(params.RoomType)
	}
	if params.MaxBudgetCents > 0 {
		filter["monthly_rate_cents"] = bson.M{"$lte": params.MaxBudgetCents}
	}
	if params.MaxHospitalMinutes > 0 {
		filter["minutes_to_hospital"] = bson.M{"$lte": params.MaxHospitalMinutes}
	}
	if params.State != "" {
		filter["state_lc"] = params.State
	}
	if params.LocationQuery != "" {
		pattern := primitive.Regex{Pattern: regexQuote(params.LocationQuery), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"city": pattern},
			bson.M{"state": pattern},
			bson.M{"hospital_name": pattern},
			bson.M{"hospital_city": pattern},
			bson.M{"title": pattern},
		}
	}
	if len(params.Tags) > 0 {
		filter["tags"] = bson.M{"$all": params.Tags}
	}
	return filter
}

func searchSort(sort domainlistings.CatalogSort) bson.D {
	switch sort {
	case domainlistings.SortByPriceDesc:
		return bson.D{{Key: "monthly_rate_cents", Value: -1}, {Key: "_id", Value: 1}}
	case domainlistings.SortByRating:
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	case domainlistings.SortByDistance:
		return bson.D{{Key: "minutes_to_hospital", Value: 1}, {Key: "_id", Value: 1}}
	case domainlistings.SortByNewest:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "monthly_rate_cents", Value: 1}, {Key: "_id", Value: 1}}
	}
}

func regexQuote(s string) string {
	const special = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(special); j++ {
			if s[i] == special[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

type listingDocument struct {
	ID                string          `bson:"_id"`
	Host              string          `bson:"host"`
	Title             string          `bson:"title"`
	Description       string          `bson:"description"`
	City              string          `bson:"city"`
	State             string          `bson:"state"`
	StateLC           string          `bson:"state_lc"`
	HospitalName      string          `bson:"hospital_name"`
	HospitalCity      string          `bson:"hospital_city"`
	HospitalState     string          `bson:"hospital_state"`
	MinutesToHospital int             `bson:"minutes_to_hospital"`
	MonthlyRateCents  int64           `bson:"monthly_rate_cents"`
	RoomType          string          `bson:"room_type"`
	Tags              []string        `bson:"tags"`
	Rating            float64         `bson:"rating"`
	ReviewCount       int             `bson:"review_count"`
	MinStayNights     int             `bson:"min_stay_nights"`
	Windows           []rangeDocument `bson:"windows"`
	AvailableFrom     int64           `bson:"available_from"`
	AvailableTo       int64           `bson:"available_to"`
	Photos            []string        `bson:"photos"`
	ThumbnailURL      string          `bson:"thumbnail_url"`
	Status            string          `bson:"status"`
	CreatedAt         int64           `bson:"created_at"`
	UpdatedAt         int64           `bson:"updated_at"`
	Version           int64           `bson:"version"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	windows := make([]rangeDocument, 0, len(l.AvailabilityWindows))
	for _, w := range l.AvailabilityWindows {
		windows = append(windows, rangeDocument{CheckIn: w.CheckIn.UnixMilli(), CheckOut: w.CheckOut.UnixMilli()})
	}
	var from, to int64
	if !l.AvailableFrom.IsZero() {
		from = l.AvailableFrom.UnixMilli()
	}
	if !l.AvailableTo.IsZero() {
		to = l.AvailableTo.UnixMilli()
	}
	return listingDocument{
		ID:                string(l.ID),
		Host:              string(l.Host),
		Title:             l.Title,
		Description:       l.Description,
		City:              l.City,
		State:             l.State,
		StateLC:           strings.ToLower(l.State),
		HospitalName:      l.HospitalName,
		HospitalCity:      l.HospitalCity,
		HospitalState:     l.HospitalState,
		MinutesToHospital: l.MinutesToHospital,
		MonthlyRateCents:  l.MonthlyRateCents,
		RoomType:          string(l.RoomType),
		Tags:              l.Tags,
		Rating:            l.Rating,
		ReviewCount:       l.ReviewCount,
		MinStayNights:     l.MinStayNights,
		Windows:           windows,
		AvailableFrom:     from,
		AvailableTo:       to,
		Photos:            l.Photos,
		ThumbnailURL:      l.ThumbnailURL,
		Status:            string(l.Status),
		CreatedAt:         l.CreatedAt.UnixMilli(),
		UpdatedAt:         l.UpdatedAt.UnixMilli(),
		Version:           l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	windows := make([]domainrange.DateRange, 0, len(d.Windows))
	for _, w := range d.Windows {
		windows = append(windows, domainrange.DateRange{CheckIn: timestampToTime(w.CheckIn), CheckOut: timestampToTime(w.CheckOut)})
	}
	return &domainlistings.Listing{
		ID:                  domainlistings.ListingID(d.ID),
		Host:                domainlistings.HostID(d.Host),
		Title:               d.Title,
		Description:         d.Description,
		City:                d.City,
		State:               d.State,
		HospitalName:        d.HospitalName,
		HospitalCity:        d.HospitalCity,
		HospitalState:       d.HospitalState,
		MinutesToHospital:   d.MinutesToHospital,
		MonthlyRateCents:    d.MonthlyRateCents,
		RoomType:            domainlistings.RoomType(d.RoomType),
		Tags:                d.Tags,
		Rating:              d.Rating,
		ReviewCount:         d.ReviewCount,
		MinStayNights:       d.MinStayNights,
		AvailabilityWindows: windows,
		AvailableFrom:       timestampToTime(d.AvailableFrom),
		AvailableTo:         timestampToTime(d.AvailableTo),
		Photos:              d.Photos,
		ThumbnailURL:        d.ThumbnailURL,
		Status:              domainlistings.ListingState(d.Status),
		CreatedAt:           timestampToTime(d.CreatedAt),
		UpdatedAt:           timestampToTime(d.UpdatedAt),
		Version:             d.Version,
	}
}
