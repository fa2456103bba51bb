package listings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"shiftstay/internal/app/commands"
	"shiftstay/internal/app/outbox"
	"shiftstay/internal/app/policies"
	"shiftstay/internal/app/uow"
	domainlistings "shiftstay/internal/domain/listings"
)

const attachPhotoKey = "listings.attach_photo"

var ErrPhotoStorageUnavailable = errors.New("listings: photo storage unavailable")

type AttachPhotoCommand struct {
	ListingID   string
	HostID      string
	FileName    string
	ContentType string
	Data        []byte
}

func (c AttachPhotoCommand) Key() string { return attachPhotoKey }

type AttachPhotoResult struct {
	URL string `json:"url"`
}

// AttachPhotoHandler uploads the photo to object storage, then appends the
// resulting URL to the listing. The first photo becomes the thumbnail.
type AttachPhotoHandler struct {
	UoWFactory uow.UoWFactory
	Storage    policies.PhotoStorage
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AttachPhotoHandler) Handle(ctx context.Context, cmd AttachPhotoCommand) (*AttachPhotoResult, error) {
	if h.Storage == nil {
		return nil, ErrPhotoStorageUnavailable
	}

	key := fmt.Sprintf("listings/%s/%d-%s", cmd.ListingID, time.Now().UnixNano(), cmd.FileName)
	url, err := h.Storage.Upload(ctx, key, bytes.NewReader(cmd.Data), int64(len(cmd.Data)), cmd.ContentType)
	if err != nil {
		return nil, err
	}

	_, err = mutate(ctx, h.UoWFactory, h.Outbox, h.Encoder, func(ctx context.Context, unit uow.UnitOfWork) (*domainlistings.Listing, error) {
		listing, err := ownedListing(ctx, unit, cmd.ListingID, cmd.HostID)
		if err != nil {
			return nil, err
		}
		listing.AttachPhoto(url, time.Now().UTC())
		return listing, nil
	})
	if err != nil {
		// the uploaded object is orphaned once the listing update fails
		_ = h.Storage.Remove(ctx, key)
		return nil, err
	}
	return &AttachPhotoResult{URL: url}, nil
}

var _ commands.Handler[AttachPhotoCommand, *AttachPhotoResult] = (*AttachPhotoHandler)(nil)
