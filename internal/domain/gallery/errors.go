package gallery

import "errors"

var (
	ErrItemNotFound    = errors.New("gallery item not found")
	ErrInvalidID       = errors.New("invalid gallery item id")
	ErrEmptyTitle      = errors.New("title cannot be blank")
	ErrEmptyCaption    = errors.New("caption cannot be blank")
	ErrNoImages        = errors.New("at least one image is required")
	ErrEmptyImage      = errors.New("image entry carries no payload")
	ErrImageTooLarge   = errors.New("image exceeds the configured size limit")
	ErrPayloadTooLarge = errors.New("combined image payload exceeds the request limit")
)
