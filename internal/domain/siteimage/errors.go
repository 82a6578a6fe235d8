package siteimage

import "errors"

var (
	ErrUnknownKey    = errors.New("unknown site image key")
	ErrImageNotFound = errors.New("site image not found")
	ErrImageTooLarge = errors.New("site image exceeds the size limit")
	ErrEmptyImage    = errors.New("site image carries no payload")
)
