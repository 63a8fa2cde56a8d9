package media

import "errors"

var (
	ErrMalformedMedia = errors.New("media: malformed payload")
	ErrMediaTooLarge  = errors.New("media: payload exceeds size limit")
)
