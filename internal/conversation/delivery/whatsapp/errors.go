package whatsapp

import "errors"

var ErrNotConnected = errors.New("whatsapp: not connected")
