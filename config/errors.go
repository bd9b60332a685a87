package config

import "errors"

var errMissingSecret = errors.New("JWT_SECRET must be set in production")
