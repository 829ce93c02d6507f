package app

import "github.com/go-playground/validator/v10"

// validate enforces struct tags on inputs before they reach the network.
var validate = validator.New(validator.WithRequiredStructEnabled())
