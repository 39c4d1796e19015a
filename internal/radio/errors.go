package radio

import (
	"github.com/pkg/errors"
)

// errors
var (
	ErrAlreadyExists = errors.New("radio for frequency already exists")
)
