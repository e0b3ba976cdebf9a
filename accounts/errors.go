package accounts

import (
	goerrors "github.com/goliatone/go-errors"

	"github.com/rootlinehq/rootline/auth"
)

// ErrDuplicateEmail is returned when registration hits an email that already
// has an account. The HTTP boundary maps it to a plain bad request.
var ErrDuplicateEmail = goerrors.New("an account with this email already exists", goerrors.CategoryConflict).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(auth.TextCodeDuplicateEmail)

// ErrResetNotFound covers reset tokens that do not exist.
var ErrResetNotFound = goerrors.New("invalid or expired password reset token", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrResetAlreadyUsed covers single-use reset tokens presented twice.
var ErrResetAlreadyUsed = goerrors.New("password reset token has already been used", goerrors.CategoryConflict).
	WithTextCode("TOKEN_ALREADY_USED")

// ErrResetExpired covers reset tokens past their 24h window.
var ErrResetExpired = goerrors.New("password reset token has expired", goerrors.CategoryValidation).
	WithTextCode(auth.TextCodeTokenExpired)
