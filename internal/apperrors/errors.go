package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNotAllowed indicates a mutation the domain forbids outright, e.g. updating
// an immutable ledger record or requesting an illegal status transition.
var ErrNotAllowed = errors.New("operation not allowed")

// ErrForbidden indicates the caller lacks the permission required for the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the resource is in a state that conflicts with the request,
// e.g. approving a document that is no longer in draft.
var ErrConflict = errors.New("conflicting state")

// ErrRefreshTokenExpired indicates the presented refresh token has expired.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
