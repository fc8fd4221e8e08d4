package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
)

var (
	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already exists",
	)

	ErrInvalidCredential = commonerrors.NewDomainError(
		"INVALID_CREDENTIAL",
		commonerrors.CategoryInvalidCredential,
		http.StatusBadRequest,
		"old password does not match",
	)

	ErrInvalidRole = commonerrors.NewDomainError(
		"INVALID_ROLE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid role",
	)

	ErrRegistrationFailed = commonerrors.NewDomainError(
		"REGISTRATION_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"registration failed",
	)

	ErrDeleteFailed = commonerrors.NewDomainError(
		"DELETE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"delete failed",
	)
)
