package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
)

var (
	ErrTodoNotFound = commonerrors.NewDomainError(
		"TODO_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"todo not found",
	)

	ErrNotOwner = commonerrors.NewDomainError(
		"TODO_PERMISSION_DENIED",
		commonerrors.CategoryPermissionDenied,
		http.StatusForbidden,
		"todo belongs to another user",
	)

	ErrOwnerNotFound = commonerrors.NewDomainError(
		"OWNER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"owner not found",
	)
)
