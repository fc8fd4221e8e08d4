package weather

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/tada/internal/common/errors"
)

var (
	ErrCityRequired = commonerrors.NewDomainError(
		"CITY_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"city is required",
	)

	ErrCityNotFound = commonerrors.NewDomainError(
		"CITY_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"city not found",
	)

	ErrUpstream = commonerrors.NewDomainError(
		"WEATHER_UPSTREAM_ERROR",
		commonerrors.CategoryExternal,
		http.StatusBadGateway,
		"weather service returned an error",
	)

	ErrNotConfigured = commonerrors.NewDomainError(
		"WEATHER_NOT_CONFIGURED",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"weather service is not configured",
	)
)
