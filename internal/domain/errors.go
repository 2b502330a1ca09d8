package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEmptyImage is returned when an uploaded receipt image has no content
	ErrEmptyImage = errors.New("receipt image is empty")

	// ErrOCRFailure is returned when the OCR engine cannot read a receipt image
	ErrOCRFailure = errors.New("OCR extraction failed")

	// ErrGrocyAPIFailure is returned when a Grocy API request fails
	ErrGrocyAPIFailure = errors.New("Grocy API request failed")

	// ErrCatalogUnavailable is returned when the product catalog cannot be fetched
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	// ErrProductNotFound is returned when Grocy does not know a product id
	ErrProductNotFound = errors.New("product not found in Grocy")

	// ErrStoreNotFound is returned when no shopping location matches a shop name
	ErrStoreNotFound = errors.New("shopping location not found")

	// ErrMappingStoreFailure is returned when learned mappings cannot be loaded or saved
	ErrMappingStoreFailure = errors.New("mapping store failure")
)
