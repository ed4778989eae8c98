package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound   = errors.New("PRODUCT_NOT_FOUND")
	ErrSiteNotFound      = errors.New("SITE_NOT_FOUND")
	ErrSaleNotFound      = errors.New("SALE_NOT_FOUND")
	ErrCategoryNotFound  = errors.New("CATEGORY_NOT_FOUND")
	ErrDuplicateCUG      = errors.New("DUPLICATE_CUG")
	ErrInvalidCUG        = errors.New("INVALID_CUG")
	ErrInvalidQuantity   = errors.New("INVALID_QUANTITY")
	ErrInvalidMovement   = errors.New("INVALID_MOVEMENT_TYPE")
	ErrPriceBelowCost    = errors.New("SELLING_PRICE_BELOW_COST")
	ErrEmptySale         = errors.New("EMPTY_SALE")
	ErrInvalidCredential = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive   = errors.New("ACCOUNT_INACTIVE")
	ErrProductInactive   = errors.New("PRODUCT_INACTIVE")
)
