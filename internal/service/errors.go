package service

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrTaxRateNotFound      = errors.New("tax rate not found")
	ErrTaxExemptionNotFound = errors.New("tax exemption not found")
)
