package service

import "errors"

var (
	ErrRequiredFields        = errors.New("required field is missing")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
)
