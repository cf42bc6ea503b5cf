package storage

import "errors"

var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrRoleExists    = errors.New("role already granted")
	ErrRoleNotFound  = errors.New("role not granted")
)

var (
	ErrProjectNotFound = errors.New("gallery project not found")
	ErrPostNotFound    = errors.New("blog post not found")
	ErrSlugExists      = errors.New("blog post slug already exists")
	ErrLeadNotFound    = errors.New("lead not found")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
)
