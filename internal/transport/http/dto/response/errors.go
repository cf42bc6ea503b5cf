package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid email or password",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Status:  "error",
		Error:   "authentication_required",
		Details: "Sign in to continue",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
