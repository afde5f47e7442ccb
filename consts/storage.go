package consts

// Persisted key-value storage keys
const (
	AuthTokenKey          = "auth_token"
	RefreshTokenKey       = "refresh_token"
	UserDataKey           = "user_data"
	RegistrationDataKey   = "registration_data"
	LoginDataKey          = "login_data"
	ForgotPasswordDataKey = "forgot_password_data"
	ChangePasswordDataKey = "change_password_data"
	ProfileDraftKey       = "profile_draft"
	SessionTimeoutKey     = "session_timeout"
	WarningTimeoutKey     = "warning_timeout"
)

// TimestampSuffix is appended to a draft key to name its save-time companion key.
const TimestampSuffix = "_timestamp"

// SessionKeys are removed on logout.
var SessionKeys = []string{
	AuthTokenKey,
	RefreshTokenKey,
	UserDataKey,
	SessionTimeoutKey,
	WarningTimeoutKey,
	RegistrationDataKey,
}

// FormKeys are the form payloads persisted through the draft cache.
var FormKeys = []string{
	RegistrationDataKey,
	LoginDataKey,
	ForgotPasswordDataKey,
	ChangePasswordDataKey,
	ProfileDraftKey,
}
