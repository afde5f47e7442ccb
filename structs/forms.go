package structs

// LoginData is the login form
type LoginData struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// RegistrationData is the registration form
type RegistrationData struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=50,personname"`
	Email           string `json:"email" validate:"required,email"`
	Mobile          string `json:"mobile" validate:"required,min=10,max=15,phone"`
	Password        string `json:"password" validate:"required,min=6,max=20,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Terms           bool   `json:"terms" validate:"accepted"`
}

// ForgotPasswordData is the password reset request form
type ForgotPasswordData struct {
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile,omitempty"`
}

// ChangePasswordData is the change password form
type ChangePasswordData struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=6"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,strongpassword,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// ProfileData is the profile editor form
type ProfileData struct {
	FullName    string `json:"fullName" validate:"required,min=3,max=50,personname"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Mobile      string `json:"mobile" validate:"required,len=10,numeric"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty" validate:"max=200"`
}

// ProfileFromIdentity seeds the profile form from an identity
func ProfileFromIdentity(i *Identity) ProfileData {
	if i == nil {
		return ProfileData{}
	}
	return ProfileData{
		FullName:    i.FullName,
		Email:       i.Email,
		Mobile:      i.Mobile,
		DateOfBirth: i.DateOfBirth,
		Gender:      i.Gender,
		Address:     i.Address,
	}
}

// DeleteAccountData confirms account removal
type DeleteAccountData struct {
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
