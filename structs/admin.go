package structs

// UserStatus filters the admin user list
type UserStatus string

const (
	StatusAll      UserStatus = ""
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// UserFilter narrows the admin user list
type UserFilter struct {
	Search string     `json:"search,omitempty" form:"search"`
	Role   Role       `json:"role,omitempty" form:"role"`
	Status UserStatus `json:"status,omitempty" form:"status"`
}

// CreateUserBody is submitted by an admin to add an account
type CreateUserBody struct {
	FullName string `json:"fullName" validate:"required,min=2,max=50,personname"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile,omitempty"`
	Role     Role   `json:"role"`
	Password string `json:"password" validate:"required,min=6"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// UpdateUserBody is a partial update; nil fields are left unchanged
type UpdateUserBody struct {
	FullName        *string `json:"fullName,omitempty"`
	Email           *string `json:"email,omitempty"`
	Mobile          *string `json:"mobile,omitempty"`
	Role            *Role   `json:"role,omitempty"`
	IsActive        *bool   `json:"isActive,omitempty"`
	IsEmailVerified *bool   `json:"isEmailVerified,omitempty"`
	DateOfBirth     *string `json:"dateOfBirth,omitempty"`
	Gender          *string `json:"gender,omitempty"`
	Address         *string `json:"address,omitempty"`
}

// UpdateFromProfile converts the profile form into a partial update
func UpdateFromProfile(p ProfileData) UpdateUserBody {
	return UpdateUserBody{
		FullName:    &p.FullName,
		Email:       &p.Email,
		Mobile:      &p.Mobile,
		DateOfBirth: &p.DateOfBirth,
		Gender:      &p.Gender,
		Address:     &p.Address,
	}
}

// UserStats summarizes the directory for the admin dashboard
type UserStats struct {
	TotalUsers       int `json:"totalUsers"`
	ActiveUsers      int `json:"activeUsers"`
	InactiveUsers    int `json:"inactiveUsers"`
	NewRegistrations int `json:"newRegistrations"`
	AdminAccounts    int `json:"adminAccounts"`
}

// ResetPasswordResult carries an admin-issued temporary password
type ResetPasswordResult struct {
	Message           string `json:"message"`
	TemporaryPassword string `json:"temporaryPassword"`
}
