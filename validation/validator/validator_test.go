package validator

import (
	"errors"
	"testing"

	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	ok := &structs.RegistrationData{
		FullName:        "Jane Smith",
		Email:           "jane@example.com",
		Mobile:          "+1 (555) 123-4567",
		Password:        "Secret1",
		ConfirmPassword: "Secret1",
		Terms:           true,
	}
	assert.NoError(t, Validate(ok))

	bad := *ok
	bad.FullName = "J4ne"
	bad.Mobile = "555-CALL-NOW"
	bad.Password = "secret1"
	bad.ConfirmPassword = "other"
	bad.Terms = false

	err := Validate(&bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecode.ErrValidation))

	var ve *ecode.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Field("fullName"), "letters and spaces")
	assert.NotEmpty(t, ve.Field("mobile"))
	assert.Contains(t, ve.Field("password"), "uppercase")
	assert.Contains(t, ve.Field("confirmPassword"), "password")
	assert.Contains(t, ve.Field("terms"), "accepted")
}

func TestValidateProfile(t *testing.T) {
	p := structs.ProfileData{FullName: "Al", Email: "al@example.com", Mobile: "12345"}
	fields := ValidateStruct(p)
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "mobile")
	assert.NotContains(t, fields, "email")

	p.FullName = "Alan Turing"
	p.Mobile = "5551234567"
	assert.Empty(t, ValidateStruct(&p))
}

func TestValidateChangePassword(t *testing.T) {
	d := &structs.ChangePasswordData{
		CurrentPassword: "Old@Pass1",
		NewPassword:     "Old@Pass1",
		ConfirmPassword: "Old@Pass1",
	}
	fields := ValidateStruct(d)
	assert.Contains(t, fields["newPassword"], "differ")

	d.NewPassword = "NewPass12"
	d.ConfirmPassword = "NewPass12"
	fields = ValidateStruct(d)
	assert.Contains(t, fields["newPassword"], "@$!%*?&")

	d.NewPassword = "New@Pass12"
	d.ConfirmPassword = "New@Pass12"
	assert.NoError(t, Validate(d))
}

func TestMessagesInChinese(t *testing.T) {
	fields := ValidateStruct(&structs.LoginData{}, "zh")
	assert.Equal(t, "字段 'email' 为必填项。", fields["email"])
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		label    string
	}{
		{"", 0, "Very Weak"},
		{"abc", 1, "Weak"},
		{"abcdefgh", 2, "Fair"},
		{"abcdefG1", 4, "Strong"},
		{"abcdefG1@", 5, "Very Strong"},
		{"abcdefG1@xyz", 6, "Excellent"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s := PasswordStrength(tt.password)
			assert.Equal(t, tt.score, s.Score)
			assert.Equal(t, tt.label, s.Label)
		})
	}
}
