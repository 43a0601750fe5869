package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"UPPER@EXAMPLE.COM", true},
		{"user@example", false},
		{"user@sub.example.com", true},
		{"@example.com", false},
		{"user example.com", false},
		{"user@example.c", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Email(tc.value), "value=%q", tc.value)
	}
}

func TestPassword(t *testing.T) {
	assert.Empty(t, Password("Sufficient1"))

	problems := Password("short")
	assert.Contains(t, problems, PasswordTooShort)
	assert.Contains(t, problems, PasswordNeedsUpper)
	assert.Contains(t, problems, PasswordNeedsDigit)

	assert.Contains(t, Password("alllowercase1"), PasswordNeedsUpper)
	assert.Contains(t, Password("ALLUPPERCASE1"), PasswordNeedsLower)
	assert.Contains(t, Password("NoDigitsHere"), PasswordNeedsDigit)
}

func TestContactNumber(t *testing.T) {
	assert.True(t, ContactNumber("9990001111"))
	assert.True(t, ContactNumber("(999) 000-1111"))
	assert.True(t, ContactNumber("999-000-1111"))
	assert.False(t, ContactNumber("12345"))
	assert.False(t, ContactNumber("99900011112"))
	assert.False(t, ContactNumber(""))
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type form struct {
		Email    string `validate:"store_email"`
		Password string `validate:"store_password"`
		Contact  string `validate:"contact_number"`
	}

	require.NoError(t, v.Struct(form{
		Email:    "user@example.com",
		Password: "Sufficient1",
		Contact:  "999-000-1111",
	}))

	err := v.Struct(form{Email: "bad", Password: "weak", Contact: "123"})
	require.Error(t, err)
	fields := map[string]bool{}
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = true
	}
	assert.True(t, fields["Email"])
	assert.True(t, fields["Password"])
	assert.True(t, fields["Contact"])
}
