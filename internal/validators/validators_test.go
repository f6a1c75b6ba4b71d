package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp(t *testing.T) {
	tests := []struct {
		name   string
		req    SignUpRequest
		fields []string
	}{
		{name: "valid passenger", req: SignUpRequest{Email: " Rider@Example.com ", Password: "secret1", Role: "Passenger"}},
		{name: "valid driver", req: SignUpRequest{Email: "d@example.com", Password: "secret1", Role: "driver"}},
		{name: "admin not allowed", req: SignUpRequest{Email: "a@example.com", Password: "secret1", Role: "admin"}, fields: []string{"role"}},
		{name: "short password", req: SignUpRequest{Email: "a@example.com", Password: "abc", Role: "driver"}, fields: []string{"password"}},
		{name: "bad email", req: SignUpRequest{Email: "nope", Password: "secret1", Role: "driver"}, fields: []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			errs := ValidateSignUp(&req)
			if len(tt.fields) == 0 {
				assert.Empty(t, errs)
				return
			}
			for _, field := range tt.fields {
				assert.Contains(t, errs.Fields(), field)
			}
		})
	}
}

func TestValidateSignUpNormalizes(t *testing.T) {
	req := SignUpRequest{Email: " Rider@Example.com ", Password: "secret1", Role: " Driver "}

	require.Empty(t, ValidateSignUp(&req))
	assert.Equal(t, "rider@example.com", req.Email)
	assert.Equal(t, "driver", req.Role)
}

func TestValidateProfileUpdate(t *testing.T) {
	req := ProfileUpdateRequest{FullName: "  ", Phone: "call me", Address: "1 Main St"}

	errs := ValidateProfileUpdate(&req)

	fields := errs.Fields()
	assert.Equal(t, "full_name is required", fields["full_name"])
	assert.Equal(t, "Invalid phone number format", fields["phone"])
	assert.NotContains(t, fields, "address")

	ok := ProfileUpdateRequest{FullName: "Jane", Phone: "+1 (416) 555-0100", Address: "1 Main St"}
	assert.Empty(t, ValidateProfileUpdate(&ok))
}

func TestValidatePostRide(t *testing.T) {
	req := PostRideRequest{Origin: " Toronto ", Destination: "Ottawa", Date: "2024-06-01", Seats: 3, Price: 45}
	require.Empty(t, ValidatePostRide(&req))
	assert.Equal(t, "Toronto", req.Origin)
	assert.Equal(t, "2024-06-01", req.Day().Format("2006-01-02"))

	bad := PostRideRequest{Origin: "Toronto", Destination: "", Date: "June 1st", Seats: 0, Price: -1}
	fields := ValidatePostRide(&bad).Fields()
	assert.Contains(t, fields, "destination")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "seats")
	assert.Contains(t, fields, "price")
}

func TestDayQuery(t *testing.T) {
	assert.Nil(t, (&DayQuery{}).Day())

	q := DayQuery{Date: "2024-06-01"}
	require.Empty(t, ValidateStruct(&q))
	require.NotNil(t, q.Day())
	assert.Equal(t, 1, q.Day().Day())

	assert.NotEmpty(t, ValidateStruct(&DayQuery{Date: "01/06/2024"}))
}

func TestObjectIDValidation(t *testing.T) {
	assert.Empty(t, ValidateStruct(&CreateBookingRequest{RideID: "665f1b2c3d4e5f6a7b8c9d0e"}))

	fields := ValidateStruct(&CreateBookingRequest{RideID: "ride-1"}).Fields()
	assert.Equal(t, "Invalid ID format", fields["ride_id"])
}

func TestValidateBroadcastDefaultsAudience(t *testing.T) {
	req := BroadcastRequest{Title: "Maintenance", Message: "Back soon"}
	require.Empty(t, ValidateBroadcast(&req))
	assert.Equal(t, "all", req.Audience)

	bad := BroadcastRequest{Title: "x", Message: "y", Audience: "pilots"}
	assert.Contains(t, ValidateBroadcast(&bad).Fields(), "audience")
}

func TestUserListQueryRole(t *testing.T) {
	assert.Empty(t, ValidateStruct(&UserListQuery{}))
	assert.Empty(t, ValidateStruct(&UserListQuery{Role: "driver"}))
	assert.NotEmpty(t, ValidateStruct(&UserListQuery{Role: "pilot"}))
}

func TestSendMessageRejectsBlank(t *testing.T) {
	assert.NotEmpty(t, ValidateStruct(&SendMessageRequest{Content: " \n "}))
	assert.Empty(t, ValidateStruct(&SendMessageRequest{Content: "On my way"}))
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"RideID":      "ride_id",
		"OtherUserID": "other_user_id",
		"FullName":    "full_name",
		"FCMToken":    "fcm_token",
		"Date":        "date",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}
