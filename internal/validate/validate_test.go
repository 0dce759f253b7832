package validate

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"no-at-sign", false},
		{"user@", false},
		{"@example.com", false},
		{"user@example", false},
	}
	for _, tt := range tests {
		if got := Email(tt.email); got != tt.want {
			t.Errorf("Email(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abc123!@", true},
		{"Str0ng&Pass", true},
		{"abc123", false},       // too short, no upper, no special
		{"abcdefgh", false},     // no upper, digit or special
		{"ABCDEFG1!", false},    // no lower
		{"Abcdefg1", false},     // no special
		{"Abcdefg!", false},     // no digit
		{"Abc 123!", false},     // space is outside the allowed set
		{"Abcdef1#", false},     // # is not an allowed special
		{"Ab1!", false},         // too short
	}
	for _, tt := range tests {
		if got := Password(tt.password); got != tt.want {
			t.Errorf("Password(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Ada", true},
		{"OBrien", true},
		{"O'Brien", false},
		{"Mary Jane", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Name(tt.name); got != tt.want {
			t.Errorf("Name(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+2348012345678", true},
		{"2348012345678", true},
		{"+0123456789", false}, // leading zero after plus
		{"+1", false},
		{"abc", false},
	}
	for _, tt := range tests {
		if got := Phone(tt.phone); got != tt.want {
			t.Errorf("Phone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestBookingPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+2341234567890", true},
		{"08012345678", true}, // leading zero is fine here
		{"123456789", false},  // too short
		{"+1234567890123456", false},
	}
	for _, tt := range tests {
		if got := BookingPhone(tt.phone); got != tt.want {
			t.Errorf("BookingPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestAttachment(t *testing.T) {
	if err := Attachment("image/jpeg", 0, 10); err != nil {
		t.Errorf("first jpeg should pass: %v", err)
	}
	if err := Attachment("image/png", 9, 10); err != nil {
		t.Errorf("10th png should pass: %v", err)
	}
	if err := Attachment("image/jpeg", 10, 10); err == nil {
		t.Error("11th file should be rejected")
	}
	if err := Attachment("image/gif", 0, 10); err == nil {
		t.Error("gif should be rejected")
	}
	if err := Attachment("application/pdf", 0, 10); err == nil {
		t.Error("pdf should be rejected")
	}
}

func TestValidatorTags(t *testing.T) {
	v := New()

	type form struct {
		Email    string `validate:"required,nest_email"`
		Password string `validate:"required,nest_password"`
	}

	if err := v.Struct(form{Email: "user@example.com", Password: "Abc123!@"}); err != nil {
		t.Errorf("valid form rejected: %v", err)
	}
	if err := v.Struct(form{Email: "bad", Password: "Abc123!@"}); err == nil {
		t.Error("invalid email accepted")
	}
	if err := v.Struct(form{Email: "user@example.com", Password: "weak"}); err == nil {
		t.Error("weak password accepted")
	}
}
