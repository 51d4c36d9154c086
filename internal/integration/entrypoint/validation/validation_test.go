package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Vehicle  string `json:"vehicleNumber" validate:"notblank"`
	Month    string `json:"month" validate:"omitempty,yearmonth"`
	Category string `json:"category" validate:"omitempty,expensecategory"`
	Method   string `json:"paymentMethod" validate:"omitempty,paymentmethod"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{name: "valid", in: sample{Vehicle: "MH12", Month: "2024-02", Category: "Food & Drinking", Method: "UPI"}},
		{name: "blank vehicle", in: sample{Vehicle: "   "}, wantField: "vehicleNumber"},
		{name: "bad month", in: sample{Vehicle: "MH12", Month: "2024-13"}, wantField: "month"},
		{name: "bad category", in: sample{Vehicle: "MH12", Category: "Pets"}, wantField: "category"},
		{name: "bad method", in: sample{Vehicle: "MH12", Method: "Barter"}, wantField: "paymentMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) || verrs[0].Field() != tt.wantField {
				t.Fatalf("expected error on %s, got %v", tt.wantField, err)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("register: %v", err)
	}

	msg := Message(v.Struct(sample{Vehicle: "", Month: "Feb"}))
	if !strings.Contains(msg, "vehicleNumber must not be blank") || !strings.Contains(msg, "month must be in YYYY-MM format") {
		t.Errorf("message = %q", msg)
	}

	if got := Message(errors.New("unexpected EOF")); got != "unexpected EOF" {
		t.Errorf("plain errors should pass through, got %q", got)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	if err := Register(); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(); err != nil {
		t.Fatalf("second register: %v", err)
	}
}
