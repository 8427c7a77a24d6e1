package app

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"travel_booking/internal/domain"
)

const validationFailed = "Validation failed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// integral: a number without a fractional part
	if err := v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			x := f.Float()
			return !math.IsInf(x, 0) && x == math.Trunc(x)
		default:
			return true
		}
	}); err != nil {
		panic(err)
	}
	// objectid: 24 hex digits in either case, as accepted by the store
	if err := v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Messages per JSON path; array indexes are collapsed to [].
var destinationMessages = map[string]string{
	"name":                  "Destination name is required",
	"country":               "Country is required",
	"description":           "Description is required",
	"coordinates.latitude":  "Valid latitude is required",
	"coordinates.longitude": "Valid longitude is required",
}

var hotelMessages = map[string]string{
	"name":                           "Hotel name is required",
	"destinationId":                  "Valid destination ID is required",
	"address":                        "Address is required",
	"pricePerNight":                  "Valid price per night is required",
	"starRating":                     "Star rating must be between 1 and 5",
	"guestRating":                    "Guest rating must be between 0 and 5",
	"roomCategories[].categoryName":  "Room category name is required",
	"roomCategories[].pricePerNight": "Valid room category price per night is required",
	"roomCategories[].maxOccupancy":  "Room category max occupancy must be at least 1",
}

var indexRe = regexp.MustCompile(`\[\d+\]`)

// checkStruct runs the struct tags of v and converts failures into a
// ValidationError with one entry per field, in declaration order.
func checkStruct(v any, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{Message: validationFailed}
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   path,
			Message: messageFor(messages, path),
			Value:   fe.Value(),
		})
	}
	return out
}

func messageFor(messages map[string]string, path string) string {
	if m, ok := messages[indexRe.ReplaceAllString(path, "[]")]; ok {
		return m
	}
	return "Invalid value"
}

// DecodeError converts a JSON decoding failure of a request body into a
// ValidationError. Type mismatches are reported against their field.
func DecodeError(err error, resource string) *domain.ValidationError {
	messages := destinationMessages
	if resource == "hotel" {
		messages = hotelMessages
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		return &domain.ValidationError{
			Message: validationFailed,
			Fields:  []domain.FieldError{{Field: te.Field, Message: messageFor(messages, te.Field), Value: te.Value}},
		}
	}
	return &domain.ValidationError{
		Message: validationFailed,
		Fields:  []domain.FieldError{{Field: "body", Message: "Request body must be a JSON object"}},
	}
}

func normalizeDestination(in *domain.DestinationInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Country = strings.TrimSpace(in.Country)
}

func normalizeHotel(in *domain.HotelInput) {
	in.Name = strings.TrimSpace(in.Name)
	// ids are stored and compared in lowercase hex
	in.DestinationID = strings.ToLower(in.DestinationID)
}

func validateDestination(in *domain.DestinationInput) error {
	normalizeDestination(in)
	return checkStruct(in, destinationMessages)
}

func validateHotel(in *domain.HotelInput) error {
	normalizeHotel(in)
	return checkStruct(in, hotelMessages)
}
