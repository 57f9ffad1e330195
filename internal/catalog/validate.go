package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrDuplicateKey is returned when a key appears twice in the key namespace.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidKey is returned for keys that do not start with a letter,
	// contain whitespace, or shadow a reserved query token.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidRecord is returned when a record fails field validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrUnknownCompanion is returned when a co-occurrence key names no monster.
	ErrUnknownCompanion = errors.New("unknown co-occurrence key")

	// ErrSelfCompanion is returned when a monster lists itself as co-occurring.
	ErrSelfCompanion = errors.New("monster co-occurs with itself")
)

var validKeyRe = regexp.MustCompile(`^[A-Za-z]\S*$`)

// recordValidate is shared by all record checks.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New()
	if err := recordValidate.RegisterValidation("entitykey", validateEntityKey); err != nil {
		panic(err)
	}
}

func validateEntityKey(fl validator.FieldLevel) bool {
	return IsValidKey(fl.Field().String())
}

// IsValidKey reports whether key may be used for a group or a monster.
// Valid keys begin with a letter and contain no whitespace; "x" and "c"
// are reserved in either case.
func IsValidKey(key string) bool {
	switch strings.ToLower(key) {
	case ExperienceKey, PartySizeKey:
		return false
	}
	return validKeyRe.MatchString(key)
}

// validateRecord runs struct validation and maps a failing key rule to
// ErrInvalidKey so callers can tell the two apart.
func validateRecord(source string, record interface{}, key string) error {
	err := recordValidate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: validate %q: %w", source, key, err)
	}
	for _, fe := range verrs {
		if fe.Field() == "Key" {
			return fmt.Errorf("%s: %w %q", source, ErrInvalidKey, key)
		}
	}
	fe := verrs[0]
	return fmt.Errorf("%s: %w %q: field %s failed %q", source, ErrInvalidRecord, key, fe.Field(), fe.Tag())
}
