package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

var (
	niNumberRe = regexp.MustCompile(`^[A-CEGHJ-PR-TW-Z][A-CEGHJ-NPR-TW-Z][0-9]{6}[A-D]$`)
	sortCodeRe = regexp.MustCompile(`^[0-9]{6}$`)
)

func init() {
	// Report field names from json tags so error paths match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// UK National Insurance number, ignoring spaces and case.
	_ = v.RegisterValidation("uk_ni", func(fl validator.FieldLevel) bool {
		ni := strings.ToUpper(strings.ReplaceAll(fl.Field().String(), " ", ""))
		return niNumberRe.MatchString(ni)
	})

	// UK sort code: 6 digits, optionally separated by dashes or spaces.
	_ = v.RegisterValidation("uk_sort_code", func(fl validator.FieldLevel) bool {
		sc := strings.NewReplacer("-", "", " ", "").Replace(fl.Field().String())
		return sortCodeRe.MatchString(sc)
	})
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// FieldPaths validates the struct and returns the dotted path of every
// violating field, e.g. "tenant_details.full_name: required". A nil slice
// means the struct passed tag validation.
func FieldPaths(s interface{}) ([]string, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}
	paths := make([]string, 0, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		// Trim the root struct name so callers see paths relative to the payload.
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		paths = append(paths, fmt.Sprintf("%s: %s", ns, fe.Tag()))
	}
	return paths, nil
}

// NormaliseSortCode rewrites a valid UK sort code into 12-34-56 form.
func NormaliseSortCode(sc string) string {
	digits := strings.NewReplacer("-", "", " ", "").Replace(sc)
	if len(digits) != 6 {
		return sc
	}
	return fmt.Sprintf("%s-%s-%s", digits[0:2], digits[2:4], digits[4:6])
}
