package offline

import (
	"errors"
	"fmt"
	"strings"
)

// Category names one of the fixed reference datasets kept offline.
type Category string

const (
	Monasteries       Category = "monasteries"
	Tours             Category = "tours"
	Maps              Category = "maps"
	Documents         Category = "documents"
	EmergencyContacts Category = "emergencyContacts"
)

// Categories lists every category in populate order.
var Categories = []Category{Monasteries, Tours, Maps, Documents, EmergencyContacts}

var ErrUnknownCategory = errors.New("unknown category")

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	// Accept the kebab/lower spellings a shell user is likely to type.
	norm := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "-", ""), "_", ""))
	for _, c := range Categories {
		if strings.ToLower(string(c)) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}
