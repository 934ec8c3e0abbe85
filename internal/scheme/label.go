package scheme

import (
	"errors"
	"strconv"
	"strings"
)

func splitLabel(label string) ([]string, error) {
	if label == "" {
		return nil, errors.New("empty subtype label")
	}
	parts := strings.Split(label, ".")
	for _, p := range parts {
		if p == "" {
			return nil, errors.New("malformed subtype label " + strconv.Quote(label))
		}
	}
	return parts, nil
}

func joinLabel(parts []string) string { return strings.Join(parts, ".") }

// CompareLabels orders dot-delimited labels component-wise, numerically
// where both components are integers ("2.10" sorts after "2.9") and a
// prefix before its extensions.
func CompareLabels(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := compareComponent(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}

func compareComponent(a, b string) int {
	ia, ea := strconv.Atoi(a)
	ib, eb := strconv.Atoi(b)
	if ea == nil && eb == nil {
		switch {
		case ia < ib:
			return -1
		case ia > ib:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
