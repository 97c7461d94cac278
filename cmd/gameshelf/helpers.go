package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gameshelf/internal/library"
	"gameshelf/internal/textutil"
)

const dateLayout = "2006-01-02"

func formatMoney(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *price)
}

func formatDate(when *time.Time) string {
	if when == nil {
		return "-"
	}
	return when.Format(dateLayout)
}

func formatCondition(condition library.Condition) string {
	return textutil.Ternary(condition == "", "-", string(condition))
}

// parseDateFlag accepts YYYY-MM-DD. An empty value means unset.
func parseDateFlag(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	when, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("date %q must be YYYY-MM-DD", value)
	}
	return &when, nil
}

// parseConditionFlag maps user shorthand onto a canonical condition. An
// empty value means unset.
func parseConditionFlag(value string) (library.Condition, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	condition, ok := library.ParseCondition(value)
	if !ok {
		return "", fmt.Errorf("condition %q is not loose, complete, or new (cib and sealed are accepted shorthand)", value)
	}
	return condition, nil
}

func parseGameID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid game id", arg)
	}
	return id, nil
}

func sourceLabel(source library.Source) string {
	return textutil.Ternary(source == library.SourceWanted, "wishlist", "owned")
}
