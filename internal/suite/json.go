package suite

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

func decodeJSONInteger(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return 0, fmt.Errorf("not an integer: %s", n)
		}
		i, err := n.Int64()
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("integer out of range: %s", n)
		}
		return i, err

	case int64:
		return n, nil

	case string:
		return strconv.ParseInt(n, 10, 64)

	default:
		return 0, fmt.Errorf("unexpected integer type %T", v)
	}
}
