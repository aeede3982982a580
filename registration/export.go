package registration

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// csvTimeLayout matches the dashboard's locale-string rendering of
// timestamps, e.g. "9/14/2025, 6:05:09 PM".
const csvTimeLayout = "1/2/2006, 3:04:05 PM"

// ExportCSV renders raw registration documents as CSV. The header row is
// the union of all document keys in first-seen order, every value is
// double-quoted with embedded quotes doubled, timestamps become locale
// strings and nested documents are JSON-stringified. Documents must be
// decoded as bson.D so field order survives.
func ExportCSV(records []bson.D) string {
	var headers []string
	seen := map[string]bool{}
	for _, rec := range records {
		for _, el := range rec {
			if el.Key == "_id" || seen[el.Key] {
				continue
			}
			seen[el.Key] = true
			headers = append(headers, el.Key)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, rec := range records {
		values := map[string]interface{}{}
		for _, el := range rec {
			values[el.Key] = el.Value
		}
		cells := make([]string, 0, len(headers))
		for _, h := range headers {
			cells = append(cells, csvQuote(csvValue(values[h])))
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(cells, ","))
	}
	return b.String()
}

func csvValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case primitive.DateTime:
		return t.Time().Local().Format(csvTimeLayout)
	case time.Time:
		return t.Local().Format(csvTimeLayout)
	case bson.D:
		data, err := json.Marshal(t.Map())
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	case bson.M, bson.A, []interface{}:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
