package registration

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExportCSVHeaderOrder(t *testing.T) {
	records := []bson.D{
		{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "p1_name", Value: "Asha"},
			{Key: "p1_email", Value: "asha@example.com"},
		},
		{
			{Key: "p1_name", Value: "Ravi"},
			{Key: "custom_q_Heard_from", Value: "Friends"},
		},
	}

	out := ExportCSV(records)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "p1_name,p1_email,custom_q_Heard_from" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != `"Asha","asha@example.com",""` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `"Ravi","","Friends"` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestExportCSVQuoting(t *testing.T) {
	records := []bson.D{
		{{Key: "note", Value: `said "hello", twice`}},
	}
	out := ExportCSV(records)
	want := "note\n\"said \"\"hello\"\", twice\""
	if out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
}

func TestExportCSVTimestamps(t *testing.T) {
	ts := time.Date(2025, 9, 14, 18, 5, 9, 0, time.Local)
	records := []bson.D{
		{{Key: "timeStamp", Value: primitive.NewDateTimeFromTime(ts)}},
	}
	out := ExportCSV(records)
	lines := strings.Split(out, "\n")
	want := `"` + ts.Format(csvTimeLayout) + `"`
	if lines[1] != want {
		t.Fatalf("cell = %q, want %q", lines[1], want)
	}
}

func TestExportCSVNestedValues(t *testing.T) {
	records := []bson.D{
		{
			{Key: "meta", Value: bson.D{{Key: "source", Value: "web"}}},
			{Key: "tags", Value: bson.A{"a", "b"}},
			{Key: "count", Value: int32(3)},
		},
	}
	out := ExportCSV(records)
	lines := strings.Split(out, "\n")
	if lines[1] != `"{""source"":""web""}","[""a"",""b""]","3"` {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Career Link":      "CareerLink",
		"  Tech  Summit  ": "TechSummit",
		"OneWord":          "OneWord",
		"tabs\tand breaks": "tabsandbreaks",
		"":                 "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
