package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csvData := `name,email,password,phone
Ada Obi,ada@example.com,changeme123,0801
Ben Eze,ben@example.com,changeme456
broken,row`

	rows, skipped, err := ParseCSV(strings.NewReader(csvData), 3)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	want := [][]string{
		{"Ada Obi", "ada@example.com", "changeme123", "0801"},
		{"Ben Eze", "ben@example.com", "changeme456"},
	}

	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ParseCSV returned %+v, want %+v", rows, want)
	}
	if skipped != 1 {
		t.Errorf("ParseCSV skipped %d rows, want 1", skipped)
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	rows, skipped, err := ParseCSV(strings.NewReader("name,email,password\n"), 3)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(rows) != 0 || skipped != 0 {
		t.Errorf("ParseCSV returned %d rows, %d skipped; want 0, 0", len(rows), skipped)
	}
}
