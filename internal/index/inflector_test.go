// # internal/index/inflector_test.go
package index

import (
	"testing"
)

func TestCamelize(t *testing.T) {
	inf := NewInflector(nil)

	cases := map[string]string{
		"order":       "Order",
		"order_item":  "OrderItem",
		"s3_bucket":   "S3Bucket",
		"a__b":        "AB",
		"":            "",
		"api_client":  "ApiClient",
		"httparty":    "Httparty",
		"under_score": "UnderScore",
	}
	for in, want := range cases {
		if got := inf.Camelize(in); got != want {
			t.Errorf("Camelize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCamelize_Acronyms(t *testing.T) {
	inf := NewInflector([]string{"API", "CSV", "HTML"})

	cases := map[string]string{
		"api_client":     "APIClient",
		"csv_importer":   "CSVImporter",
		"html_sanitizer": "HTMLSanitizer",
		"order":          "Order",
	}
	for in, want := range cases {
		if got := inf.Camelize(in); got != want {
			t.Errorf("Camelize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnderscore(t *testing.T) {
	inf := NewInflector(nil)

	cases := map[string]string{
		"Order":     "order",
		"OrderItem": "order_item",
		"S3Bucket":  "s3_bucket",
		"ApiClient": "api_client",
	}
	for in, want := range cases {
		if got := inf.Underscore(in); got != want {
			t.Errorf("Underscore(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnderscore_Acronyms(t *testing.T) {
	inf := NewInflector([]string{"API", "CSV"})

	cases := map[string]string{
		"APIClient":   "api_client",
		"CSVImporter": "csv_importer",
		"MyAPI":       "my_api",
	}
	for in, want := range cases {
		if got := inf.Underscore(in); got != want {
			t.Errorf("Underscore(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInflector_RoundTrip(t *testing.T) {
	inf := NewInflector([]string{"API"})

	words := []string{"order", "order_item", "api_client", "s3_bucket", "invoice_line_item"}
	for _, w := range words {
		if got := inf.Underscore(inf.Camelize(w)); got != w {
			t.Errorf("round trip of %q produced %q", w, got)
		}
	}
}
