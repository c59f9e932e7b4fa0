// # internal/index/index_test.go
package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# ruby\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuild_MapsFilesToNamespacePaths(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/order.rb")
	writeFile(t, tmp, "app/models/billing/invoice.rb")
	writeFile(t, tmp, "app/services/payment_processor.rb")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots: []Root{
			{Dir: "app/models"},
			{Dir: "app/services"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	file, ok := ix.DefiningFile("Order")
	if !ok || file != "app/models/order.rb" {
		t.Errorf("Order -> (%q, %v), want app/models/order.rb", file, ok)
	}
	file, ok = ix.DefiningFile("Billing::Invoice")
	if !ok || file != "app/models/billing/invoice.rb" {
		t.Errorf("Billing::Invoice -> (%q, %v)", file, ok)
	}
	file, ok = ix.DefiningFile("PaymentProcessor")
	if !ok || file != "app/services/payment_processor.rb" {
		t.Errorf("PaymentProcessor -> (%q, %v)", file, ok)
	}

	// Directory without its own .rb file is a known namespace node but has
	// no defining file.
	if !ix.Known("Billing") {
		t.Error("Billing should be a known namespace")
	}
	if _, ok := ix.DefiningFile("Billing"); ok {
		t.Error("Billing has no defining file")
	}

	if ix.Known("Unrelated") {
		t.Error("Unrelated should not be known")
	}
}

func TestBuild_NamespaceDirWithDefiningFile(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/billing.rb")
	writeFile(t, tmp, "app/models/billing/invoice.rb")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots:       []Root{{Dir: "app/models"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	file, ok := ix.DefiningFile("Billing")
	if !ok || file != "app/models/billing.rb" {
		t.Errorf("Billing -> (%q, %v), want app/models/billing.rb", file, ok)
	}
}

func TestBuild_BaseNamespace(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "engines/admin/app/models/report.rb")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots:       []Root{{Dir: "engines/admin/app/models", Namespace: "Admin"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	file, ok := ix.DefiningFile("Admin::Report")
	if !ok || file != "engines/admin/app/models/report.rb" {
		t.Errorf("Admin::Report -> (%q, %v)", file, ok)
	}
	if !ix.Known("Admin") {
		t.Error("base namespace Admin should be known")
	}
	if ix.Known("Report") {
		t.Error("Report must not be visible outside the base namespace")
	}
}

func TestBuild_Acronyms(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/services/api_client.rb")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots:       []Root{{Dir: "app/services"}},
		Acronyms:    []string{"API"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := ix.DefiningFile("APIClient"); !ok {
		t.Error("expected APIClient entry from api_client.rb")
	}
	if ix.Known("ApiClient") {
		t.Error("ApiClient should not exist when API is an acronym")
	}
}

func TestBuild_CollisionIsAnError(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/order.rb")
	writeFile(t, tmp, "lib/order.rb")

	_, err := Build(Options{
		ProjectRoot: tmp,
		Roots: []Root{
			{Dir: "app/models"},
			{Dir: "lib"},
		},
	})
	if err == nil {
		t.Fatal("expected collision error")
	}
	if !strings.Contains(err.Error(), "namespace collision") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "Order") {
		t.Errorf("error should name the colliding path: %v", err)
	}
}

func TestBuild_ExcludesAndGitignore(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/order.rb")
	writeFile(t, tmp, "app/models/concerns/order_spec.rb")
	writeFile(t, tmp, "app/models/generated/schema.rb")

	if err := os.WriteFile(filepath.Join(tmp, ".gitignore"), []byte("app/models/generated/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ix, err := Build(Options{
		ProjectRoot:  tmp,
		Roots:        []Root{{Dir: "app/models"}},
		ExcludeFiles: []string{"*_spec.rb"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !ix.Known("Order") {
		t.Error("Order should survive the excludes")
	}
	if ix.Known("Concerns::OrderSpec") {
		t.Error("excluded file pattern should not be indexed")
	}
	if ix.Known("Generated::Schema") {
		t.Error("gitignored directory should not be indexed")
	}
}

func TestBuild_ExcludeDirs(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/order.rb")
	writeFile(t, tmp, "app/models/node_modules/junk.rb")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots:       []Root{{Dir: "app/models"}},
		ExcludeDirs: []string{"node_modules"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if ix.Known("NodeModules::Junk") {
		t.Error("excluded directory should not be indexed")
	}
	if ix.Known("NodeModules") {
		t.Error("excluded directory should not register a namespace node")
	}
}

func TestBuild_NonRubyFilesIgnored(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/order.rb")
	writeFile(t, tmp, "app/models/readme.md")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots:       []Root{{Dir: "app/models"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if ix.Known("Readme") {
		t.Error("non-ruby files must not be indexed")
	}
	if ix.Len() != 1 {
		t.Errorf("expected 1 entry, got %d: %v", ix.Len(), ix.Entries())
	}
}

func TestEntries_Sorted(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "app/models/zebra.rb")
	writeFile(t, tmp, "app/models/apple.rb")

	ix, err := Build(Options{
		ProjectRoot: tmp,
		Roots:       []Root{{Dir: "app/models"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	entries := ix.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "Apple" || entries[1].Path != "Zebra" {
		t.Errorf("entries not sorted: %v", entries)
	}
}
