// # internal/extract/extract_test.go
package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"implicit/internal/index"
	"implicit/internal/parser"
	"implicit/internal/resolver"
)

// newProject lays out a small Rails-like app and returns an extractor
// over it.
func newProject(t *testing.T, files map[string]string) (*Extractor, string) {
	t.Helper()
	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	ix, err := index.Build(index.Options{
		ProjectRoot: root,
		Roots:       []index.Root{{Dir: "app/models"}},
	})
	require.NoError(t, err)

	return New(parser.DefaultRegistry(), resolver.New(ix), root), root
}

func TestExtractSource_ResolvesAgainstIndex(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\nend\n",
	})

	refs, err := e.ExtractSource([]byte("Order.find(1)\n"))
	require.NoError(t, err)
	require.Len(t, refs, 1)

	assert.Equal(t, "Order", refs[0].Constant.Path)
	assert.Equal(t, "app/models/order.rb", refs[0].Constant.File)
	assert.Equal(t, SnippetPath, refs[0].FilePath)
	assert.Equal(t, 1, refs[0].Span.StartLine)
	assert.Equal(t, 1, refs[0].Span.StartCol)
}

func TestExtractSource_UnknownConstantOmitted(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\nend\n",
	})

	refs, err := e.ExtractSource([]byte("SomeGemClass.configure\n"))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestExtractSource_EmptyInput(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\nend\n",
	})

	refs, err := e.ExtractSource(nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestExtractFile_NestedScopeFallback(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb":           "class Order\nend\n",
		"app/models/billing/invoice.rb": "module Billing\n  class Invoice\n    def order\n      Order.find(order_id)\n    end\n  end\nend\n",
		"app/models/billing/order.rb":   "module Billing\n  class Order\n  end\nend\n",
	})

	refs, err := e.ExtractFile("app/models/billing/invoice.rb")
	require.NoError(t, err)
	require.Len(t, refs, 1)

	// Inside Billing::Invoice a bare Order is the sibling, not the
	// top-level model.
	assert.Equal(t, "Billing::Order", refs[0].Constant.Path)
	assert.Equal(t, "app/models/billing/order.rb", refs[0].Constant.File)
	assert.Equal(t, "app/models/billing/invoice.rb", refs[0].FilePath)
	assert.Equal(t, 4, refs[0].Span.StartLine)
}

func TestExtractFile_RootAnchoredSkipsScope(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb":           "class Order\nend\n",
		"app/models/billing/order.rb":   "module Billing\n  class Order\n  end\nend\n",
		"app/models/billing/invoice.rb": "module Billing\n  class Invoice\n    def order\n      ::Order.find(order_id)\n    end\n  end\nend\n",
	})

	refs, err := e.ExtractFile("app/models/billing/invoice.rb")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Order", refs[0].Constant.Path)
	assert.Equal(t, "app/models/order.rb", refs[0].Constant.File)
}

func TestExtractFile_ERBTemplate(t *testing.T) {
	e, root := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\nend\n",
	})
	viewPath := filepath.Join(root, "app", "views", "orders.html.erb")
	require.NoError(t, os.MkdirAll(filepath.Dir(viewPath), 0755))
	require.NoError(t, os.WriteFile(viewPath, []byte("<ul>\n<% Order.all.each do |o| %>\n<li><%= o.id %></li>\n<% end %>\n</ul>\n"), 0644))

	refs, err := e.ExtractFile("app/views/orders.html.erb")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Order", refs[0].Constant.Path)
	assert.Equal(t, "app/views/orders.html.erb", refs[0].FilePath)
	assert.Equal(t, 2, refs[0].Span.StartLine)
}

func TestExtractFile_MissingFileYieldsEmpty(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\nend\n",
	})

	refs, err := e.ExtractFile("app/models/ghost.rb")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestExtractFile_UnsupportedExtensionFails(t *testing.T) {
	e, root := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\nend\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "script.py"), []byte("import os\n"), 0644))

	_, err := e.ExtractFile("script.py")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrUnsupported))
}

func TestExtractFile_Idempotent(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb":    "class Order\nend\n",
		"app/models/shipment.rb": "class Shipment\n  def order\n    Order.find(order_id)\n  end\nend\n",
	})

	first, err := e.ExtractFile("app/models/shipment.rb")
	require.NoError(t, err)
	second, err := e.ExtractFile("app/models/shipment.rb")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractFileWithStats(t *testing.T) {
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb":    "class Order\nend\n",
		"app/models/shipment.rb": "class Shipment\n  def deps\n    [Order, SomeGemClass]\n  end\nend\n",
	})

	refs, stats, err := e.ExtractFileWithStats("app/models/shipment.rb")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 2, stats.Collected)
	assert.Equal(t, 1, stats.Resolved)
}

func TestExtractFile_SelfReferenceStillReported(t *testing.T) {
	// A file referencing its own constant resolves normally; the graph
	// layer decides what to do with self edges.
	e, _ := newProject(t, map[string]string{
		"app/models/order.rb": "class Order\n  def self.build\n    Order.new\n  end\nend\n",
	})

	refs, err := e.ExtractFile("app/models/order.rb")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "app/models/order.rb", refs[0].Constant.File)
}
