package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/astviz/pkg/cache"
	"github.com/matzehuels/astviz/pkg/errors"
	"github.com/matzehuels/astviz/pkg/notify"
	"github.com/matzehuels/astviz/pkg/pipeline"
	"github.com/matzehuels/astviz/pkg/statemachine"
)

func TestDocumentName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///work/traffic.statemachine", "traffic"},
		{"file:///work/archive.tar.gz", "archive.tar"},
		{"inmemory://model/Main", "Main"},
		{"untitled", "untitled"},
		{"file:///work/.hidden", ".hidden"},
		{"file:///", "document"},
		{"", "document"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if got := documentName(tt.uri); got != tt.want {
				t.Errorf("documentName(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}

func TestWatchHandler(t *testing.T) {
	isolate(t)
	status := captureStatus(t)

	c := New(io.Discard, LogInfo)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	out := filepath.Join(t.TempDir(), "renders")
	handle := c.watchHandler(runner, pipeline.FormatDOT, out)
	ctx := withLogger(context.Background(), c.Logger)

	change := notify.DocumentChange{
		URI:     "file:///work/traffic.statemachine",
		Content: string(statemachine.TrafficLightAST),
	}
	if err := handle(ctx, change); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "traffic.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "strict digraph {") {
		t.Errorf("traffic.dot = %q", data)
	}
	if !strings.Contains(status.String(), "14 nodes") {
		t.Errorf("status = %q", status.String())
	}

	// Empty documents are skipped, diagnostics are reported.
	empty := notify.DocumentChange{
		URI:         "file:///work/empty.statemachine",
		Diagnostics: []notify.Diagnostic{{Message: "unexpected end of input", Severity: notify.SeverityError}},
	}
	if err := handle(ctx, empty); err != nil {
		t.Fatalf("handler(empty) error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "empty.dot")); !os.IsNotExist(err) {
		t.Error("empty document should not be rendered")
	}
	if !strings.Contains(status.String(), "1 diagnostic(s)") {
		t.Errorf("status = %q", status.String())
	}

	bad := notify.DocumentChange{URI: "file:///work/bad.statemachine", Content: `{"$type": `}
	if err := handle(ctx, bad); !errors.Is(err, errors.ErrCodeInvalidAST) {
		t.Errorf("handler(bad) = %v, want INVALID_AST", err)
	}
}
