package interactive

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{name: "yes", input: "y\n", def: false, want: true},
		{name: "yes word", input: "yes\n", def: false, want: true},
		{name: "no", input: "n\n", def: true, want: false},
		{name: "no word", input: "NO\n", def: true, want: false},
		{name: "empty takes default true", input: "\n", def: true, want: true},
		{name: "empty takes default false", input: "\n", def: false, want: false},
		{name: "eof takes default", input: "", def: true, want: true},
		{name: "garbage then yes", input: "maybe\ny\n", def: false, want: true},
		{name: "whitespace yes", input: "  y  \n", def: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompterWithIO(strings.NewReader(tt.input), &out)

			if got := p.Confirm("Install update?", tt.def); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Install update?") {
				t.Error("prompt question not written")
			}
		})
	}
}

func TestConfirmRepromptsOnGarbage(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterWithIO(strings.NewReader("what\nn\n"), &out)

	if p.Confirm("Proceed?", true) {
		t.Error("expected false after re-prompt")
	}
	if !strings.Contains(out.String(), "Please answer") {
		t.Error("expected re-prompt message")
	}
}
