package store

import (
	"strings"
	"testing"

	"github.com/sheetveil/sheetveil/internal/engine"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tool    engine.Tool
		wantErr string
	}{
		{
			name: "valid tool",
			tool: engine.Tool{Name: "Cards", Method: "partial", Regexp: `\d{4}`, UserID: "u"},
		},
		{
			name: "empty pattern is allowed",
			tool: engine.Tool{Name: "Blanket", Method: "mask-all", UserID: "u"},
		},
		{
			name:    "missing name",
			tool:    engine.Tool{Method: "partial", UserID: "u"},
			wantErr: "name is required",
		},
		{
			name:    "missing method",
			tool:    engine.Tool{Name: "Cards", UserID: "u"},
			wantErr: "method is required",
		},
		{
			name:    "missing owner",
			tool:    engine.Tool{Name: "Cards", Method: "partial"},
			wantErr: "owner is required",
		},
		{
			name:    "broken pattern",
			tool:    engine.Tool{Name: "Cards", Method: "partial", Regexp: `(unclosed`, UserID: "u"},
			wantErr: "invalid tool pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.tool)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("validate() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate() error = %v", err)
			}
			if tt.tool.Type != engine.TypeSpecific {
				t.Errorf("Type = %q, want forced to %q", tt.tool.Type, engine.TypeSpecific)
			}
		})
	}
}
