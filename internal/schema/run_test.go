package schema

import (
	"strings"
	"testing"
)

func TestValidateRunDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "valid",
			doc:  `{"id":"r1","domainId":"norway-props","scenarios":[{"sceneId":"s1"},{"sceneId":"s2","twinId":"t1"}]}`,
		},
		{
			name: "minimal",
			doc:  `{"domainId":"d","scenarios":[]}`,
		},
		{
			name:    "missing domain",
			doc:     `{"scenarios":[]}`,
			wantErr: "domainId",
		},
		{
			name:    "scenarios not an array",
			doc:     `{"domainId":"d","scenarios":{"sceneId":"s1"}}`,
			wantErr: "scenarios",
		},
		{
			name:    "scenario not an object",
			doc:     `{"domainId":"d","scenarios":["s1"]}`,
			wantErr: "scenarios",
		},
		{
			name:    "not json",
			doc:     `nope`,
			wantErr: "validation error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunDocument([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateRunDocument() err=%v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err=%v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
