package main

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantPos    []string
		wantErr    bool
		check      func(t *testing.T, f flags)
	}{
		{
			name:    "defaults",
			args:    []string{"/repo", "find", "Foo"},
			wantPos: []string{"/repo", "find", "Foo"},
			check: func(t *testing.T, f flags) {
				if !f.exact {
					t.Error("expected exact to default true")
				}
				if f.depth != 3 {
					t.Errorf("expected depth default 3, got %d", f.depth)
				}
			},
		},
		{
			name:    "bool flags",
			args:    []string{"/repo", "find", "Foo", "--json", "--with-types", "--code-only"},
			wantPos: []string{"/repo", "find", "Foo"},
			check: func(t *testing.T, f flags) {
				if !f.json || !f.withTypes || !f.codeOnly {
					t.Errorf("expected json/with-types/code-only set, got %+v", f)
				}
			},
		},
		{
			name:    "value flags",
			args:    []string{"/repo", "find", "Foo", "--top=5", "--depth=2", "--file=*.go"},
			wantPos: []string{"/repo", "find", "Foo"},
			check: func(t *testing.T, f flags) {
				if f.top != 5 || f.depth != 2 || f.file != "*.go" {
					t.Errorf("unexpected flags: %+v", f)
				}
			},
		},
		{
			name:    "terminator passes literal dashes through",
			args:    []string{"/repo", "find", "--", "--foo"},
			wantPos: []string{"/repo", "find", "--foo"},
		},
		{
			name:    "unknown flag before terminator errors",
			args:    []string{"/repo", "find", "--bogus"},
			wantErr: true,
		},
		{
			name:    "value flag without value errors",
			args:    []string{"/repo", "find", "--top"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, pos, err := parseFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags() error: %v", err)
			}
			if len(pos) != len(tt.wantPos) {
				t.Fatalf("positional = %v, want %v", pos, tt.wantPos)
			}
			for i := range pos {
				if pos[i] != tt.wantPos[i] {
					t.Fatalf("positional[%d] = %q, want %q", i, pos[i], tt.wantPos[i])
				}
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}
