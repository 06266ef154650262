package keysym

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    xproto.Keysym
		wantErr bool
	}{
		{"Return", XK_Return, false},
		{"p", 'p', false},
		{"P", 'p', false},
		{"1", '1', false},
		{"+", '+', false},
		{"F12", XK_F1 + 11, false},
		{"space", XK_space, false},
		{"XF86AudioMute", XF86XK_AudioMute, false},
		{"0xff0d", XK_Return, false},
		{"0x0", NoSymbol, true},
		{"0xzz", NoSymbol, true},
		{"return", NoSymbol, true},
		{"", NoSymbol, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = 0x%x, want 0x%x", tt.name, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	for name := range names {
		sym, err := Parse(name)
		if err != nil {
			t.Fatal(err)
		}
		// Punctuation is named by its character.
		if sym > 0x20 && sym <= 0x7e {
			continue
		}
		if got := Name(sym); got != name {
			t.Errorf("Name(Parse(%q)) = %q", name, got)
		}
	}

	if got := Name('q'); got != "q" {
		t.Errorf("Name('q') = %q", got)
	}
	if got := Name(0xfe03); got != "0xfe03" {
		t.Errorf("Name(0xfe03) = %q", got)
	}
}
