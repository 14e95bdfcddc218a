package redis

import "testing"

func TestKeys(t *testing.T) {
	if got := SessionKey("abc"); got != "tree:session:abc" {
		t.Errorf("SessionKey() = %q", got)
	}
	if got := ShortKey("https://x.test/u/1"); got != "tree:short:https://x.test/u/1" {
		t.Errorf("ShortKey() = %q", got)
	}
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "valid", key: "tree:session:abc", want: "abc"},
		{name: "prefix only", key: "tree:session:", wantErr: true},
		{name: "other prefix", key: "tree:short:https://x", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSessionID(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractSessionID(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractSessionID(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
