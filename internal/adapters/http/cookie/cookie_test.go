package cookie

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		want  []string
		avoid []string
	}{
		{
			name:  "csrf cookie in development",
			opts:  Options{SameSite: SameSiteLax, MaxAge: 24 * time.Hour},
			want:  []string{"XSRF-TOKEN=abc", "Path=/", "Max-Age=86400", "SameSite=Lax"},
			avoid: []string{"HttpOnly", "Secure"},
		},
		{
			name: "production flags",
			opts: Options{HTTPOnly: true, Secure: true, SameSite: SameSiteStrict, Domain: "example.com", Path: "/api"},
			want: []string{"HttpOnly", "Secure", "SameSite=Strict", "Domain=example.com", "Path=/api"},
		},
		{
			name:  "sub-second max age is dropped",
			opts:  Options{MaxAge: 500 * time.Millisecond},
			avoid: []string{"Max-Age"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize("XSRF-TOKEN", "abc", tt.opts)
			for _, part := range tt.want {
				if !strings.Contains(got, part) {
					t.Errorf("expected %q in %q", part, got)
				}
			}
			for _, part := range tt.avoid {
				if strings.Contains(got, part) {
					t.Errorf("did not expect %q in %q", part, got)
				}
			}
		})
	}
}

func TestSet_AppendsHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, "a", "1", Options{})
	Set(rec, "b", "2", Options{})

	if got := rec.Result().Header.Values("Set-Cookie"); len(got) != 2 {
		t.Fatalf("expected two Set-Cookie headers, got %v", got)
	}
}

func TestParse(t *testing.T) {
	got := Parse(" XSRF-TOKEN=abc ; session=a=b=c;flag; =nameless; theme=dark")
	want := map[string]string{
		"XSRF-TOKEN": "abc",
		"session":    "a=b=c",
		"theme":      "dark",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}
}
