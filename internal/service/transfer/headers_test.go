package transfer

import "testing"

func TestFilenameFromContentDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{
			name:   "extended form wins over plain form",
			header: `attachment; filename="fallback.bin"; filename*=UTF-8''caf%C3%A9.bin`,
			want:   "café.bin",
			wantOK: true,
		},
		{
			name:   "extended form percent-decoded",
			header: `attachment; filename*=UTF-8''caf%C3%A9.bin`,
			want:   "café.bin",
			wantOK: true,
		},
		{
			name:   "quoted plain form",
			header: `attachment; filename="report.csv"`,
			want:   "report.csv",
			wantOK: true,
		},
		{
			name:   "bare plain form with trailing parameters",
			header: `attachment; filename=report.csv; size=1234`,
			want:   "report.csv",
			wantOK: true,
		},
		{
			name:   "plain form with surrounding whitespace",
			header: `attachment; filename= "spaced name.tar.gz" `,
			want:   "spaced name.tar.gz",
			wantOK: true,
		},
		{
			name:   "no filename parameter",
			header: "attachment",
			want:   "",
			wantOK: false,
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
			wantOK: false,
		},
		{
			name:   "empty filename value",
			header: `attachment; filename=""`,
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FilenameFromContentDisposition(tt.header)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FilenameFromContentDisposition(%q) = (%q, %v), want (%q, %v)",
					tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "last path segment, query ignored",
			url:  "https://x/y/report.csv?x=1",
			want: "report.csv",
		},
		{
			name: "plain path",
			url:  "https://armory.example.com/files/tool.tar.gz",
			want: "tool.tar.gz",
		},
		{
			name: "no path falls back",
			url:  "https://armory.example.com",
			want: "download",
		},
		{
			name: "root path falls back",
			url:  "https://armory.example.com/",
			want: "download",
		},
		{
			name: "unparseable falls back",
			url:  "://not a url",
			want: "download",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameFromURL(tt.url); got != tt.want {
				t.Errorf("FilenameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestTotalFromContentRange(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int64
		wantOK bool
	}{
		{
			name:   "standard range",
			header: "bytes 100-1023/1024",
			want:   1024,
			wantOK: true,
		},
		{
			name:   "unknown total",
			header: "bytes 100-1023/*",
			want:   0,
			wantOK: false,
		},
		{
			name:   "missing slash",
			header: "bytes 100-1023",
			want:   0,
			wantOK: false,
		},
		{
			name:   "empty header",
			header: "",
			want:   0,
			wantOK: false,
		},
		{
			name:   "garbage total",
			header: "bytes 0-10/abc",
			want:   0,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TotalFromContentRange(tt.header)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TotalFromContentRange(%q) = (%d, %v), want (%d, %v)",
					tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
