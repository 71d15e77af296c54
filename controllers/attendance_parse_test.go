package controllers

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "plain date",
			input: "2026-08-28",
			want:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leading zeros",
			input: "2026-01-05",
			want:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "datetime rejected",
			input:   "2026-08-28T10:00:00Z",
			wantErr: true,
		},
		{
			name:    "slash format rejected",
			input:   "28/08/2026",
			wantErr: true,
		},
		{
			name:    "empty string rejected",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("")
	if err != nil || d != nil {
		t.Fatalf("empty input must yield nil date without error, got %v, %v", d, err)
	}

	d, err = parseOptionalDate("2026-08-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || !d.Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected parsed date: %v", d)
	}

	if _, err := parseOptionalDate("garbage"); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}
