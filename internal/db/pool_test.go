package db

import "testing"

func TestOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{"all zero falls back", Options{}, Options{MaxConns: 10, MinConns: 2, ConnectRetries: 5}},
		{"explicit values kept", Options{MaxConns: 50, MinConns: 5, ConnectRetries: 3}, Options{MaxConns: 50, MinConns: 5, ConnectRetries: 3}},
		{"partial override", Options{MaxConns: 25}, Options{MaxConns: 25, MinConns: 2, ConnectRetries: 5}},
		{"negative treated as unset", Options{MaxConns: -1, ConnectRetries: -3}, Options{MaxConns: 10, MinConns: 2, ConnectRetries: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.withDefaults()
			if got != tt.want {
				t.Errorf("withDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
