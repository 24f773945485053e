package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"run", "--log-level", "debug", "--log-format", "json", "x.spd"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=trace", "--log-caller"},
			want: logConfig{Level: "trace", Caller: true},
		},
		{
			name: "negated booleans",
			args: []string{"--log-pretty", "--no-log-pretty", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "invalid boolean ignored",
			args: []string{"--log-pretty=maybe"},
			want: logConfig{},
		},
		{
			name: "other flags ignored",
			args: []string{"--log-levels", "warn", "--pretty"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig
			got.scan(tt.args)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scan(%q) mismatch (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	var f logConfig

	want := map[string]string{
		"logLevelEnum":  "trace,debug,info,warn,error",
		"logFormatEnum": "text,json",
	}

	if diff := cmp.Diff(want, map[string]string(f.vars())); diff != "" {
		t.Errorf("vars() mismatch (-want +got):\n%s", diff)
	}
}
