package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_Flatten(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want config
	}{
		{
			name: "flat keys",
			yaml: "log-level: debug\nlog-pretty: false\n",
			want: config{"log-level": "debug", "log-pretty": false},
		},
		{
			name: "nested keys",
			yaml: "log:\n  level: warn\n  time_layout: kitchen\n",
			want: config{"log-level": "warn", "log-time-layout": "kitchen"},
		},
		{
			name: "numbers become text",
			yaml: "jobs: 4\nratio: 0.5\n",
			want: config{"jobs": "4", "ratio": "0.5"},
		},
		{
			name: "sequences",
			yaml: "input: [3, four]\n",
			want: config{"input": []any{"3", "four"}},
		},
		{
			name: "empty file",
			yaml: "",
			want: config{},
		},
		{
			name: "invalid file is ignored",
			yaml: "log-level: [unclosed\n",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := loadConfig(strings.NewReader(tt.yaml))
			if err != nil {
				t.Fatalf("loadConfig() error: %v", err)
			}

			if diff := cmp.Diff(tt.want, res); diff != "" {
				t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	conf := config{"log-level": "debug"}

	got, err := conf.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
	if err != nil || got != "debug" {
		t.Errorf("Resolve(log-level) = %v, %v", got, err)
	}

	got, err = conf.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-format"}})
	if err != nil || got != nil {
		t.Errorf("Resolve(log-format) = %v, %v, want nil", got, err)
	}
}

func TestLoadConfig_Kong(t *testing.T) {
	var flags struct {
		Level  string   `default:"info"`
		Pretty bool     `default:"true" negatable:""`
		Jobs   int      `default:"0"`
		Input  []string
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "level: trace\npretty: false\njobs: 3\ninput:\n  - a\n  - b\n"

	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&flags, kong.Configuration(loadConfig, path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--jobs=5"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if flags.Level != "trace" || flags.Pretty || flags.Jobs != 5 {
		t.Errorf("flags = %+v", flags)
	}

	if diff := cmp.Diff([]string{"a", "b"}, flags.Input); diff != "" {
		t.Errorf("input mismatch (-want +got):\n%s", diff)
	}
}
