package udsv_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/MarkTuddenham/udsv"
)

type goldenCorpus struct {
	Passwd []goldenCase[passwdEntry] `yaml:"passwd"`
	Group  []goldenCase[groupEntry]  `yaml:"group"`
}

type goldenCase[T any] struct {
	Name   string `yaml:"name"`
	Record string `yaml:"record"`
	Entry  T      `yaml:"entry"`
}

func loadCorpus(t *testing.T) goldenCorpus {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "corpus.yaml"))
	if err != nil {
		t.Fatalf("reading corpus: %v", err)
	}

	var corpus goldenCorpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		t.Fatalf("parsing corpus: %v", err)
	}
	return corpus
}

func runGolden[T any](t *testing.T, cases []goldenCase[T]) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			var got T
			if err := udsv.Unmarshal([]byte(tc.Record), &got); err != nil {
				t.Fatalf("Unmarshal(%q) error = %v", tc.Record, err)
			}
			if !reflect.DeepEqual(got, tc.Entry) {
				t.Errorf("Unmarshal(%q) = %+v, want %+v", tc.Record, got, tc.Entry)
			}

			out, err := udsv.Marshal(tc.Entry)
			if err != nil {
				t.Fatalf("Marshal(%+v) error = %v", tc.Entry, err)
			}
			if string(out) != tc.Record {
				t.Errorf("Marshal(%+v) = %q, want %q", tc.Entry, out, tc.Record)
			}
		})
	}
}

func TestGolden_Passwd(t *testing.T) {
	runGolden(t, loadCorpus(t).Passwd)
}

func TestGolden_Group(t *testing.T) {
	runGolden(t, loadCorpus(t).Group)
}
