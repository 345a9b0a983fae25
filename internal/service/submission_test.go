package service

import (
	"errors"
	"sensen_backend/internal/util"
	"strings"
	"testing"
)

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]string
		invalid bool
	}{
		{name: "strings", body: `{"answers":{"1":"A","2":"True"}}`, want: map[string]string{"1": "A", "2": "True"}},
		{name: "number and bool", body: `{"answers":{"3":4,"4":false}}`, want: map[string]string{"3": "4", "4": "false"}},
		{name: "missing answers", body: `{}`, want: map[string]string{}},
		{name: "null answers", body: `{"answers":null}`, want: map[string]string{}},
		{name: "not json", body: `answers=1`, invalid: true},
		{name: "array body", body: `[1,2]`, invalid: true},
		{name: "answers is a list", body: `{"answers":["A"]}`, invalid: true},
		{name: "nested value", body: `{"answers":{"1":{"x":"A"}}}`, invalid: true},
		{name: "null value", body: `{"answers":{"1":null}}`, invalid: true},
		{name: "answer at column limit", body: `{"answers":{"1":"` + strings.Repeat("é", 200) + `"}}`, want: map[string]string{"1": strings.Repeat("é", 200)}},
		{name: "answer over column limit", body: `{"answers":{"1":"` + strings.Repeat("a", 201) + `"}}`, invalid: true},
		{name: "invalid utf-8 is replaced", body: "{\"answers\":{\"1\":\"A\xff\"}}", want: map[string]string{"1": "A\uFFFD"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSubmission([]byte(tc.body))
			if tc.invalid {
				if !errors.Is(err, util.ErrInvalidInput) {
					t.Fatalf("err = %v, want invalid input", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("answer %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestParseAnswerKeys(t *testing.T) {
	if _, _, err := parseAnswerKeys(map[string]string{"abc": "A"}); !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("non-numeric key: err = %v", err)
	}
	if _, _, err := parseAnswerKeys(map[string]string{"0": "A"}); !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("zero key: err = %v", err)
	}
	if _, _, err := parseAnswerKeys(map[string]string{"1": "A", "01": "B"}); !errors.Is(err, util.ErrInvalidInput) {
		t.Errorf("duplicate key: err = %v", err)
	}
	got, ids, err := parseAnswerKeys(map[string]string{"12": "A"})
	if err != nil || got[12] != "A" || len(ids) != 1 {
		t.Errorf("got %v %v %v", got, ids, err)
	}
}
