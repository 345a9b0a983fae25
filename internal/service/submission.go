package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sensen_backend/internal/model"
	"sensen_backend/internal/util"
	"strconv"
	"unicode/utf8"
)

// ParseSubmission decodes a {"answers": {"<question id>": <answer>}} body.
// Answers may be strings, numbers or booleans of at most
// model.MaxAnswerLength characters; anything else is rejected.
// A body without "answers" is an empty submission.
func ParseSubmission(body []byte) (map[string]string, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", util.ErrInvalidPayload)
	}

	raw, ok := envelope["answers"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return map[string]string{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: answers must be an object", util.ErrInvalidPayload)
	}

	answers := make(map[string]string, len(fields))
	for key, value := range fields {
		s, err := scalarString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: answer for question %q %v", util.ErrInvalidPayload, key, err)
		}
		answers[key] = s
	}
	return answers, nil
}

func scalarString(raw json.RawMessage) (string, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", fmt.Errorf("must be a string, number or boolean")
	}
	if n := utf8.RuneCountInString(s); n > model.MaxAnswerLength {
		return "", fmt.Errorf("is %d characters long, the limit is %d", n, model.MaxAnswerLength)
	}
	return s, nil
}

// parseAnswerKeys converts question id keys, rejecting anything that is not
// a positive integer.
func parseAnswerKeys(answers map[string]string) (map[uint]string, []uint, error) {
	out := make(map[uint]string, len(answers))
	ids := make([]uint, 0, len(answers))
	for key, value := range answers {
		id, ok := util.ParseID(key)
		if !ok {
			return nil, nil, fmt.Errorf("%w: question id %s", util.ErrInvalidPayload, strconv.Quote(key))
		}
		if _, dup := out[id]; dup {
			return nil, nil, fmt.Errorf("%w: question %d answered twice", util.ErrInvalidPayload, id)
		}
		out[id] = value
		ids = append(ids, id)
	}
	return out, ids, nil
}
