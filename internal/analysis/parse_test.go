package analysis

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{name: "plain", reply: `{"Joy": 10}`},
		{name: "fenced", reply: "Here you go:\n```json\n{\"Joy\": 10}\n```\nHope it helps."},
		{name: "bare fence", reply: "```\n{\"Joy\": 10}\n```"},
		{name: "markers", reply: "[[JSON_START]]{\"Joy\": 10}[[JSON_END]]"},
		{name: "prose around braces", reply: "Sure! {\"Joy\": 10} Let me know."},
		{name: "braces in trailing prose", reply: "Here is the analysis: {\"Joy\": 10}\nLet me know if you want more {details}."},
		{name: "braces in leading prose", reply: "Using the {format} you asked for: {\"Joy\": 10}"},
		{name: "nested object", reply: "Result: {\"Joy\": 10, \"triggers\": {\"Joy\": [\"sun\"]}} done {x}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseReply(tc.reply)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got["Joy"] != json.Number("10") {
				t.Fatalf("unexpected value: %#v", got["Joy"])
			}
		})
	}
}

func TestParseReplyFailures(t *testing.T) {
	for _, reply := range []string{"", "   ", "no json here", "{broken", `["array"]`} {
		if _, err := ParseReply(reply); !errors.Is(err, ErrMalformedReply) {
			t.Fatalf("expected ErrMalformedReply for %q, got %v", reply, err)
		}
	}
}
