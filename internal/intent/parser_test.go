package intent

import (
	"errors"
	"testing"

	"shopchat/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Intent
	}{
		{
			name: "plain message intent",
			text: `{"message":"Hi","action":"NONE"}`,
			want: domain.Intent{Message: "Hi", Action: domain.ActionNone, Quantity: 1},
		},
		{
			name: "order with quantity",
			text: `{"action":"CREATE_ORDER","item":"Red Shirt","quantity":2,"message":"Done"}`,
			want: domain.Intent{Message: "Done", Action: domain.ActionCreateOrder, Item: "Red Shirt", Quantity: 2},
		},
		{
			name: "quantity omitted defaults to 1",
			text: `{"action":"CREATE_ORDER","item":"Hat"}`,
			want: domain.Intent{Message: "Processed.", Action: domain.ActionCreateOrder, Item: "Hat", Quantity: 1},
		},
		{
			name: "negative quantity defaults to 1",
			text: `{"action":"CREATE_ORDER","item":"Hat","quantity":-3}`,
			want: domain.Intent{Message: "Processed.", Action: domain.ActionCreateOrder, Item: "Hat", Quantity: 1},
		},
		{
			name: "unrecognized action collapses to NONE",
			text: `{"message":"?","action":"REFUND_ORDER"}`,
			want: domain.Intent{Message: "?", Action: domain.ActionNone, Quantity: 1},
		},
		{
			name: "order without item degrades to message",
			text: `{"message":"Sure","action":"CREATE_ORDER"}`,
			want: domain.Intent{Message: "Sure", Action: domain.ActionNone, Quantity: 1},
		},
		{
			name: "object wrapped in markdown fence",
			text: "```json\n{\"action\":\"CREATE_ORDER\",\"item\":\"Red Shirt\",\"quantity\":1,\"message\":\"Order placed!\"}\n```",
			want: domain.Intent{Message: "Order placed!", Action: domain.ActionCreateOrder, Item: "Red Shirt", Quantity: 1},
		},
		{
			name: "object surrounded by prose",
			text: `Sure thing! {"message":"Hi","action":"NONE"} Let me know.`,
			want: domain.Intent{Message: "Hi", Action: domain.ActionNone, Quantity: 1},
		},
		{
			name: "nested braces inside message",
			text: `{"message":"use {curly} style","action":"NONE"}`,
			want: domain.Intent{Message: "use {curly} style", Action: domain.ActionNone, Quantity: 1},
		},
		{
			name: "braces inside string values",
			text: `{"message":"a } b { c","action":"NONE"}`,
			want: domain.Intent{Message: "a } b { c", Action: domain.ActionNone, Quantity: 1},
		},
		{
			name: "first of two objects wins",
			text: `{"message":"first","action":"NONE"} and {"message":"second","action":"NONE"}`,
			want: domain.Intent{Message: "first", Action: domain.ActionNone, Quantity: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no braces at all", text: "I am sorry, I cannot help with that."},
		{name: "empty input", text: ""},
		{name: "unbalanced object", text: `{"message":"Hi"`},
		{name: "span is not valid json", text: `{message: Hi}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var parseErr *domain.IntentParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Parse() error = %v, want *domain.IntentParseError", err)
			}
		})
	}
}

// The historical greedy match spans from the first { to the last }, which
// breaks when the reply contains two objects. The balanced scan does not.
func TestParseGreedyKnownFragility(t *testing.T) {
	text := `{"message":"first","action":"NONE"} and {"message":"second","action":"NONE"}`

	if _, err := ParseGreedy(text); err == nil {
		t.Error("ParseGreedy() succeeded on a two-object reply; the greedy span should not decode")
	}

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Message != "first" {
		t.Errorf("Parse() message = %q, want %q", got.Message, "first")
	}
}

func TestParseGreedySingleObject(t *testing.T) {
	got, err := ParseGreedy("```json\n{\"message\":\"Hi\",\"action\":\"NONE\"}\n```")
	if err != nil {
		t.Fatalf("ParseGreedy() error = %v", err)
	}
	if got.Message != "Hi" || got.Action != domain.ActionNone || got.Quantity != 1 {
		t.Errorf("ParseGreedy() = %+v", *got)
	}
}
