package journey

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"surgame/internal/domain/item"

	"github.com/tidwall/gjson"
)

// decodeStrategy turns raw text into entries; ok is false when the strategy
// does not recognise the shape.
type decodeStrategy func(raw string) (entries []item.Amount, ok bool)

var decodeStrategies = []decodeStrategy{
	decodeStructured,
	decodeQuoteNormalised,
	decodePairs,
}

// DecodeRewards normalises a stored reward payload. raw may be JSON text, a
// legacy "id:amount|id:amount" string or an already structured value.
// Entries without a positive item id and amount are dropped; malformed input
// yields an empty list.
func DecodeRewards(raw any) []item.Amount {
	var text string
	switch v := raw.(type) {
	case nil:
		return []item.Amount{}
	case string:
		text = v
	case []byte:
		text = string(v)
	case []item.Amount:
		return positive(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return []item.Amount{}
		}
		text = string(b)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []item.Amount{}
	}
	for _, strategy := range decodeStrategies {
		if entries, ok := strategy(text); ok {
			return positive(entries)
		}
	}
	return []item.Amount{}
}

func decodeStructured(raw string) ([]item.Amount, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}
	root := gjson.Parse(raw)
	if !root.IsArray() && !root.IsObject() {
		// Valid JSON but not a collection: nothing to decode, stop here.
		return nil, true
	}
	var out []item.Amount
	root.ForEach(func(_, entry gjson.Result) bool {
		if a, ok := decodeEntry(entry); ok {
			out = append(out, a)
		}
		return true
	})
	return out, true
}

func decodeEntry(entry gjson.Result) (item.Amount, bool) {
	switch {
	case entry.IsObject():
		id := firstExisting(entry, "item_id", "ItemID")
		amount := firstExisting(entry, "amount", "Amount")
		if id.Exists() && amount.Exists() {
			return item.Amount{ItemID: id.Int(), Amount: amount.Int()}, true
		}
		id, amount = entry.Get("0"), entry.Get("1")
		if id.Exists() && amount.Exists() {
			return item.Amount{ItemID: id.Int(), Amount: amount.Int()}, true
		}
	case entry.IsArray():
		values := entry.Array()
		if len(values) >= 2 {
			return item.Amount{ItemID: values[0].Int(), Amount: values[1].Int()}, true
		}
	}
	return item.Amount{}, false
}

func firstExisting(entry gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := entry.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func decodeQuoteNormalised(raw string) ([]item.Amount, bool) {
	if !strings.Contains(raw, "'") {
		return nil, false
	}
	return decodeStructured(strings.ReplaceAll(raw, "'", `"`))
}

var (
	segmentSplit = regexp.MustCompile(`[|;\n]+`)
	digitPair    = regexp.MustCompile(`(\d+)\D+(\d+)`)
	tokenSplit   = regexp.MustCompile(`[,:\s]+`)
	numericToken = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

func decodePairs(raw string) ([]item.Amount, bool) {
	var out []item.Amount
	for _, segment := range segmentSplit.Split(raw, -1) {
		segment = strings.Trim(segment, "[]{}() \t")
		if segment == "" {
			continue
		}
		if matches := digitPair.FindAllStringSubmatch(segment, -1); len(matches) > 0 {
			for _, m := range matches {
				out = append(out, item.Amount{ItemID: atoi(m[1]), Amount: atoi(m[2])})
			}
			continue
		}
		var tokens []string
		for _, tok := range tokenSplit.Split(segment, -1) {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		if len(tokens) < 2 {
			continue
		}
		if !numericToken.MatchString(tokens[0]) || !numericToken.MatchString(tokens[1]) {
			continue
		}
		id, _ := strconv.ParseFloat(tokens[0], 64)
		amount, _ := strconv.ParseFloat(tokens[1], 64)
		out = append(out, item.Amount{ItemID: int64(id), Amount: int64(amount)})
	}
	return out, true
}

func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func positive(in []item.Amount) []item.Amount {
	out := make([]item.Amount, 0, len(in))
	for _, a := range in {
		if a.ItemID > 0 && a.Amount > 0 {
			out = append(out, a)
		}
	}
	return out
}
