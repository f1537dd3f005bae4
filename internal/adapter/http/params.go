package httpadapter

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"surgame/internal/domain/item"
	"surgame/internal/domain/journey"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid json")

var (
	numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	listSeparators = regexp.MustCompile(`[\s,]+`)
)

// params looks a key up in the JSON or form body first, then in the query
// string, the way game clients mix the two.
type params struct {
	ctx  *app.RequestContext
	body gjson.Result
	form bool
}

func readParams(ctx *app.RequestContext) (params, error) {
	p := params{ctx: ctx}
	contentType := string(ctx.Request.Header.ContentType())
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") || strings.HasPrefix(contentType, "multipart/form-data") {
		p.form = true
		return p, nil
	}
	body := bytes.TrimSpace(ctx.Request.Body())
	if len(body) == 0 {
		return p, nil
	}
	if !gjson.ValidBytes(body) {
		return p, errInvalidJSON
	}
	p.body = gjson.ParseBytes(body)
	if !p.body.IsObject() {
		return p, errInvalidJSON
	}
	return p, nil
}

func (p params) get(key string) gjson.Result {
	if p.form {
		if v, ok := p.ctx.GetPostForm(key); ok {
			return gjson.Result{Type: gjson.String, Str: v}
		}
	} else if r := p.body.Get(key); r.Exists() {
		return r
	}
	if v, ok := p.ctx.GetQuery(key); ok {
		return gjson.Result{Type: gjson.String, Str: v}
	}
	return gjson.Result{}
}

func (p params) has(key string) bool {
	r := p.get(key)
	return r.Exists() && r.Type != gjson.Null
}

// int reads key as a number, accepting numeric strings. Fractions truncate.
func (p params) int(key string) (int64, bool) {
	return numeric(p.get(key))
}

// intOr is int with zero for anything that is not numeric.
func (p params) intOr(key string) int64 {
	n, _ := p.int(key)
	return n
}

// ints reads a list of numbers given as a JSON array, a JSON array encoded
// in a string, or a comma or space separated string.
func (p params) ints(key string) []int64 {
	return numericList(p.get(key))
}

// amounts reads an item payload in any shape the reward decoder accepts.
func (p params) amounts(key string) []item.Amount {
	r := p.get(key)
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return nil
	case r.Type == gjson.String:
		return journey.DecodeRewards(r.Str)
	default:
		return journey.DecodeRewards(r.Raw)
	}
}

func numeric(r gjson.Result) (int64, bool) {
	switch r.Type {
	case gjson.Number:
		return int64(r.Num), true
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if !numericPattern.MatchString(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

func numericList(r gjson.Result) []int64 {
	if r.Type == gjson.String {
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return nil
		}
		if gjson.Valid(s) {
			r = gjson.Parse(s)
		} else {
			var out []int64
			for _, tok := range listSeparators.Split(s, -1) {
				if n, ok := numeric(gjson.Result{Type: gjson.String, Str: tok}); ok {
					out = append(out, n)
				}
			}
			return out
		}
	}
	if !r.IsArray() {
		if n, ok := numeric(r); ok {
			return []int64{n}
		}
		return nil
	}
	var out []int64
	for _, v := range r.Array() {
		switch v.Type {
		case gjson.True:
			out = append(out, 1)
		case gjson.False:
			out = append(out, 0)
		default:
			if n, ok := numeric(v); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

func toInts(in []int64) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
