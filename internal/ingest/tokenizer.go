package ingest

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote is returned when a value list ends inside a literal.
var ErrUnterminatedQuote = errors.New("unterminated quoted literal")

type tokenState int

const (
	stateUnquoted tokenState = iota
	stateQuoted
)

// Field is one value of a VALUES list. Quoted is set when the value was
// written as a literal, which tells 'NULL' apart from NULL.
type Field struct {
	Value  string
	Quoted bool
}

// SplitValues splits the inside of a VALUES (...) list into field values.
func SplitValues(list string) ([]string, error) {
	fields, err := SplitFields(list)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	return values, nil
}

// SplitFields splits the inside of a VALUES (...) list into fields.
//
// Outside a literal a comma ends the field and a single quote opens a
// literal. Inside a literal a doubled quote is one quote character and a
// lone quote closes it. Unquoted tokens are trimmed; quoted content is kept
// verbatim and whitespace around the quotes is dropped.
func SplitFields(list string) ([]Field, error) {
	var (
		fields []Field
		cur    strings.Builder
		quoted bool
		state  = stateUnquoted
	)

	finish := func() {
		v := cur.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		fields = append(fields, Field{Value: v, Quoted: quoted})
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(list); i++ {
		c := list[i]
		switch state {
		case stateUnquoted:
			switch {
			case c == ',':
				finish()
			case c == '\'':
				if !quoted && strings.TrimSpace(cur.String()) == "" {
					cur.Reset()
				}
				quoted = true
				state = stateQuoted
			case quoted && isSpace(c):
				// whitespace between a closing quote and the separator
			default:
				cur.WriteByte(c)
			}

		case stateQuoted:
			if c != '\'' {
				cur.WriteByte(c)
				continue
			}
			if i+1 < len(list) && list[i+1] == '\'' {
				cur.WriteByte('\'')
				i++
				continue
			}
			state = stateUnquoted
		}
	}

	if state == stateQuoted {
		return nil, ErrUnterminatedQuote
	}
	finish()
	return fields, nil
}

// QuoteLiteral renders s as a single-quoted SQL literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
