package payment

import (
	"unicode/utf8"

	"github.com/ariefcatur/go-kasir/internal/money"
)

// Keypad mirrors the on-screen cash keypad.
type Keypad struct {
	input string
}

const (
	KeyClear     = "C"
	KeyBack      = "←"
	KeyBackspace = "Backspace"
	KeySubmit    = "✔"
	KeyEnter     = "Enter"
)

// Press applies one key and reports whether it asks to submit.
// Unknown keys are ignored.
func (k *Keypad) Press(key string) bool {
	switch {
	case key == KeyClear:
		k.input = ""
	case key == KeyBack || key == KeyBackspace:
		if k.input != "" {
			_, size := utf8.DecodeLastRuneInString(k.input)
			k.input = k.input[:len(k.input)-size]
		}
	case key == KeySubmit || key == KeyEnter:
		return true
	case key == "00" || (len(key) == 1 && key[0] >= '0' && key[0] <= '9'):
		k.input += key
	}
	return false
}

func (k *Keypad) Input() string   { return k.input }
func (k *Keypad) Amount() int64   { return money.Digits(k.input) }
func (k *Keypad) Display() string { return money.Format(k.Amount()) }
