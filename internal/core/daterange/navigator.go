package daterange

import (
	"fmt"
	"strings"
)

// Direction は選択肢の移動方向です。
type Direction string

const (
	// DirectionPrevious は一覧の一つ前 (より新しい期間) へ移動します。
	DirectionPrevious Direction = "previous"
	// DirectionNext は一覧の一つ後 (より古い期間) へ移動します。
	DirectionNext Direction = "next"
)

// ParseDirection は文字列から移動方向を解釈します。
func ParseDirection(raw string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(raw)))
	switch d {
	case DirectionPrevious, DirectionNext:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// Navigator は開始日の降順に並んだ選択肢の中で現在の選択を保持します。
type Navigator struct {
	Options []Option
	Current Option
}

// Step は隣接する選択肢へ移動し、新しい選択を返します。端では選択を変えません。
func (n *Navigator) Step(direction Direction) Option {
	n.Current = Step(n.Options, n.Current, direction)
	return n.Current
}

// Step は options 内で current に隣接する選択肢を返します。
// current が一覧に無い場合、DirectionNext は先頭の選択肢を返します。
func Step(options []Option, current Option, direction Direction) Option {
	idx := -1
	for i, opt := range options {
		if opt.Value == current.Value {
			idx = i
			break
		}
	}

	switch direction {
	case DirectionPrevious:
		if idx > 0 {
			return options[idx-1]
		}
	case DirectionNext:
		if idx < len(options)-1 {
			return options[idx+1]
		}
	}

	return current
}
