package deck

import (
	"errors"
	"math/rand/v2"
)

const (
	MinFicha = 1  // 最小面值
	MaxFicha = 99 // 最大面值
	Size     = MaxFicha - MinFicha + 1
)

// ErrEmptyDeck 牌堆已空
var ErrEmptyDeck = errors.New("deck is empty")

// Generate 生成 1..99 的升序序列
func Generate() []int {
	fichas := make([]int, 0, Size)
	for v := MinFicha; v <= MaxFicha; v++ {
		fichas = append(fichas, v)
	}
	return fichas
}

// Shuffle 返回输入的一个均匀随机排列（不修改输入）
func Shuffle(fichas []int) []int {
	out := make([]int, len(fichas))
	copy(out, fichas)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Deck 一局使用的筹码堆，从末尾（顶部）取
type Deck struct {
	fichas []int
}

// New 创建未洗的完整牌堆
func New() *Deck {
	return &Deck{fichas: Generate()}
}

// NewShuffled 创建洗好的完整牌堆
func NewShuffled() *Deck {
	return &Deck{fichas: Shuffle(Generate())}
}

// FromSlice 用给定顺序创建牌堆，最后一个元素最先被抽出
func FromSlice(fichas []int) *Deck {
	return &Deck{fichas: append([]int(nil), fichas...)}
}

// Draw 从顶部抽出一枚
func (d *Deck) Draw() (int, error) {
	if len(d.fichas) == 0 {
		return 0, ErrEmptyDeck
	}
	top := d.fichas[len(d.fichas)-1]
	d.fichas = d.fichas[:len(d.fichas)-1]
	return top, nil
}

// Len 剩余数量
func (d *Deck) Len() int {
	return len(d.fichas)
}

// Remaining 剩余筹码的副本
func (d *Deck) Remaining() []int {
	return append([]int(nil), d.fichas...)
}
